package request

import "encoding/json"

type CreateMcpServer struct {
	Name    string          `json:"name" validate:"required"`
	Config  json.RawMessage `json:"config" validate:"required"`
	Enabled *bool           `json:"enabled"`
}

type UpdateMcpServer struct {
	Name    *string         `json:"name"`
	Config  json.RawMessage `json:"config"`
	Enabled *bool           `json:"enabled"`
}
