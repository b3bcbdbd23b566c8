package request

import (
	"encoding/json"

	"chatbot/internal/api/models"
)

type CreateAgent struct {
	Name         string             `json:"name" validate:"required"`
	Description  string             `json:"description"`
	Icon         json.RawMessage    `json:"icon"`
	Instructions string             `json:"instructions"`
	Visibility   *models.Visibility `json:"visibility" validate:"omitempty,oneof=public private readonly"`
}

type UpdateAgent struct {
	Name         *string            `json:"name"`
	Description  *string            `json:"description"`
	Icon         json.RawMessage    `json:"icon"`
	Instructions *string            `json:"instructions"`
	Visibility   *models.Visibility `json:"visibility" validate:"omitempty,oneof=public private readonly"`
}
