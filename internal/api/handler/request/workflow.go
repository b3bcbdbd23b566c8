package request

import (
	"encoding/json"

	"chatbot/internal/api/models"
)

// SaveWorkflow is the upsert body: no id means create, an id means patch.
type SaveWorkflow struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Description         *string            `json:"description"`
	Icon                json.RawMessage    `json:"icon"`
	IsPublished         *bool              `json:"isPublished"`
	Visibility          *models.Visibility `json:"visibility" validate:"omitempty,oneof=public private readonly"`
	NoGenerateInputNode bool               `json:"noGenerateInputNode"`
}

type UpdateWorkflow struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Icon        json.RawMessage    `json:"icon"`
	IsPublished *bool              `json:"isPublished"`
	Visibility  *models.Visibility `json:"visibility" validate:"omitempty,oneof=public private readonly"`
}

type StructureNode struct {
	ID          string          `json:"id"`
	WorkflowID  string          `json:"workflowId"`
	Kind        models.NodeKind `json:"kind" validate:"required,oneof=input output llm tool http template condition code"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	NodeConfig  json.RawMessage `json:"nodeConfig"`
	UIConfig    json.RawMessage `json:"uiConfig"`
}

type StructureEdge struct {
	ID         string          `json:"id"`
	WorkflowID string          `json:"workflowId"`
	Source     string          `json:"source" validate:"required"`
	Target     string          `json:"target" validate:"required"`
	UIConfig   json.RawMessage `json:"uiConfig"`
}

// SaveStructure is one batch of graph changes: upserts plus deletions by id.
type SaveStructure struct {
	Nodes       []StructureNode `json:"nodes" validate:"omitempty,dive"`
	Edges       []StructureEdge `json:"edges" validate:"omitempty,dive"`
	DeleteNodes []string        `json:"deleteNodes"`
	DeleteEdges []string        `json:"deleteEdges"`
}
