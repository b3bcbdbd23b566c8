package models

import (
	"time"

	"github.com/google/uuid"
)

type NodeKind string

const (
	NodeKindInput     NodeKind = "input"
	NodeKindOutput    NodeKind = "output"
	NodeKindLLM       NodeKind = "llm"
	NodeKindTool      NodeKind = "tool"
	NodeKindHTTP      NodeKind = "http"
	NodeKindTemplate  NodeKind = "template"
	NodeKindCondition NodeKind = "condition"
	NodeKindCode      NodeKind = "code"
)

func (slf NodeKind) IsValid() bool {
	switch slf {
	case NodeKindInput, NodeKindOutput, NodeKindLLM, NodeKindTool,
		NodeKindHTTP, NodeKindTemplate, NodeKindCondition, NodeKindCode:
		return true
	}
	return false
}

// Node is a typed unit of work in a workflow graph. NodeConfig carries the
// kind-specific parameters, UIConfig the canvas position plus whatever else
// the editor stores; both are opaque to this layer.
type Node struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	WorkflowID  string    `gorm:"index;not null;type:uuid" json:"workflowId"`
	Kind        NodeKind  `gorm:"type:varchar(32);not null" json:"kind"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	NodeConfig  JSON      `gorm:"type:jsonb" json:"nodeConfig"`
	UIConfig    JSON      `gorm:"type:jsonb" json:"uiConfig"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Node) TableName() string {
	return "workflow_node"
}

// Edge is a directed connection between two nodes of the same workflow.
// Edges are never updated in place, only replaced.
type Edge struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	WorkflowID string    `gorm:"index;not null;type:uuid" json:"workflowId"`
	Source     string    `gorm:"not null;type:uuid" json:"source"`
	Target     string    `gorm:"not null;type:uuid" json:"target"`
	UIConfig   JSON      `gorm:"type:jsonb" json:"uiConfig"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Edge) TableName() string {
	return "workflow_edge"
}

// DefaultInputNode seeds a fresh workflow with its entry node.
func DefaultInputNode(workflowID string) Node {
	return Node{
		ID:         uuid.NewString(),
		WorkflowID: workflowID,
		Kind:       NodeKindInput,
		Name:       "INPUT",
		NodeConfig: MustJSON(map[string]any{}),
		UIConfig: MustJSON(map[string]any{
			"position": map[string]float64{"x": 0, "y": 0},
		}),
	}
}
