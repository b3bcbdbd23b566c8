package models

import (
	"time"
)

// Visibility controls whether non-owners may read a workflow or agent.
// Write access is always owner-only, whatever the visibility.
type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityPublic   Visibility = "public"
	VisibilityReadOnly Visibility = "readonly"
)

func (slf Visibility) IsValid() bool {
	switch slf {
	case VisibilityPrivate, VisibilityPublic, VisibilityReadOnly:
		return true
	}
	return false
}

const DefaultWorkflowVersion = "0.1.0"

type Workflow struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	Icon        JSON       `gorm:"type:jsonb" json:"icon"`
	Version     string     `gorm:"not null" json:"version"`
	IsPublished bool       `gorm:"default:false" json:"isPublished"`
	Visibility  Visibility `gorm:"type:varchar(16);not null;default:private" json:"visibility"`
	UserID      uint       `gorm:"index;not null" json:"userId"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	Nodes []Node `gorm:"foreignKey:WorkflowID" json:"nodes,omitempty"`
	Edges []Edge `gorm:"foreignKey:WorkflowID" json:"edges,omitempty"`
}

func (Workflow) TableName() string {
	return "workflow"
}

// CanAccess reports whether a user may read (readOnly=true) or mutate
// (readOnly=false) this workflow. Mutation is owner-only; reading is open to
// non-owners when visibility is public or readonly.
func (slf Workflow) CanAccess(userID uint, readOnly bool) bool {
	if slf.UserID == userID {
		return true
	}
	if !readOnly {
		return false
	}
	return slf.Visibility == VisibilityPublic || slf.Visibility == VisibilityReadOnly
}

// CanExecute reports whether a user may invoke this workflow as a tool:
// the owner always, anyone else only when it is published and public.
func (slf Workflow) CanExecute(userID uint) bool {
	if slf.UserID == userID {
		return true
	}
	return slf.IsPublished && slf.Visibility == VisibilityPublic
}

// WorkflowSummary is a workflow header joined with its owner's display
// name and avatar, for listing.
type WorkflowSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        JSON       `json:"icon"`
	Version     string     `json:"version"`
	IsPublished bool       `json:"isPublished"`
	Visibility  Visibility `json:"visibility"`
	UserID      uint       `json:"userId"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	UserName    string     `json:"userName"`
	UserAvatar  string     `json:"userAvatar"`
}

// StructureBatch is one logical save of a workflow graph: node/edge
// additions and full-record updates plus deletions by id, all scoped to a
// single workflow.
type StructureBatch struct {
	WorkflowID  string
	Nodes       []Node
	Edges       []Edge
	DeleteNodes []string
	DeleteEdges []string
}

// NextNodeCount is the node count the workflow would have after this batch.
// The check is deliberately coarse (counts, not graph validity): it exists to
// stop a malformed payload from wiping a workflow's node set in one save.
func (slf StructureBatch) NextNodeCount(current int64) int64 {
	return current + int64(len(slf.Nodes)) - int64(len(slf.DeleteNodes))
}
