package models

import (
	"time"
)

// Agent is a reusable system-prompt persona. It shares the workflow
// visibility model: owner writes, public/readonly reads.
type Agent struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	Description  string     `json:"description"`
	Icon         JSON       `gorm:"type:jsonb" json:"icon"`
	Instructions string     `gorm:"type:text" json:"instructions"`
	Visibility   Visibility `gorm:"type:varchar(16);not null;default:private" json:"visibility"`
	UserID       uint       `gorm:"index;not null" json:"userId"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Agent) TableName() string {
	return "agent"
}

func (slf Agent) CanAccess(userID uint, readOnly bool) bool {
	if slf.UserID == userID {
		return true
	}
	if !readOnly {
		return false
	}
	return slf.Visibility == VisibilityPublic || slf.Visibility == VisibilityReadOnly
}
