package models

import (
	"time"
)

type ChatThread struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Messages []ChatMessage `gorm:"foreignKey:ThreadID" json:"messages,omitempty"`
}

func (ChatThread) TableName() string {
	return "chat_thread"
}

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

func (slf ChatRole) IsValid() bool {
	return slf == ChatRoleUser || slf == ChatRoleAssistant || slf == ChatRoleSystem
}

// ChatMessage ids come from the client (the streaming collaborator assigns
// them), so they are plain strings rather than generated uuids.
type ChatMessage struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	ThreadID    string    `gorm:"index;not null;type:uuid" json:"threadId"`
	Role        ChatRole  `gorm:"type:varchar(16);not null" json:"role"`
	Parts       JSON      `gorm:"type:jsonb;not null" json:"parts"`
	Attachments JSON      `gorm:"type:jsonb" json:"attachments"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_message"
}
