package models

import (
	"time"
)

// McpServer is a stored MCP tool-server configuration. Only the
// configuration is persisted here; the MCP client protocol itself is an
// external collaborator.
type McpServer struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_mcp_user_name" json:"name"`
	Config    JSON      `gorm:"type:jsonb;not null" json:"config"`
	Enabled   bool      `gorm:"default:true" json:"enabled"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_mcp_user_name" json:"userId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (McpServer) TableName() string {
	return "mcp_server"
}
