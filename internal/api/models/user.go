package models

import (
	"time"

	"gorm.io/gorm"
)

type AppRole string

const (
	RoleUser  AppRole = "user"
	RoleAdmin AppRole = "admin"
)

func (slf AppRole) IsValid() bool {
	return slf == RoleUser || slf == RoleAdmin
}

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Password     string         `gorm:"not null;column:password" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Avatar       string         `json:"avatar"`
	Role         AppRole        `gorm:"type:varchar(16);not null;default:user" json:"role"`
	Active       bool           `gorm:"default:true" json:"active"`
	RefreshToken string         `gorm:"type:text" json:"-"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;column:created_at" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime;column:updated_at" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index;column:deleted_at" json:"-"`
}

func (User) TableName() string {
	return "users"
}
