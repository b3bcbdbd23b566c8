package response

import (
	"time"

	"chatbot/internal/api/models"
)

type UserResponseDTO struct {
	ID        uint           `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Avatar    string         `json:"avatar"`
	Role      models.AppRole `json:"role"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"createdAt"`
}

type AuthResponseDTO struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	User         UserResponseDTO `json:"user"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}
