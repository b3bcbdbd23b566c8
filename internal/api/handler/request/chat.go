package request

import (
	"encoding/json"

	"chatbot/internal/api/models"
)

type CreateThread struct {
	Title string `json:"title" validate:"required"`
}

type UpdateThread struct {
	Title *string `json:"title"`
}

type AppendMessage struct {
	ID          string          `json:"id"`
	Role        models.ChatRole `json:"role" validate:"required,oneof=user assistant system"`
	Parts       json.RawMessage `json:"parts" validate:"required"`
	Attachments json.RawMessage `json:"attachments"`
	Model       string          `json:"model"`
}
