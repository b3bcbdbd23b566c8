package mapper

import (
	"chatbot/internal/api/handler/response"
	"chatbot/internal/api/models"
)

type UserMapper interface {
	EntityToUserResponse(user models.User) response.UserResponseDTO
	EntitiesToUserResponses(users []models.User) []response.UserResponseDTO
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) EntityToUserResponse(user models.User) response.UserResponseDTO {
	return response.UserResponseDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Avatar:    user.Avatar,
		Role:      user.Role,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}

func (m *UserMapperImpl) EntitiesToUserResponses(users []models.User) []response.UserResponseDTO {
	result := make([]response.UserResponseDTO, len(users))
	for i, u := range users {
		result[i] = m.EntityToUserResponse(u)
	}
	return result
}
