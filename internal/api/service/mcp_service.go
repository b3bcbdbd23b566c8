package service

import (
	"chatbot"
	"chatbot/internal/api/models"
	"chatbot/internal/api/repo"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrMcpServerNotFound = errors.New("mcp server not found")

// McpService manages stored MCP tool-server configurations. Servers are
// strictly owner-scoped; there is no shared visibility tier here.
type McpService struct {
	mcpRepo *repo.McpRepository
	logger  zerolog.Logger
}

func NewMcpService() *McpService {
	return &McpService{
		mcpRepo: repo.NewMcpRepository(),
		logger:  chatbot.Logger,
	}
}

func (slf *McpService) FindAllForUser(userID uint) ([]models.McpServer, error) {
	servers, err := slf.mcpRepo.FindAllByUser(userID)
	if err != nil {
		slf.logger.Error().Err(err).Uint("userId", userID).Msg("Error listing mcp servers")
		return nil, err
	}
	return servers, nil
}

func (slf *McpService) FindByID(id string, userID uint) (models.McpServer, error) {
	server, err := slf.mcpRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.McpServer{}, ErrMcpServerNotFound
		}
		slf.logger.Error().Err(err).Str("mcpServerId", id).Msg("Error getting mcp server")
		return models.McpServer{}, err
	}
	if server.UserID != userID {
		return models.McpServer{}, ErrUnauthorized
	}
	return server, nil
}

func (slf *McpService) Create(server models.McpServer, userID uint) (models.McpServer, error) {
	server.ID = ""
	server.UserID = userID

	if err := slf.mcpRepo.Create(&server); err != nil {
		slf.logger.Error().Err(err).Uint("userId", userID).Msg("Error creating mcp server")
		return models.McpServer{}, err
	}

	slf.logger.Info().Str("mcpServerId", server.ID).Uint("userId", userID).Msg("MCP server created")
	return server, nil
}

func (slf *McpService) Update(id string, patch map[string]any, userID uint) (models.McpServer, error) {
	if _, err := slf.FindByID(id, userID); err != nil {
		return models.McpServer{}, err
	}

	if err := slf.mcpRepo.Update(id, patch); err != nil {
		slf.logger.Error().Err(err).Str("mcpServerId", id).Msg("Error updating mcp server")
		return models.McpServer{}, err
	}

	return slf.mcpRepo.FindByID(id)
}

func (slf *McpService) Delete(id string, userID uint) error {
	if _, err := slf.FindByID(id, userID); err != nil {
		return err
	}

	if err := slf.mcpRepo.Delete(id); err != nil {
		slf.logger.Error().Err(err).Str("mcpServerId", id).Msg("Error deleting mcp server")
		return err
	}

	slf.logger.Info().Str("mcpServerId", id).Uint("userId", userID).Msg("MCP server deleted")
	return nil
}
