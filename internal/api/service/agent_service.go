package service

import (
	"chatbot"
	"chatbot/internal/api/models"
	"chatbot/internal/api/repo"
	"chatbot/pkg"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrAgentNotFound = errors.New("agent not found")

type AgentService struct {
	agentRepo *repo.AgentRepository
	config    chatbot.AppConfig
	logger    zerolog.Logger
}

func NewAgentService() *AgentService {
	return &AgentService{
		agentRepo: repo.NewAgentRepository(),
		config:    chatbot.GetConfig(),
		logger:    chatbot.Logger,
	}
}

func agentInstructionsKey(id string) string {
	return "agent:instructions:" + id
}

func (slf *AgentService) FindAllForUser(userID uint) ([]models.Agent, error) {
	agents, err := slf.agentRepo.FindAllForUser(userID)
	if err != nil {
		slf.logger.Error().Err(err).Uint("userId", userID).Msg("Error listing agents")
		return nil, err
	}
	return agents, nil
}

func (slf *AgentService) FindByID(id string, userID uint) (models.Agent, error) {
	ok, err := slf.agentRepo.CheckAccess(id, userID, true)
	if err != nil {
		slf.logger.Error().Err(err).Str("agentId", id).Msg("Error checking agent access")
		return models.Agent{}, err
	}
	if !ok {
		return models.Agent{}, ErrUnauthorized
	}

	agent, err := slf.agentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Agent{}, ErrUnauthorized
		}
		slf.logger.Error().Err(err).Str("agentId", id).Msg("Error getting agent")
		return models.Agent{}, err
	}
	return agent, nil
}

func (slf *AgentService) Create(agent models.Agent, userID uint) (models.Agent, error) {
	agent.ID = ""
	agent.UserID = userID

	if err := slf.agentRepo.Create(&agent); err != nil {
		slf.logger.Error().Err(err).Uint("userId", userID).Msg("Error creating agent")
		return models.Agent{}, err
	}

	slf.logger.Info().Str("agentId", agent.ID).Uint("userId", userID).Msg("Agent created")
	return agent, nil
}

func (slf *AgentService) Update(id string, patch map[string]any, userID uint) (models.Agent, error) {
	existing, err := slf.agentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Agent{}, ErrAgentNotFound
		}
		slf.logger.Error().Err(err).Str("agentId", id).Msg("Error getting agent")
		return models.Agent{}, err
	}
	if !existing.CanAccess(userID, false) {
		return models.Agent{}, ErrUnauthorized
	}

	if err := slf.agentRepo.Update(id, patch); err != nil {
		slf.logger.Error().Err(err).Str("agentId", id).Msg("Error updating agent")
		return models.Agent{}, err
	}

	// cached instructions may be stale now
	if err := pkg.RedisDelete(agentInstructionsKey(id)); err != nil {
		slf.logger.Debug().Err(err).Str("agentId", id).Msg("Failed to invalidate instruction cache")
	}

	return slf.agentRepo.FindByID(id)
}

func (slf *AgentService) Delete(id string, userID uint) error {
	existing, err := slf.agentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAgentNotFound
		}
		slf.logger.Error().Err(err).Str("agentId", id).Msg("Error getting agent")
		return err
	}
	if !existing.CanAccess(userID, false) {
		return ErrUnauthorized
	}

	if err := slf.agentRepo.Delete(id); err != nil {
		slf.logger.Error().Err(err).Str("agentId", id).Msg("Error deleting agent")
		return err
	}

	if err := pkg.RedisDelete(agentInstructionsKey(id)); err != nil {
		slf.logger.Debug().Err(err).Str("agentId", id).Msg("Failed to invalidate instruction cache")
	}

	slf.logger.Info().Str("agentId", id).Uint("userId", userID).Msg("Agent deleted")
	return nil
}

// GetInstructions returns an agent's system prompt, served from the Redis
// cache when warm. Every cache error counts as a miss; the database is the
// source of truth.
func (slf *AgentService) GetInstructions(id string, userID uint) (string, error) {
	ok, err := slf.agentRepo.CheckAccess(id, userID, true)
	if err != nil {
		slf.logger.Error().Err(err).Str("agentId", id).Msg("Error checking agent access")
		return "", err
	}
	if !ok {
		return "", ErrUnauthorized
	}

	var instructions string
	if err := pkg.RedisGet(agentInstructionsKey(id), &instructions); err == nil {
		return instructions, nil
	} else if !pkg.IsRedisNil(err) {
		slf.logger.Debug().Err(err).Str("agentId", id).Msg("Instruction cache read failed")
	}

	agent, err := slf.agentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUnauthorized
		}
		slf.logger.Error().Err(err).Str("agentId", id).Msg("Error getting agent")
		return "", err
	}

	if err := pkg.RedisSet(agentInstructionsKey(id), agent.Instructions, slf.config.AgentCacheTTL); err != nil {
		slf.logger.Debug().Err(err).Str("agentId", id).Msg("Instruction cache write failed")
	}

	return agent.Instructions, nil
}
