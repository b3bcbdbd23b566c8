package repo

import (
	"chatbot"
	"chatbot/internal/api/models"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AgentRepository struct {
	Db *gorm.DB
}

func NewAgentRepository() *AgentRepository {
	return &AgentRepository{Db: chatbot.DB}
}

func (slf *AgentRepository) FindByID(id string) (models.Agent, error) {
	var agent models.Agent
	err := slf.Db.First(&agent, "id = ?", id).Error
	return agent, err
}

// FindAllForUser returns agents visible to a user: owned, public or readonly.
func (slf *AgentRepository) FindAllForUser(userID uint) ([]models.Agent, error) {
	var agents []models.Agent
	err := slf.Db.
		Where("user_id = ? OR visibility IN ?",
			userID, []models.Visibility{models.VisibilityPublic, models.VisibilityReadOnly}).
		Order("updated_at DESC").
		Find(&agents).Error
	return agents, err
}

func (slf *AgentRepository) Create(agent *models.Agent) error {
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	if agent.Visibility == "" {
		agent.Visibility = models.VisibilityPrivate
	}
	return slf.Db.Create(agent).Error
}

// Update applies a field patch; id and owner are immutable.
func (slf *AgentRepository) Update(id string, patch map[string]any) error {
	delete(patch, "id")
	delete(patch, "user_id")
	if len(patch) == 0 {
		return nil
	}
	return slf.Db.Model(&models.Agent{}).Where("id = ?", id).Updates(patch).Error
}

func (slf *AgentRepository) Delete(id string) error {
	return slf.Db.Delete(&models.Agent{}, "id = ?", id).Error
}

// CheckAccess mirrors the workflow access gate for agents.
func (slf *AgentRepository) CheckAccess(id string, userID uint, readOnly bool) (bool, error) {
	var agent models.Agent
	err := slf.Db.
		Select("id", "user_id", "visibility").
		First(&agent, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return agent.CanAccess(userID, readOnly), nil
}
