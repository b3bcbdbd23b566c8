package repo

import (
	"chatbot"
	"chatbot/internal/api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type McpRepository struct {
	Db *gorm.DB
}

func NewMcpRepository() *McpRepository {
	return &McpRepository{Db: chatbot.DB}
}

func (slf *McpRepository) FindByID(id string) (models.McpServer, error) {
	var server models.McpServer
	err := slf.Db.First(&server, "id = ?", id).Error
	return server, err
}

func (slf *McpRepository) FindAllByUser(userID uint) ([]models.McpServer, error) {
	var servers []models.McpServer
	err := slf.Db.
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&servers).Error
	return servers, err
}

func (slf *McpRepository) Create(server *models.McpServer) error {
	if server.ID == "" {
		server.ID = uuid.NewString()
	}
	return slf.Db.Create(server).Error
}

func (slf *McpRepository) Update(id string, patch map[string]any) error {
	delete(patch, "id")
	delete(patch, "user_id")
	if len(patch) == 0 {
		return nil
	}
	return slf.Db.Model(&models.McpServer{}).Where("id = ?", id).Updates(patch).Error
}

func (slf *McpRepository) Delete(id string) error {
	return slf.Db.Delete(&models.McpServer{}, "id = ?", id).Error
}
