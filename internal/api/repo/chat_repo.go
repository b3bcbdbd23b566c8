package repo

import (
	"chatbot"
	"chatbot/internal/api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository struct {
	Db *gorm.DB
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{Db: chatbot.DB}
}

func (slf *ChatRepository) FindThreadByID(id string) (models.ChatThread, error) {
	var thread models.ChatThread
	err := slf.Db.First(&thread, "id = ?", id).Error
	return thread, err
}

// FindThreadWithMessages loads a thread and its messages in creation order.
func (slf *ChatRepository) FindThreadWithMessages(id string) (models.ChatThread, error) {
	var thread models.ChatThread
	err := slf.Db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("chat_message.created_at ASC")
		}).
		First(&thread, "id = ?", id).Error
	return thread, err
}

func (slf *ChatRepository) FindThreadsByUser(userID uint) ([]models.ChatThread, error) {
	var threads []models.ChatThread
	err := slf.Db.
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&threads).Error
	return threads, err
}

func (slf *ChatRepository) CreateThread(thread *models.ChatThread) error {
	if thread.ID == "" {
		thread.ID = uuid.NewString()
	}
	return slf.Db.Create(thread).Error
}

func (slf *ChatRepository) UpdateThread(id string, patch map[string]any) error {
	delete(patch, "id")
	delete(patch, "user_id")
	if len(patch) == 0 {
		return nil
	}
	return slf.Db.Model(&models.ChatThread{}).Where("id = ?", id).Updates(patch).Error
}

// DeleteThread removes a thread and all of its messages.
func (slf *ChatRepository) DeleteThread(id string) error {
	return slf.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", id).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChatThread{}, "id = ?", id).Error
	})
}

// AppendMessage stores a message and bumps the thread's updated_at so the
// thread list keeps recency ordering.
func (slf *ChatRepository) AppendMessage(message *models.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	return slf.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.ChatThread{}).
			Where("id = ?", message.ThreadID).
			UpdateColumn("updated_at", tx.NowFunc()).Error
	})
}
