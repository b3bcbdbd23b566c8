package service

import (
	"chatbot"
	"chatbot/internal/api/models"
	"chatbot/internal/api/repo"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrThreadNotFound = errors.New("thread not found")

// ChatService persists chat threads and messages. Streaming and model
// invocation happen in an external collaborator; this layer only stores the
// resulting turns.
type ChatService struct {
	chatRepo *repo.ChatRepository
	logger   zerolog.Logger
}

func NewChatService() *ChatService {
	return &ChatService{
		chatRepo: repo.NewChatRepository(),
		logger:   chatbot.Logger,
	}
}

func (slf *ChatService) FindThreadsForUser(userID uint) ([]models.ChatThread, error) {
	threads, err := slf.chatRepo.FindThreadsByUser(userID)
	if err != nil {
		slf.logger.Error().Err(err).Uint("userId", userID).Msg("Error listing threads")
		return nil, err
	}
	return threads, nil
}

// ownedThread loads a thread and enforces owner-only access.
func (slf *ChatService) ownedThread(id string, userID uint) (models.ChatThread, error) {
	thread, err := slf.chatRepo.FindThreadByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ChatThread{}, ErrThreadNotFound
		}
		slf.logger.Error().Err(err).Str("threadId", id).Msg("Error getting thread")
		return models.ChatThread{}, err
	}
	if thread.UserID != userID {
		return models.ChatThread{}, ErrUnauthorized
	}
	return thread, nil
}

func (slf *ChatService) FindThreadWithMessages(id string, userID uint) (models.ChatThread, error) {
	if _, err := slf.ownedThread(id, userID); err != nil {
		return models.ChatThread{}, err
	}

	thread, err := slf.chatRepo.FindThreadWithMessages(id)
	if err != nil {
		slf.logger.Error().Err(err).Str("threadId", id).Msg("Error loading thread messages")
		return models.ChatThread{}, err
	}
	return thread, nil
}

func (slf *ChatService) CreateThread(title string, userID uint) (models.ChatThread, error) {
	thread := models.ChatThread{
		Title:  title,
		UserID: userID,
	}
	if err := slf.chatRepo.CreateThread(&thread); err != nil {
		slf.logger.Error().Err(err).Uint("userId", userID).Msg("Error creating thread")
		return models.ChatThread{}, err
	}
	return thread, nil
}

func (slf *ChatService) UpdateThread(id string, patch map[string]any, userID uint) (models.ChatThread, error) {
	if _, err := slf.ownedThread(id, userID); err != nil {
		return models.ChatThread{}, err
	}

	if err := slf.chatRepo.UpdateThread(id, patch); err != nil {
		slf.logger.Error().Err(err).Str("threadId", id).Msg("Error updating thread")
		return models.ChatThread{}, err
	}
	return slf.chatRepo.FindThreadByID(id)
}

func (slf *ChatService) DeleteThread(id string, userID uint) error {
	if _, err := slf.ownedThread(id, userID); err != nil {
		return err
	}

	if err := slf.chatRepo.DeleteThread(id); err != nil {
		slf.logger.Error().Err(err).Str("threadId", id).Msg("Error deleting thread")
		return err
	}
	return nil
}

func (slf *ChatService) AppendMessage(threadID string, message models.ChatMessage, userID uint) (models.ChatMessage, error) {
	if _, err := slf.ownedThread(threadID, userID); err != nil {
		return models.ChatMessage{}, err
	}

	if !message.Role.IsValid() {
		return models.ChatMessage{}, errors.New("unknown chat role: " + string(message.Role))
	}

	message.ThreadID = threadID
	if err := slf.chatRepo.AppendMessage(&message); err != nil {
		slf.logger.Error().Err(err).Str("threadId", threadID).Msg("Error appending message")
		return models.ChatMessage{}, err
	}
	return message, nil
}
