package endpoints

import (
	"chatbot"
	"chatbot/internal/api/handler/middleware"
	"chatbot/internal/api/handler/request"
	"chatbot/internal/api/handler/response"
	"chatbot/internal/api/models"
	"chatbot/internal/api/service"
	"chatbot/pkg"
	"errors"
	"net/http"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type chatHandler struct {
	chatService *service.ChatService
	logger      zerolog.Logger
	config      chatbot.AppConfig
}

func newChatHandler() *chatHandler {
	return &chatHandler{
		chatService: service.NewChatService(),
		logger:      chatbot.Logger,
		config:      chatbot.GetConfig(),
	}
}

// ChatHandler sets up chat thread and message routes
func ChatHandler(router *graceful.Graceful) {
	h := newChatHandler()

	routes := router.Group("/api/v1/chat")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.GET("", h.list)
		routes.POST("", h.create)
		routes.GET("/:id", h.getByID)
		routes.PUT("/:id", h.update)
		routes.DELETE("/:id", h.delete)
		routes.POST("/:id/message", h.appendMessage)
	}
}

func (slf *chatHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
	case errors.Is(err, service.ErrThreadNotFound):
		c.JSON(http.StatusNotFound, response.APIError{Message: "Thread not found"})
	default:
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Internal error"})
	}
}

func (slf *chatHandler) list(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	threads, err := slf.chatService.FindThreadsForUser(userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, threads)
}

func (slf *chatHandler) create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	var req request.CreateThread
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse create thread request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	thread, err := slf.chatService.CreateThread(req.Title, userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, thread)
}

func (slf *chatHandler) getByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	thread, err := slf.chatService.FindThreadWithMessages(c.Param("id"), userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

func (slf *chatHandler) update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	var req request.UpdateThread
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse update thread request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	patch := map[string]any{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}

	updated, err := slf.chatService.UpdateThread(c.Param("id"), patch, userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (slf *chatHandler) delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	if err := slf.chatService.DeleteThread(c.Param("id"), userID); err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Deleted{Message: "Thread deleted"})
}

func (slf *chatHandler) appendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	var req request.AppendMessage
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse append message request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	message := models.ChatMessage{
		ID:          req.ID,
		Role:        req.Role,
		Parts:       models.JSON(req.Parts),
		Attachments: models.JSON(req.Attachments),
		Model:       req.Model,
	}

	saved, err := slf.chatService.AppendMessage(c.Param("id"), message, userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}
