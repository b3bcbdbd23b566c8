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

type agentHandler struct {
	agentService *service.AgentService
	logger       zerolog.Logger
	config       chatbot.AppConfig
}

func newAgentHandler() *agentHandler {
	return &agentHandler{
		agentService: service.NewAgentService(),
		logger:       chatbot.Logger,
		config:       chatbot.GetConfig(),
	}
}

// AgentHandler sets up agent routes
func AgentHandler(router *graceful.Graceful) {
	h := newAgentHandler()

	routes := router.Group("/api/v1/agent")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.GET("", h.list)
		routes.POST("", h.create)
		routes.GET("/:id", h.getByID)
		routes.PUT("/:id", h.update)
		routes.DELETE("/:id", h.delete)
		routes.GET("/:id/instructions", h.getInstructions)
	}
}

func (slf *agentHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
	case errors.Is(err, service.ErrAgentNotFound):
		c.JSON(http.StatusNotFound, response.APIError{Message: "Agent not found"})
	default:
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Internal error"})
	}
}

func (slf *agentHandler) list(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	agents, err := slf.agentService.FindAllForUser(userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, agents)
}

func (slf *agentHandler) create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	var req request.CreateAgent
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse create agent request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	agent := models.Agent{
		Name:         req.Name,
		Description:  req.Description,
		Icon:         models.JSON(req.Icon),
		Instructions: req.Instructions,
	}
	if req.Visibility != nil {
		agent.Visibility = *req.Visibility
	}

	created, err := slf.agentService.Create(agent, userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (slf *agentHandler) getByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	agent, err := slf.agentService.FindByID(c.Param("id"), userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, agent)
}

func (slf *agentHandler) update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	var req request.UpdateAgent
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse update agent request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Icon != nil {
		patch["icon"] = models.JSON(req.Icon)
	}
	if req.Instructions != nil {
		patch["instructions"] = *req.Instructions
	}
	if req.Visibility != nil {
		patch["visibility"] = *req.Visibility
	}

	updated, err := slf.agentService.Update(c.Param("id"), patch, userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (slf *agentHandler) delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	if err := slf.agentService.Delete(c.Param("id"), userID); err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Deleted{Message: "Agent deleted"})
}

func (slf *agentHandler) getInstructions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	id := c.Param("id")
	instructions, err := slf.agentService.GetInstructions(id, userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.AgentInstructions{AgentID: id, Instructions: instructions})
}
