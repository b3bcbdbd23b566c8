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

type mcpHandler struct {
	mcpService *service.McpService
	logger     zerolog.Logger
	config     chatbot.AppConfig
}

func newMcpHandler() *mcpHandler {
	return &mcpHandler{
		mcpService: service.NewMcpService(),
		logger:     chatbot.Logger,
		config:     chatbot.GetConfig(),
	}
}

// McpHandler sets up MCP server configuration routes
func McpHandler(router *graceful.Graceful) {
	h := newMcpHandler()

	routes := router.Group("/api/v1/mcp")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.GET("", h.list)
		routes.POST("", h.create)
		routes.GET("/:id", h.getByID)
		routes.PUT("/:id", h.update)
		routes.DELETE("/:id", h.delete)
	}
}

func (slf *mcpHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
	case errors.Is(err, service.ErrMcpServerNotFound):
		c.JSON(http.StatusNotFound, response.APIError{Message: "MCP server not found"})
	default:
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Internal error"})
	}
}

func (slf *mcpHandler) list(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	servers, err := slf.mcpService.FindAllForUser(userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, servers)
}

func (slf *mcpHandler) create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	var req request.CreateMcpServer
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse create mcp server request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	server := models.McpServer{
		Name:   req.Name,
		Config: models.JSON(req.Config),
	}
	if req.Enabled != nil {
		server.Enabled = *req.Enabled
	} else {
		server.Enabled = true
	}

	created, err := slf.mcpService.Create(server, userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (slf *mcpHandler) getByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	server, err := slf.mcpService.FindByID(c.Param("id"), userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, server)
}

func (slf *mcpHandler) update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	var req request.UpdateMcpServer
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse update mcp server request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Config != nil {
		patch["config"] = models.JSON(req.Config)
	}
	if req.Enabled != nil {
		patch["enabled"] = *req.Enabled
	}

	updated, err := slf.mcpService.Update(c.Param("id"), patch, userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (slf *mcpHandler) delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	if err := slf.mcpService.Delete(c.Param("id"), userID); err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Deleted{Message: "MCP server deleted"})
}
