package endpoints

import (
	"chatbot"
	"chatbot/internal/api/handler/mapper"
	"chatbot/internal/api/handler/middleware"
	"chatbot/internal/api/handler/request"
	"chatbot/internal/api/handler/response"
	"chatbot/internal/api/repo"
	"chatbot/internal/api/service"
	"chatbot/pkg"
	"errors"
	"net/http"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type workflowHandler struct {
	workflowService *service.WorkflowService
	workflowMapper  mapper.WorkflowMapper
	logger          zerolog.Logger
	config          chatbot.AppConfig
}

func newWorkflowHandler() *workflowHandler {
	return &workflowHandler{
		workflowService: service.NewWorkflowService(),
		workflowMapper:  mapper.NewWorkflowMapper(),
		logger:          chatbot.Logger,
		config:          chatbot.GetConfig(),
	}
}

// WorkflowHandler sets up workflow routes
func WorkflowHandler(router *graceful.Graceful) {
	h := newWorkflowHandler()

	routes := router.Group("/api/v1/workflow")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.GET("", h.list)
		routes.POST("", h.save)
		routes.GET("/tools", h.listTools)
		routes.GET("/:id", h.getByID)
		routes.PUT("/:id", h.update)
		routes.DELETE("/:id", h.delete)
		routes.GET("/:id/structure", h.getStructure)
		routes.POST("/:id/structure", h.saveStructure)
	}
}

// respondError maps service/repo sentinel errors onto the workflow error
// contract: 401 for missing identity and denied access alike, 404 for
// missing ids on owner-addressed paths, 400 for guard rejections.
func (slf *workflowHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
	case errors.Is(err, service.ErrWorkflowNotFound):
		c.JSON(http.StatusNotFound, response.APIError{Message: "Workflow not found"})
	case errors.Is(err, repo.ErrEmptyStructure):
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Refusing to save empty workflow structure"})
	case errors.Is(err, repo.ErrEdgeOutsideWorkflow), errors.Is(err, service.ErrInvalidNodeKind):
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Internal error"})
	}
}

// list returns all workflows visible to the caller
func (slf *workflowHandler) list(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	summaries, err := slf.workflowService.FindAllForUser(userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// save upserts a workflow: creates when no id is supplied, patches otherwise
func (slf *workflowHandler) save(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	var req request.SaveWorkflow
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse save workflow request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	if req.ID == "" {
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, response.APIError{Message: "Name is required"})
			return
		}
		workflow := slf.workflowMapper.ToWorkflow(req, userID)
		created, err := slf.workflowService.Create(workflow, userID, !req.NoGenerateInputNode)
		if err != nil {
			slf.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, created)
		return
	}

	updated, err := slf.workflowService.Update(req.ID, slf.workflowMapper.SaveToPatch(req), userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// getByID returns a workflow header without its structure
func (slf *workflowHandler) getByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	workflow, err := slf.workflowService.FindByID(c.Param("id"), userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, workflow)
}

// update patches workflow metadata (name, icon, visibility, publication)
func (slf *workflowHandler) update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	var req request.UpdateWorkflow
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse update workflow request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	c.Header("Cache-Control", "no-store")

	updated, err := slf.workflowService.Update(c.Param("id"), slf.workflowMapper.ToPatch(req), userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// delete removes a workflow and its whole structure
func (slf *workflowHandler) delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	c.Header("Cache-Control", "no-store")

	if err := slf.workflowService.Delete(c.Param("id"), userID); err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Deleted{Message: "Workflow deleted"})
}

// getStructure returns the workflow with its full node and edge sets
func (slf *workflowHandler) getStructure(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	c.Header("Cache-Control", "no-store")

	workflow, err := slf.workflowService.FindStructureByID(c.Param("id"), userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, workflow)
}

// saveStructure applies one batch of graph changes
func (slf *workflowHandler) saveStructure(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	var req request.SaveStructure
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse save structure request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	batch := slf.workflowMapper.ToStructureBatch(c.Param("id"), req)
	if err := slf.workflowService.SaveStructure(batch, userID); err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success{Success: true})
}

// listTools returns the workflows the caller may invoke as tools
func (slf *workflowHandler) listTools(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Unauthorized"})
		return
	}

	workflows, err := slf.workflowService.FindExecutable(userID)
	if err != nil {
		slf.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, workflows)
}
