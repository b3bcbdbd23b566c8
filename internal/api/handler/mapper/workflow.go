package mapper

import (
	"chatbot/internal/api/handler/request"
	"chatbot/internal/api/models"
)

// WorkflowMapper handles mapping between workflow DTOs and models
type WorkflowMapper interface {
	ToWorkflow(req request.SaveWorkflow, userID uint) models.Workflow
	ToPatch(req request.UpdateWorkflow) map[string]any
	SaveToPatch(req request.SaveWorkflow) map[string]any
	ToStructureBatch(workflowID string, req request.SaveStructure) models.StructureBatch
}

type WorkflowMapperImpl struct{}

func NewWorkflowMapper() WorkflowMapper {
	return &WorkflowMapperImpl{}
}

func (m *WorkflowMapperImpl) ToWorkflow(req request.SaveWorkflow, userID uint) models.Workflow {
	workflow := models.Workflow{
		Name:        req.Name,
		Icon:        models.JSON(req.Icon),
		UserID:      userID,
		IsPublished: req.IsPublished != nil && *req.IsPublished,
	}
	if req.Description != nil {
		workflow.Description = *req.Description
	}
	if req.Visibility != nil {
		workflow.Visibility = *req.Visibility
	}
	return workflow
}

// SaveToPatch builds the update patch for an upsert that carries an id.
// Only supplied fields end up in the patch; ownership never does.
func (m *WorkflowMapperImpl) SaveToPatch(req request.SaveWorkflow) map[string]any {
	patch := map[string]any{}
	if req.Name != "" {
		patch["name"] = req.Name
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Icon != nil {
		patch["icon"] = models.JSON(req.Icon)
	}
	if req.IsPublished != nil {
		patch["is_published"] = *req.IsPublished
	}
	if req.Visibility != nil {
		patch["visibility"] = *req.Visibility
	}
	return patch
}

func (m *WorkflowMapperImpl) ToPatch(req request.UpdateWorkflow) map[string]any {
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
	if req.IsPublished != nil {
		patch["is_published"] = *req.IsPublished
	}
	if req.Visibility != nil {
		patch["visibility"] = *req.Visibility
	}
	return patch
}

func (m *WorkflowMapperImpl) ToStructureBatch(workflowID string, req request.SaveStructure) models.StructureBatch {
	batch := models.StructureBatch{
		WorkflowID:  workflowID,
		DeleteNodes: req.DeleteNodes,
		DeleteEdges: req.DeleteEdges,
	}
	for _, n := range req.Nodes {
		batch.Nodes = append(batch.Nodes, models.Node{
			ID:          n.ID,
			WorkflowID:  n.WorkflowID,
			Kind:        n.Kind,
			Name:        n.Name,
			Description: n.Description,
			NodeConfig:  models.JSON(n.NodeConfig),
			UIConfig:    models.JSON(n.UIConfig),
		})
	}
	for _, e := range req.Edges {
		batch.Edges = append(batch.Edges, models.Edge{
			ID:         e.ID,
			WorkflowID: e.WorkflowID,
			Source:     e.Source,
			Target:     e.Target,
			UIConfig:   models.JSON(e.UIConfig),
		})
	}
	return batch
}
