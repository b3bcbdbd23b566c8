package service

import (
	"chatbot"
	"chatbot/internal/api/models"
	"chatbot/internal/api/repo"
	"chatbot/internal/realtime"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	// ErrUnauthorized covers both a missing caller identity and a denied
	// access check; handlers map it to 401 without distinguishing the two.
	ErrUnauthorized     = errors.New("unauthorized")
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrInvalidNodeKind  = errors.New("unknown node kind")
)

type WorkflowService struct {
	workflowRepo *repo.WorkflowRepository
	events       *realtime.Publisher
	logger       zerolog.Logger
}

func NewWorkflowService() *WorkflowService {
	return &WorkflowService{
		workflowRepo: repo.NewWorkflowRepository(),
		events:       realtime.NewPublisher(chatbot.GetConfig().NATSConfig.URL, chatbot.Logger),
		logger:       chatbot.Logger,
	}
}

// FindAllForUser lists workflows visible to the user, newest update first.
func (slf *WorkflowService) FindAllForUser(userID uint) ([]models.WorkflowSummary, error) {
	summaries, err := slf.workflowRepo.FindAll(userID)
	if err != nil {
		slf.logger.Error().Err(err).Uint("userId", userID).Msg("Error listing workflows")
		return nil, err
	}
	return summaries, nil
}

// FindByID returns a workflow header after a read access check. Missing and
// inaccessible workflows are indistinguishable to the caller.
func (slf *WorkflowService) FindByID(id string, userID uint) (models.Workflow, error) {
	ok, err := slf.workflowRepo.CheckAccess(id, userID, true)
	if err != nil {
		slf.logger.Error().Err(err).Str("workflowId", id).Msg("Error checking workflow access")
		return models.Workflow{}, err
	}
	if !ok {
		return models.Workflow{}, ErrUnauthorized
	}

	workflow, err := slf.workflowRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Workflow{}, ErrUnauthorized
		}
		slf.logger.Error().Err(err).Str("workflowId", id).Msg("Error getting workflow")
		return models.Workflow{}, err
	}
	return workflow, nil
}

// FindStructureByID returns the workflow with its full node and edge sets.
func (slf *WorkflowService) FindStructureByID(id string, userID uint) (models.Workflow, error) {
	ok, err := slf.workflowRepo.CheckAccess(id, userID, true)
	if err != nil {
		slf.logger.Error().Err(err).Str("workflowId", id).Msg("Error checking workflow access")
		return models.Workflow{}, err
	}
	if !ok {
		return models.Workflow{}, ErrUnauthorized
	}

	workflow, err := slf.workflowRepo.FindStructureByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Workflow{}, ErrUnauthorized
		}
		slf.logger.Error().Err(err).Str("workflowId", id).Msg("Error getting workflow structure")
		return models.Workflow{}, err
	}
	return workflow, nil
}

// Create inserts a new workflow owned by userID, seeded with the default
// input node unless seedInputNode is false.
func (slf *WorkflowService) Create(workflow models.Workflow, userID uint, seedInputNode bool) (models.Workflow, error) {
	workflow.ID = ""
	workflow.UserID = userID

	if workflow.Visibility != "" && !workflow.Visibility.IsValid() {
		return models.Workflow{}, errors.New("invalid visibility: " + string(workflow.Visibility))
	}

	if err := slf.workflowRepo.Create(&workflow, seedInputNode); err != nil {
		slf.logger.Error().Err(err).Uint("userId", userID).Msg("Error creating workflow")
		return models.Workflow{}, err
	}

	slf.logger.Info().Str("workflowId", workflow.ID).Uint("userId", userID).Msg("Workflow created")
	slf.events.PublishWorkflow(workflow.ID, realtime.ActionCreated, userID)
	return workflow, nil
}

// Update patches an existing workflow: 404 when it does not exist, 401 when
// the caller is not the owner. Ownership and id never change.
func (slf *WorkflowService) Update(id string, patch map[string]any, userID uint) (models.Workflow, error) {
	existing, err := slf.workflowRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Workflow{}, ErrWorkflowNotFound
		}
		slf.logger.Error().Err(err).Str("workflowId", id).Msg("Error getting workflow")
		return models.Workflow{}, err
	}
	if !existing.CanAccess(userID, false) {
		return models.Workflow{}, ErrUnauthorized
	}

	if err := slf.workflowRepo.Update(id, patch); err != nil {
		slf.logger.Error().Err(err).Str("workflowId", id).Msg("Error updating workflow")
		return models.Workflow{}, err
	}

	updated, err := slf.workflowRepo.FindByID(id)
	if err != nil {
		return models.Workflow{}, err
	}

	slf.events.PublishWorkflow(id, realtime.ActionUpdated, userID)
	return updated, nil
}

// SaveStructure applies a graph batch after a write access check. The
// structural guard and the edge referential check run inside the repository
// transaction; their sentinel errors pass through untouched.
func (slf *WorkflowService) SaveStructure(batch models.StructureBatch, userID uint) error {
	ok, err := slf.workflowRepo.CheckAccess(batch.WorkflowID, userID, false)
	if err != nil {
		slf.logger.Error().Err(err).Str("workflowId", batch.WorkflowID).Msg("Error checking workflow access")
		return err
	}
	if !ok {
		return ErrUnauthorized
	}

	for _, node := range batch.Nodes {
		if !node.Kind.IsValid() {
			return ErrInvalidNodeKind
		}
	}

	if err := slf.workflowRepo.SaveStructure(batch); err != nil {
		if errors.Is(err, repo.ErrEmptyStructure) || errors.Is(err, repo.ErrEdgeOutsideWorkflow) {
			return err
		}
		slf.logger.Error().Err(err).Str("workflowId", batch.WorkflowID).Msg("Error saving workflow structure")
		return err
	}

	slf.events.PublishWorkflow(batch.WorkflowID, realtime.ActionStructureSaved, userID)
	return nil
}

// Delete removes a workflow and its structure. Owner-only, regardless of
// visibility.
func (slf *WorkflowService) Delete(id string, userID uint) error {
	existing, err := slf.workflowRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkflowNotFound
		}
		slf.logger.Error().Err(err).Str("workflowId", id).Msg("Error getting workflow")
		return err
	}
	if !existing.CanAccess(userID, false) {
		return ErrUnauthorized
	}

	if err := slf.workflowRepo.Delete(id); err != nil {
		slf.logger.Error().Err(err).Str("workflowId", id).Msg("Error deleting workflow")
		return err
	}

	slf.logger.Info().Str("workflowId", id).Uint("userId", userID).Msg("Workflow deleted")
	slf.events.PublishWorkflow(id, realtime.ActionDeleted, userID)
	return nil
}

// FindExecutable lists the workflows the user may invoke as tools.
func (slf *WorkflowService) FindExecutable(userID uint) ([]models.Workflow, error) {
	workflows, err := slf.workflowRepo.FindExecutable(userID)
	if err != nil {
		slf.logger.Error().Err(err).Uint("userId", userID).Msg("Error listing executable workflows")
		return nil, err
	}
	return workflows, nil
}
