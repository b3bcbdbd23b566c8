package repo

import (
	"chatbot"
	"chatbot/internal/api/models"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrEmptyStructure is returned when a structure save would leave the
	// workflow with no nodes.
	ErrEmptyStructure = errors.New("refusing to save empty workflow structure")
	// ErrEdgeOutsideWorkflow is returned when an edge references a node id
	// that does not belong to the target workflow.
	ErrEdgeOutsideWorkflow = errors.New("edge references a node outside the workflow")
)

type WorkflowRepository struct {
	Db *gorm.DB
}

func NewWorkflowRepository() *WorkflowRepository {
	return &WorkflowRepository{Db: chatbot.DB}
}

// FindAll returns the workflows visible to a user (owned, public or
// readonly), most recently updated first, with the owner's display info.
func (slf *WorkflowRepository) FindAll(userID uint) ([]models.WorkflowSummary, error) {
	var summaries []models.WorkflowSummary
	err := slf.Db.
		Table("workflow").
		Select("workflow.id, workflow.name, workflow.description, workflow.icon, workflow.version, workflow.is_published, workflow.visibility, workflow.user_id, workflow.updated_at, users.name AS user_name, users.avatar AS user_avatar").
		Joins("JOIN users ON users.id = workflow.user_id").
		Where("workflow.user_id = ? OR workflow.visibility IN ?",
			userID, []models.Visibility{models.VisibilityPublic, models.VisibilityReadOnly}).
		Order("workflow.updated_at DESC").
		Scan(&summaries).Error
	return summaries, err
}

// FindByID retrieves a workflow header without its structure.
func (slf *WorkflowRepository) FindByID(id string) (models.Workflow, error) {
	var workflow models.Workflow
	err := slf.Db.First(&workflow, "id = ?", id).Error
	return workflow, err
}

// FindStructureByID retrieves a workflow with its full node and edge sets.
func (slf *WorkflowRepository) FindStructureByID(id string) (models.Workflow, error) {
	var workflow models.Workflow
	err := slf.Db.
		Preload("Nodes").
		Preload("Edges").
		First(&workflow, "id = ?", id).Error
	return workflow, err
}

// Create inserts a new workflow and, unless seedInputNode is false, seeds it
// with the default input node so a fresh workflow is never empty.
func (slf *WorkflowRepository) Create(workflow *models.Workflow, seedInputNode bool) error {
	if workflow.ID == "" {
		workflow.ID = uuid.NewString()
	}
	if workflow.Version == "" {
		workflow.Version = models.DefaultWorkflowVersion
	}
	if workflow.Visibility == "" {
		workflow.Visibility = models.VisibilityPrivate
	}

	return slf.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workflow).Error; err != nil {
			return err
		}
		if seedInputNode {
			node := models.DefaultInputNode(workflow.ID)
			if err := tx.Create(&node).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update applies a field patch to an existing workflow. The id and the owner
// are immutable and are stripped from the patch.
func (slf *WorkflowRepository) Update(id string, patch map[string]any) error {
	delete(patch, "id")
	delete(patch, "user_id")
	if len(patch) == 0 {
		return nil
	}
	return slf.Db.Model(&models.Workflow{}).Where("id = ?", id).Updates(patch).Error
}

// SaveStructure applies one batch of node/edge upserts and deletions. The
// whole batch runs inside a single transaction so the node count guard and
// the write cannot be raced apart by a concurrent save.
//
// Every record is stamped with the batch's workflow id before persistence;
// client-supplied workflow ids are never trusted.
func (slf *WorkflowRepository) SaveStructure(batch models.StructureBatch) error {
	return slf.Db.Transaction(func(tx *gorm.DB) error {
		var current int64
		if err := tx.Model(&models.Node{}).
			Where("workflow_id = ?", batch.WorkflowID).
			Count(&current).Error; err != nil {
			return err
		}
		if batch.NextNodeCount(current) <= 0 {
			return ErrEmptyStructure
		}

		if len(batch.DeleteEdges) > 0 {
			if err := tx.
				Where("workflow_id = ? AND id IN ?", batch.WorkflowID, batch.DeleteEdges).
				Delete(&models.Edge{}).Error; err != nil {
				return err
			}
		}
		if len(batch.DeleteNodes) > 0 {
			if err := tx.
				Where("workflow_id = ? AND id IN ?", batch.WorkflowID, batch.DeleteNodes).
				Delete(&models.Node{}).Error; err != nil {
				return err
			}
			// edges attached to removed nodes go with them
			if err := tx.
				Where("workflow_id = ? AND (source IN ? OR target IN ?)",
					batch.WorkflowID, batch.DeleteNodes, batch.DeleteNodes).
				Delete(&models.Edge{}).Error; err != nil {
				return err
			}
		}

		if len(batch.Nodes) > 0 {
			for i := range batch.Nodes {
				batch.Nodes[i].WorkflowID = batch.WorkflowID
				if batch.Nodes[i].ID == "" {
					batch.Nodes[i].ID = uuid.NewString()
				}
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&batch.Nodes).Error; err != nil {
				return err
			}
		}

		if len(batch.Edges) > 0 {
			for i := range batch.Edges {
				batch.Edges[i].WorkflowID = batch.WorkflowID
				if batch.Edges[i].ID == "" {
					batch.Edges[i].ID = uuid.NewString()
				}
			}

			var nodeIDs []string
			if err := tx.Model(&models.Node{}).
				Where("workflow_id = ?", batch.WorkflowID).
				Pluck("id", &nodeIDs).Error; err != nil {
				return err
			}
			known := make(map[string]bool, len(nodeIDs))
			for _, id := range nodeIDs {
				known[id] = true
			}
			for _, edge := range batch.Edges {
				if !known[edge.Source] || !known[edge.Target] {
					return ErrEdgeOutsideWorkflow
				}
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&batch.Edges).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// CheckAccess reports whether userID may read (readOnly=true) or mutate the
// workflow. A missing workflow or a denied caller yields false, never an
// error; only datastore failures are returned.
func (slf *WorkflowRepository) CheckAccess(id string, userID uint, readOnly bool) (bool, error) {
	var workflow models.Workflow
	err := slf.Db.
		Select("id", "user_id", "visibility").
		First(&workflow, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return workflow.CanAccess(userID, readOnly), nil
}

// Delete removes a workflow together with all of its nodes and edges.
func (slf *WorkflowRepository) Delete(id string) error {
	return slf.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workflow_id = ?", id).Delete(&models.Edge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workflow_id = ?", id).Delete(&models.Node{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Workflow{}, "id = ?", id).Error
	})
}

// FindExecutable returns the workflows a user may invoke as tools: their
// own, plus anything published and public.
func (slf *WorkflowRepository) FindExecutable(userID uint) ([]models.Workflow, error) {
	var workflows []models.Workflow
	err := slf.Db.
		Where("user_id = ? OR (is_published = ? AND visibility = ?)",
			userID, true, models.VisibilityPublic).
		Order("updated_at DESC").
		Find(&workflows).Error
	return workflows, err
}
