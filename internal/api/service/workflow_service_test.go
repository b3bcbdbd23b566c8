package service

import (
	"chatbot"
	"chatbot/internal/api/models"
	"chatbot/internal/api/repo"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorkflowTestDB(t *testing.T) {
	chatbot.InitConfig("../../../.env.test")

	err := chatbot.DB.AutoMigrate(
		&models.User{},
		&models.Workflow{},
		&models.Node{},
		&models.Edge{},
	)
	require.NoError(t, err, "Failed to migrate workflow tables")
}

func createTestUser(t *testing.T, email string) models.User {
	user := models.User{
		Email:    email,
		Password: "hashed",
		Name:     "Test User",
		Role:     models.RoleUser,
		Active:   true,
	}
	err := chatbot.DB.Create(&user).Error
	require.NoError(t, err)
	return user
}

func cleanupTestUser(t *testing.T, id uint) {
	if id > 0 {
		chatbot.DB.Unscoped().Delete(&models.User{}, id)
	}
}

func cleanupWorkflow(t *testing.T, id string) {
	if id != "" {
		chatbot.DB.Where("workflow_id = ?", id).Delete(&models.Edge{})
		chatbot.DB.Where("workflow_id = ?", id).Delete(&models.Node{})
		chatbot.DB.Delete(&models.Workflow{}, "id = ?", id)
	}
}

func countNodes(t *testing.T, workflowID string) int64 {
	var count int64
	err := chatbot.DB.Model(&models.Node{}).Where("workflow_id = ?", workflowID).Count(&count).Error
	require.NoError(t, err)
	return count
}

func countEdges(t *testing.T, workflowID string) int64 {
	var count int64
	err := chatbot.DB.Model(&models.Edge{}).Where("workflow_id = ?", workflowID).Count(&count).Error
	require.NoError(t, err)
	return count
}

// ============ Workflow CRUD Tests ============

func TestWorkflow_Create_SeedsInputNode(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Workflow{Name: "Fresh Workflow"}, user.ID, true)
	require.NoError(t, err, "Failed to create workflow")
	require.NotEmpty(t, created.ID)
	defer cleanupWorkflow(t, created.ID)

	assert.Equal(t, "Fresh Workflow", created.Name)
	assert.Equal(t, models.DefaultWorkflowVersion, created.Version)
	assert.Equal(t, models.VisibilityPrivate, created.Visibility)
	assert.Equal(t, user.ID, created.UserID)

	var nodes []models.Node
	err = chatbot.DB.Where("workflow_id = ?", created.ID).Find(&nodes).Error
	require.NoError(t, err)
	require.Len(t, nodes, 1, "A fresh workflow should hold exactly one node")
	assert.Equal(t, models.NodeKindInput, nodes[0].Kind)
	assert.Equal(t, "INPUT", nodes[0].Name)
}

func TestWorkflow_Create_WithoutInputNode(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Workflow{Name: "Bare Workflow"}, user.ID, false)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	assert.Zero(t, countNodes(t, created.ID))
}

func TestWorkflow_FindByID_Owner(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Workflow{Name: "Find Me"}, user.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	found, err := service.FindByID(created.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Find Me", found.Name)
}

func TestWorkflow_FindByID_StrangerOnPrivate(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	owner := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, owner.ID)

	stranger := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, stranger.ID)

	created, err := service.Create(models.Workflow{Name: "Private"}, owner.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	_, err = service.FindByID(created.ID, stranger.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestWorkflow_FindByID_Missing(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	// Missing and inaccessible look identical to the caller
	_, err := service.FindByID(uuid.NewString(), user.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestWorkflow_Update_PreservesUnspecifiedFields(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Workflow{
		Name:        "Old Name",
		Description: "Keep this description",
	}, user.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	updated, err := service.Update(created.ID, map[string]any{"name": "New Name"}, user.ID)
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "Keep this description", updated.Description)
	assert.Equal(t, user.ID, updated.UserID)
}

func TestWorkflow_Update_OwnershipImmutable(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Workflow{Name: "Owned"}, user.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	updated, err := service.Update(created.ID, map[string]any{
		"name":    "Renamed",
		"user_id": user.ID + 999,
		"id":      uuid.NewString(),
	}, user.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, user.ID, updated.UserID, "Owner must never change through a patch")
}

func TestWorkflow_Update_NotFound(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	_, err := service.Update(uuid.NewString(), map[string]any{"name": "x"}, user.ID)
	require.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestWorkflow_Update_NonOwnerPublic(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	owner := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, owner.ID)

	stranger := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, stranger.ID)

	created, err := service.Create(models.Workflow{
		Name:       "Public But Not Yours",
		Visibility: models.VisibilityPublic,
	}, owner.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	_, err = service.Update(created.ID, map[string]any{"name": "hijacked"}, stranger.ID)
	require.ErrorIs(t, err, ErrUnauthorized, "Public visibility grants reads, never writes")
}

// ============ Structure Tests ============

func TestWorkflow_SaveStructure_StampsWorkflowID(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Workflow{Name: "Stamping"}, user.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	nodeID := uuid.NewString()
	batch := models.StructureBatch{
		WorkflowID: created.ID,
		Nodes: []models.Node{{
			ID:         nodeID,
			WorkflowID: uuid.NewString(), // bogus, must be overwritten
			Kind:       models.NodeKindLLM,
			Name:       "Answer",
		}},
	}

	err = service.SaveStructure(batch, user.ID)
	require.NoError(t, err)

	var node models.Node
	err = chatbot.DB.First(&node, "id = ?", nodeID).Error
	require.NoError(t, err)
	assert.Equal(t, created.ID, node.WorkflowID, "Stored node must carry the path workflow id")
}

func TestWorkflow_SaveStructure_RejectsEmptyingBatch(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Workflow{Name: "Guarded"}, user.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	// Grow to 3 nodes
	extra := []models.Node{
		{ID: uuid.NewString(), Kind: models.NodeKindLLM, Name: "A"},
		{ID: uuid.NewString(), Kind: models.NodeKindOutput, Name: "B"},
	}
	err = service.SaveStructure(models.StructureBatch{WorkflowID: created.ID, Nodes: extra}, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), countNodes(t, created.ID))

	var allIDs []string
	err = chatbot.DB.Model(&models.Node{}).Where("workflow_id = ?", created.ID).Pluck("id", &allIDs).Error
	require.NoError(t, err)

	// Deleting all 3 with no additions would leave zero nodes
	err = service.SaveStructure(models.StructureBatch{
		WorkflowID:  created.ID,
		DeleteNodes: allIDs,
	}, user.ID)
	require.ErrorIs(t, err, repo.ErrEmptyStructure)
	assert.Equal(t, int64(3), countNodes(t, created.ID), "Rejected batch must leave the structure untouched")

	// Deleting 3 while adding 1 leaves one node and passes
	err = service.SaveStructure(models.StructureBatch{
		WorkflowID:  created.ID,
		Nodes:       []models.Node{{ID: uuid.NewString(), Kind: models.NodeKindInput, Name: "INPUT"}},
		DeleteNodes: allIDs,
	}, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), countNodes(t, created.ID))
}

func TestWorkflow_SaveStructure_DeleteNodeDropsItsEdges(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Workflow{Name: "Edges Follow Nodes"}, user.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	a := uuid.NewString()
	b := uuid.NewString()
	err = service.SaveStructure(models.StructureBatch{
		WorkflowID: created.ID,
		Nodes: []models.Node{
			{ID: a, Kind: models.NodeKindLLM, Name: "A"},
			{ID: b, Kind: models.NodeKindOutput, Name: "B"},
		},
		Edges: []models.Edge{{ID: uuid.NewString(), Source: a, Target: b}},
	}, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), countEdges(t, created.ID))

	err = service.SaveStructure(models.StructureBatch{
		WorkflowID:  created.ID,
		DeleteNodes: []string{b},
	}, user.ID)
	require.NoError(t, err)

	assert.Zero(t, countEdges(t, created.ID), "Edges touching a deleted node must go with it")
}

func TestWorkflow_SaveStructure_EdgeOutsideWorkflow(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Workflow{Name: "Edge Check"}, user.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	a := uuid.NewString()
	err = service.SaveStructure(models.StructureBatch{
		WorkflowID: created.ID,
		Nodes:      []models.Node{{ID: a, Kind: models.NodeKindLLM, Name: "A"}},
		Edges:      []models.Edge{{ID: uuid.NewString(), Source: a, Target: uuid.NewString()}},
	}, user.ID)
	require.ErrorIs(t, err, repo.ErrEdgeOutsideWorkflow)
	assert.Zero(t, countEdges(t, created.ID))
}

func TestWorkflow_SaveStructure_InvalidNodeKind(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Workflow{Name: "Kind Check"}, user.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	err = service.SaveStructure(models.StructureBatch{
		WorkflowID: created.ID,
		Nodes:      []models.Node{{ID: uuid.NewString(), Kind: "webhook", Name: "X"}},
	}, user.ID)
	require.ErrorIs(t, err, ErrInvalidNodeKind)
}

func TestWorkflow_SaveStructure_ReadOnlyVisibility(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	owner := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, owner.ID)

	reader := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, reader.ID)

	created, err := service.Create(models.Workflow{
		Name:       "Read Only",
		Visibility: models.VisibilityReadOnly,
	}, owner.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	// Non-owner may read the structure
	structure, err := service.FindStructureByID(created.ID, reader.ID)
	require.NoError(t, err)
	assert.Len(t, structure.Nodes, 1)

	// But not write it
	err = service.SaveStructure(models.StructureBatch{
		WorkflowID: created.ID,
		Nodes:      []models.Node{{ID: uuid.NewString(), Kind: models.NodeKindLLM, Name: "Nope"}},
	}, reader.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}

// ============ Delete Tests ============

func TestWorkflow_Delete_Cascades(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Workflow{Name: "Doomed"}, user.ID, true)
	require.NoError(t, err)

	a := uuid.NewString()
	b := uuid.NewString()
	err = service.SaveStructure(models.StructureBatch{
		WorkflowID: created.ID,
		Nodes: []models.Node{
			{ID: a, Kind: models.NodeKindLLM, Name: "A"},
			{ID: b, Kind: models.NodeKindOutput, Name: "B"},
		},
		Edges: []models.Edge{{ID: uuid.NewString(), Source: a, Target: b}},
	}, user.ID)
	require.NoError(t, err)

	err = service.Delete(created.ID, user.ID)
	require.NoError(t, err, "Failed to delete workflow")

	assert.Zero(t, countNodes(t, created.ID), "No orphan nodes after delete")
	assert.Zero(t, countEdges(t, created.ID), "No orphan edges after delete")

	_, err = service.FindByID(created.ID, user.ID)
	require.Error(t, err, "Should not find deleted workflow")
}

func TestWorkflow_Delete_NonOwner(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	owner := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, owner.ID)

	stranger := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, stranger.ID)

	created, err := service.Create(models.Workflow{
		Name:       "Not Yours",
		Visibility: models.VisibilityPublic,
	}, owner.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, created.ID)

	err = service.Delete(created.ID, stranger.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}

// ============ Listing Tests ============

func TestWorkflow_FindAllForUser(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	owner := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, owner.ID)

	otherUser := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, otherUser.ID)

	publicWf, err := service.Create(models.Workflow{
		Name:       "Public Workflow",
		Visibility: models.VisibilityPublic,
	}, otherUser.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, publicWf.ID)

	ownPrivate, err := service.Create(models.Workflow{Name: "Own Private"}, owner.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, ownPrivate.ID)

	otherPrivate, err := service.Create(models.Workflow{Name: "Other Private"}, otherUser.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, otherPrivate.ID)

	summaries, err := service.FindAllForUser(owner.ID)
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, s := range summaries {
		ids[s.ID] = true
	}

	assert.True(t, ids[publicWf.ID], "Should see public workflow")
	assert.True(t, ids[ownPrivate.ID], "Should see own private workflow")
	assert.False(t, ids[otherPrivate.ID], "Should NOT see other's private workflow")
}

func TestWorkflow_FindExecutable(t *testing.T) {
	setupWorkflowTestDB(t)

	service := NewWorkflowService()

	owner := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, owner.ID)

	otherUser := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, otherUser.ID)

	own, err := service.Create(models.Workflow{Name: "Own Tool"}, owner.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, own.ID)

	published, err := service.Create(models.Workflow{
		Name:        "Published Tool",
		IsPublished: true,
		Visibility:  models.VisibilityPublic,
	}, otherUser.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, published.ID)

	unpublished, err := service.Create(models.Workflow{
		Name:       "Unpublished Public",
		Visibility: models.VisibilityPublic,
	}, otherUser.ID, true)
	require.NoError(t, err)
	defer cleanupWorkflow(t, unpublished.ID)

	workflows, err := service.FindExecutable(owner.ID)
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, w := range workflows {
		ids[w.ID] = true
	}

	assert.True(t, ids[own.ID], "Own workflows are always executable")
	assert.True(t, ids[published.ID], "Published public workflows are executable")
	assert.False(t, ids[unpublished.ID], "Unpublished workflows are not executable by others")
}
