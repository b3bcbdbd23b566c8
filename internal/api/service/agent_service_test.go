package service

import (
	"chatbot"
	"chatbot/internal/api/models"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAgentTestDB(t *testing.T) {
	chatbot.InitConfig("../../../.env.test")

	err := chatbot.DB.AutoMigrate(
		&models.User{},
		&models.Agent{},
	)
	require.NoError(t, err, "Failed to migrate agent tables")
}

func cleanupAgent(t *testing.T, id string) {
	if id != "" {
		chatbot.DB.Delete(&models.Agent{}, "id = ?", id)
	}
}

func TestAgent_Create(t *testing.T) {
	setupAgentTestDB(t)

	service := NewAgentService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	agent := models.Agent{
		Name:         "Research Assistant",
		Description:  "Summarizes sources",
		Instructions: "You are a careful research assistant.",
	}

	created, err := service.Create(agent, user.ID)
	require.NoError(t, err, "Failed to create agent")
	require.NotEmpty(t, created.ID)
	defer cleanupAgent(t, created.ID)

	assert.Equal(t, "Research Assistant", created.Name)
	assert.Equal(t, models.VisibilityPrivate, created.Visibility)
	assert.Equal(t, user.ID, created.UserID)
}

func TestAgent_FindByID_StrangerOnPrivate(t *testing.T) {
	setupAgentTestDB(t)

	service := NewAgentService()

	owner := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, owner.ID)

	stranger := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, stranger.ID)

	created, err := service.Create(models.Agent{Name: "Private Agent"}, owner.ID)
	require.NoError(t, err)
	defer cleanupAgent(t, created.ID)

	_, err = service.FindByID(created.ID, stranger.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAgent_FindByID_PublicReadable(t *testing.T) {
	setupAgentTestDB(t)

	service := NewAgentService()

	owner := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, owner.ID)

	reader := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, reader.ID)

	created, err := service.Create(models.Agent{
		Name:       "Shared Agent",
		Visibility: models.VisibilityPublic,
	}, owner.ID)
	require.NoError(t, err)
	defer cleanupAgent(t, created.ID)

	found, err := service.FindByID(created.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestAgent_Update(t *testing.T) {
	setupAgentTestDB(t)

	service := NewAgentService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Agent{
		Name:         "Old Agent",
		Instructions: "Old instructions",
	}, user.ID)
	require.NoError(t, err)
	defer cleanupAgent(t, created.ID)

	updated, err := service.Update(created.ID, map[string]any{
		"name":         "New Agent",
		"instructions": "New instructions",
	}, user.ID)
	require.NoError(t, err)

	assert.Equal(t, "New Agent", updated.Name)
	assert.Equal(t, "New instructions", updated.Instructions)
	assert.Equal(t, user.ID, updated.UserID)
}

func TestAgent_Update_NotFound(t *testing.T) {
	setupAgentTestDB(t)

	service := NewAgentService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	_, err := service.Update(uuid.NewString(), map[string]any{"name": "x"}, user.ID)
	require.ErrorIs(t, err, ErrAgentNotFound)
}

func TestAgent_Delete_NonOwner(t *testing.T) {
	setupAgentTestDB(t)

	service := NewAgentService()

	owner := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, owner.ID)

	stranger := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, stranger.ID)

	created, err := service.Create(models.Agent{
		Name:       "Not Yours",
		Visibility: models.VisibilityPublic,
	}, owner.ID)
	require.NoError(t, err)
	defer cleanupAgent(t, created.ID)

	err = service.Delete(created.ID, stranger.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAgent_GetInstructions(t *testing.T) {
	setupAgentTestDB(t)

	service := NewAgentService()

	user := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, user.ID)

	created, err := service.Create(models.Agent{
		Name:         "Prompted Agent",
		Instructions: "Answer in haiku.",
	}, user.ID)
	require.NoError(t, err)
	defer cleanupAgent(t, created.ID)

	// First read warms the cache, second may hit it; both return the same text
	instructions, err := service.GetInstructions(created.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Answer in haiku.", instructions)

	instructions, err = service.GetInstructions(created.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Answer in haiku.", instructions)
}

func TestAgent_GetInstructions_Stranger(t *testing.T) {
	setupAgentTestDB(t)

	service := NewAgentService()

	owner := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, owner.ID)

	stranger := createTestUser(t, uniqueEmail())
	defer cleanupTestUser(t, stranger.ID)

	created, err := service.Create(models.Agent{
		Name:         "Private Prompt",
		Instructions: "Secret",
	}, owner.ID)
	require.NoError(t, err)
	defer cleanupAgent(t, created.ID)

	_, err = service.GetInstructions(created.ID, stranger.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}
