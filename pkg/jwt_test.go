package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_GenerateAndValidate(t *testing.T) {
	token, err := GenerateToken(42, "test@example.com", "user", "test-secret", 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestJWT_ValidateWrongSecret(t *testing.T) {
	token, err := GenerateToken(42, "test@example.com", "user", "test-secret", 60)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	require.Error(t, err, "Should reject token signed with a different secret")
}

func TestJWT_ValidateGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", "test-secret")
	require.Error(t, err)
}

func TestJWT_RefreshRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, "test-secret", 30)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestJWT_RefreshRejectsAccessSecretMismatch(t *testing.T) {
	token, err := GenerateRefreshToken(7, "test-secret", 30)
	require.NoError(t, err)

	_, err = ValidateRefreshToken(token, "other-secret")
	require.Error(t, err)
}
