package utils

import (
	"testing"
	"time"

	"github.com/clinicore/user-directory/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func testUser() *models.User {
	return &models.User{
		ID:    42,
		Name:  "Ana",
		Email: "ana@example.com",
		Role:  models.Role{ID: 5, Name: models.RoleManager},
	}
}

func TestGenerateToken_Success(t *testing.T) {
	token, err := GenerateToken(testUser(), testSecret, 1*time.Hour)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	user := testUser()
	token, err := GenerateToken(user, testSecret, 1*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)

	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, models.RoleManager, claims.Role)
}

func TestValidateToken_Principal(t *testing.T) {
	token, err := GenerateToken(testUser(), testSecret, 1*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)

	principal := claims.Principal()
	assert.Equal(t, uint(42), principal.UserID)
	assert.Equal(t, models.RoleManager, principal.Role)
	assert.False(t, principal.IsAdmin())
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testUser(), testSecret, 1*time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "another-secret")
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateToken(testUser(), testSecret, -1*time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", testSecret)
	assert.Error(t, err)
}
