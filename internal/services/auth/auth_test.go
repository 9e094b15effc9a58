package auth

import (
	"path/filepath"
	"testing"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/database"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db, "test-secret")
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := testService(t)

	user, err := s.Register("Acme", "Ada", "ada@acme.test", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, user.Role)
	assert.NotEmpty(t, user.OrganizationID)

	got, err := s.Authenticate("ada@acme.test", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.Authenticate("ada@acme.test", "wrongpass")
	assert.Error(t, err)

	_, err = s.Register("Other", "Bob", "ada@acme.test", "supersecret")
	assert.ErrorContains(t, err, "already registered")

	_, err = s.Register("Short", "Eve", "eve@acme.test", "short")
	assert.ErrorContains(t, err, "at least 8")
}

func TestTokenRoundTrip(t *testing.T) {
	s := testService(t)

	user, err := s.Register("Acme", "Ada", "ada@acme.test", "supersecret")
	require.NoError(t, err)

	token, err := s.IssueToken(user)
	require.NoError(t, err)

	claims, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.OrganizationID, claims.OrganizationID)
	assert.Equal(t, models.RoleSuperAdmin, claims.Role)

	_, err = s.VerifyToken(token + "x")
	assert.Error(t, err)

	other := NewService(nil, "different-secret")
	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	s := testService(t)

	user, err := s.Register("Acme", "Ada", "ada@acme.test", "supersecret")
	require.NoError(t, err)

	assert.Error(t, s.ChangePassword(user.ID, "wrong", "newpassword"))
	require.NoError(t, s.ChangePassword(user.ID, "supersecret", "newpassword"))

	_, err = s.Authenticate("ada@acme.test", "supersecret")
	assert.Error(t, err)
	_, err = s.Authenticate("ada@acme.test", "newpassword")
	assert.NoError(t, err)
}
