package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/labtrack/internal/config"
	"github.com/mamadbah2/labtrack/internal/domain/models"
)

func TestDirectory_Authenticate(t *testing.T) {
	users, err := config.ParseUsers(config.DefaultUsers)
	require.NoError(t, err)
	dir := NewDirectory(config.AuthConfig{Users: users}, nil)

	user, err := dir.Authenticate("staff1", "staff123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, user.Role)

	user, err = dir.Authenticate("student1", "pass123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)

	_, err = dir.Authenticate("student1", "PASS123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = dir.Authenticate("nobody", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
