package auth

import (
	"errors"

	"go.uber.org/zap"

	"github.com/mamadbah2/labtrack/internal/config"
	"github.com/mamadbah2/labtrack/internal/domain/models"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Directory holds the known users keyed by username.
type Directory struct {
	users  map[string]models.User
	logger *zap.Logger
}

// NewDirectory builds a directory from configuration.
func NewDirectory(cfg config.AuthConfig, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	users := make(map[string]models.User, len(cfg.Users))
	for _, u := range cfg.Users {
		users[u.Username] = u
	}
	return &Directory{users: users, logger: logger}
}

// Authenticate checks the credentials and returns the matching user.
func (d *Directory) Authenticate(username, password string) (models.User, error) {
	user, ok := d.users[username]
	if !ok || user.Password != password {
		d.logger.Info("login rejected", zap.String("username", username))
		return models.User{}, ErrInvalidCredentials
	}
	d.logger.Info("login accepted", zap.String("username", username), zap.String("role", string(user.Role)))
	return user, nil
}
