package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mamadbah2/labtrack/internal/domain/models"
)

// DefaultUsers mirrors the accounts LabTrack has always shipped with.
const DefaultUsers = "staff1:staff123:staff,student1:pass123:student"

// Config represents the full application configuration surface.
type Config struct {
	Storage StorageConfig
	Auth    AuthConfig
	Log     LogConfig
	UI      UIConfig
}

// StorageConfig holds the location of the persisted inventory document.
type StorageConfig struct {
	DataFile     string
	BackupSuffix string
}

// AuthConfig holds the login directory.
type AuthConfig struct {
	Users []models.User
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// UIConfig holds interactive shell options.
type UIConfig struct {
	Banner bool
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	users, err := ParseUsers(getenvWithDefault("LABTRACK_USERS", DefaultUsers))
	if err != nil {
		return nil, err
	}

	banner, err := strconv.ParseBool(getenvWithDefault("LABTRACK_BANNER", "true"))
	if err != nil {
		return nil, fmt.Errorf("LABTRACK_BANNER must be a boolean: %w", err)
	}

	cfg := &Config{
		Storage: StorageConfig{
			DataFile:     getenvWithDefault("LABTRACK_DATA_FILE", "equipment.json"),
			BackupSuffix: getenvWithDefault("LABTRACK_BACKUP_SUFFIX", ".bak"),
		},
		Auth: AuthConfig{
			Users: users,
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "warn"),
		},
		UI: UIConfig{
			Banner: banner,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if strings.TrimSpace(c.Storage.DataFile) == "" {
		return errors.New("LABTRACK_DATA_FILE must not be empty")
	}

	if c.Storage.BackupSuffix == "" {
		return errors.New("LABTRACK_BACKUP_SUFFIX must not be empty")
	}

	if len(c.Auth.Users) == 0 {
		return errors.New("LABTRACK_USERS must define at least one user")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL %q must be one of debug, info, warn, error", c.Log.Level)
	}

	return nil
}

// ParseUsers reads a comma separated list of username:password:role triples.
func ParseUsers(raw string) ([]models.User, error) {
	var users []models.User
	seen := make(map[string]struct{})

	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		parts := strings.Split(item, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("LABTRACK_USERS entry %q must look like user:password:role", item)
		}

		role, ok := models.ParseRoleName(parts[2])
		if !ok {
			return nil, fmt.Errorf("LABTRACK_USERS entry %q has unknown role %q", item, parts[2])
		}

		if _, dup := seen[parts[0]]; dup {
			return nil, fmt.Errorf("LABTRACK_USERS lists %q twice", parts[0])
		}
		seen[parts[0]] = struct{}{}

		users = append(users, models.User{Username: parts[0], Password: parts[1], Role: role})
	}

	return users, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
