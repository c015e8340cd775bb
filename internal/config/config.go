package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int
	Database   DatabaseConfig
	JWTSecret  string
}

// DatabaseConfig holds the Postgres connection coordinates.
type DatabaseConfig struct {
	Host string
	Port string
	Name string
	User string
	Pass string
}

// URL builds a pgx-compatible connection string.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Load loads configuration from environment variables. The database coordinates
// and the token-signing secret are required and have no defaults; Load reports
// every missing variable by name so a misconfigured deployment fails at startup.
func Load() (*Config, error) {
	required := []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASS", "JWT_SECRET"}
	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	portStr := getEnv("PORT", "8001")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	return &Config{
		ServerPort: port,
		Database: DatabaseConfig{
			Host: os.Getenv("DB_HOST"),
			Port: os.Getenv("DB_PORT"),
			Name: os.Getenv("DB_NAME"),
			User: os.Getenv("DB_USER"),
			Pass: os.Getenv("DB_PASS"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
	}, nil
}

// Helper to get an environment variable with a default value. An empty value
// counts as unset.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
