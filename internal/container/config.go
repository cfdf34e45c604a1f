// Package container provides dependency injection and lifecycle management
// for the facility management backend.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	Database DatabaseConfig
	OpenAI   OpenAIConfig
	Email    EmailConfig
	Export   ExportConfig
	Server   ServerConfig
	Worker   WorkerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// MigrationsDir is the path to migration files
	MigrationsDir string
}

// OpenAIConfig holds OpenAI API settings. An empty APIKey disables the
// advisory classifier.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float32

	// MaxDays caps the suggested deadline produced by the classifier
	MaxDays int

	Timeout time.Duration
}

// EmailConfig holds SendGrid settings. An empty APIKey disables notifications.
type EmailConfig struct {
	APIKey     string
	SenderName string
	FromEmail  string
}

// ExportConfig holds audit summary export settings.
type ExportConfig struct {
	OutputDir string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	OverduePollInterval time.Duration
	OverdueScanTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/facility.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			MigrationsDir:   "migrations",
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
			MaxDays:     90,
			Timeout:     60 * time.Second,
		},
		Email: EmailConfig{
			SenderName: "Facility Management",
		},
		Export: ExportConfig{
			OutputDir: "exports",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Worker: WorkerConfig{
			OverduePollInterval: 10 * time.Minute,
			OverdueScanTimeout:  30 * time.Second,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Email.APIKey != "" && c.Email.FromEmail == "" {
		return fmt.Errorf("email.from_email is required when email.api_key is set")
	}

	if c.Export.OutputDir == "" {
		return fmt.Errorf("export.output_dir is required")
	}

	return nil
}
