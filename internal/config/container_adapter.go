package config

import (
	"time"

	"github.com/dinhchung2102/iuh-facility-management/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This bridges the file-based config loaded by viper and the container's
// configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		OpenAI: container.OpenAIConfig{
			APIKey:      c.OpenAI.APIKey,
			Model:       c.OpenAI.Model,
			Temperature: c.OpenAI.Temperature,
			MaxDays:     c.OpenAI.MaxDays,
			Timeout:     c.OpenAI.Timeout,
		},
		Email: container.EmailConfig{
			APIKey:     c.Email.APIKey,
			SenderName: c.Email.SenderName,
			FromEmail:  c.Email.FromEmail,
		},
		Export: container.ExportConfig{
			OutputDir: c.Audit.ExportDir,
		},
		Server: container.ServerConfig{
			Host:         c.Server.Host,
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
		},
		Worker: container.WorkerConfig{
			OverduePollInterval: 10 * time.Minute,
			OverdueScanTimeout:  30 * time.Second,
		},
	}
}
