package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/dinhchung2102/iuh-facility-management/internal/config"
	"github.com/dinhchung2102/iuh-facility-management/internal/container"
	httpiface "github.com/dinhchung2102/iuh-facility-management/internal/interfaces/http"
	"github.com/dinhchung2102/iuh-facility-management/pkg/utils"
)

func main() {
	// Load .env if present, before viper reads the environment
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting facility management backend",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		logger.Fatal("Failed to create container", zap.Error(err))
	}

	if err := c.Start(ctx); err != nil {
		logger.Fatal("Failed to start container", zap.Error(err))
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("Container close failed", zap.Error(err))
		}
	}()

	services := c.Services()
	server := httpiface.NewServer(
		httpiface.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		services.Report,
		services.Audit,
		services.Suggestion,
		&zapAdapter{logger: logger.Sugar()},
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
		cancel()
		<-serverErr
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// zapAdapter bridges *zap.SugaredLogger to the http server's Logger interface
type zapAdapter struct {
	logger *zap.SugaredLogger
}

func (a *zapAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Infow(msg, keysAndValues...)
}

func (a *zapAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Errorw(msg, keysAndValues...)
}
