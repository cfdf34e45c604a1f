package container

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
	"github.com/dinhchung2102/iuh-facility-management/internal/application/service"
	"github.com/dinhchung2102/iuh-facility-management/internal/infrastructure/export"
	"github.com/dinhchung2102/iuh-facility-management/internal/infrastructure/external/openai"
	"github.com/dinhchung2102/iuh-facility-management/internal/infrastructure/external/sendgrid"
	"github.com/dinhchung2102/iuh-facility-management/internal/infrastructure/persistence/repository"
	"github.com/dinhchung2102/iuh-facility-management/internal/infrastructure/persistence/sqlite"
	"github.com/dinhchung2102/iuh-facility-management/internal/infrastructure/worker"
	"github.com/dinhchung2102/iuh-facility-management/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	SqlDB          *sql.DB
	TransactionMgr *sqlite.DB
}

// ProvideDatabase creates the database connection and transaction manager.
// Also runs any pending database migrations.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MigrationsDir != "" {
		migrator := database.NewMigrator(db, logger)
		if err := migrator.RunMigrations(cfg.MigrationsDir); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return &DatabaseBundle{
		SqlDB:          db.DB,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Report:   repository.NewReportRepository(sqlDB, logger),
		Audit:    repository.NewAuditRepository(sqlDB, logger),
		History:  repository.NewHistoryRepository(sqlDB, logger),
		Asset:    repository.NewAssetRepository(sqlDB, logger),
		Staff:    repository.NewStaffRepository(sqlDB, logger),
		Location: repository.NewLocationRepository(sqlDB, logger),
	}, nil
}

// ProvideClassifier creates the OpenAI advisory classifier. Returns nil when
// no API key is configured; callers treat a nil classifier as "disabled".
func ProvideClassifier(cfg *OpenAIConfig, logger *zap.Logger) (port.AdvisoryClassifier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("openai config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if cfg.APIKey == "" {
		logger.Info("OpenAI API key not set, advisory classifier disabled")
		return nil, nil
	}

	return openai.NewClassifier(cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxDays, logger), nil
}

// ProvideNotifier creates the SendGrid notifier. Returns nil when no API key
// is configured; services skip notification when the notifier is nil.
func ProvideNotifier(cfg *EmailConfig, logger *zap.Logger) (port.Notifier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("email config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if cfg.APIKey == "" {
		logger.Info("SendGrid API key not set, notifications disabled")
		return nil, nil
	}

	return sendgrid.NewNotifier(cfg.APIKey, cfg.SenderName, cfg.FromEmail, logger), nil
}

// ProvideExporter creates the Excel audit summary exporter.
func ProvideExporter(cfg *ExportConfig, logger *zap.Logger) (port.AuditExporter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("export config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return export.NewExcelExporter(cfg.OutputDir, logger)
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Repos      *RepositoryBundle
	TxManager  port.TransactionManager
	Classifier port.AdvisoryClassifier
	Notifier   port.Notifier
	Exporter   port.AuditExporter
	Logger     *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}

	return &ServiceBundle{
		Report: service.NewReportService(
			deps.Repos.Report,
			deps.Repos.Audit,
			deps.Repos.History,
			deps.Repos.Asset,
			deps.Repos.Staff,
			deps.TxManager,
			deps.Notifier,
			deps.Classifier,
			serviceLogger,
		),
		Audit: service.NewAuditService(
			deps.Repos.Audit,
			deps.Repos.History,
			deps.Repos.Asset,
			deps.Repos.Staff,
			deps.TxManager,
			deps.Notifier,
			deps.Exporter,
			serviceLogger,
		),
		Suggestion: service.NewSuggestionService(
			deps.Repos.Report,
			deps.Repos.Asset,
			deps.Repos.Staff,
			deps.Repos.Location,
			serviceLogger,
		),
	}, nil
}

// WorkerDeps holds dependencies required for creating workers.
type WorkerDeps struct {
	Repos     *RepositoryBundle
	Notifier  port.Notifier
	WorkerCfg *WorkerConfig
	Logger    *zap.Logger
}

// ProvideWorkers creates and registers all background workers.
// Returns a *worker.Manager with workers registered but not started.
func ProvideWorkers(deps *WorkerDeps) (*worker.Manager, error) {
	if deps == nil {
		return nil, fmt.Errorf("worker dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.WorkerCfg == nil {
		return nil, fmt.Errorf("worker config is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	manager := worker.NewManager(deps.Logger)

	overdueCfg := worker.OverdueWorkerConfig{
		PollInterval: deps.WorkerCfg.OverduePollInterval,
		ScanTimeout:  deps.WorkerCfg.OverdueScanTimeout,
	}
	manager.Register(worker.NewOverdueWorker(
		overdueCfg,
		deps.Repos.Audit,
		deps.Repos.Staff,
		deps.Notifier,
		deps.Logger,
	))

	return manager, nil
}

// zapLoggerAdapter adapts *zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Sugar().Infow(msg, keysAndValues...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Sugar().Errorw(msg, keysAndValues...)
}
