// Package app wires configuration, storage, handlers and the event relay together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	identityCommands "github.com/felixgeelhaar/tasklist/internal/identity/application/commands"
	identityQueries "github.com/felixgeelhaar/tasklist/internal/identity/application/queries"
	identityPersistence "github.com/felixgeelhaar/tasklist/internal/identity/infrastructure/persistence"
	"github.com/felixgeelhaar/tasklist/internal/identity/infrastructure/token"
	sharedApplication "github.com/felixgeelhaar/tasklist/internal/shared/application"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/outbox"
	todoCommands "github.com/felixgeelhaar/tasklist/internal/todos/application/commands"
	todoQueries "github.com/felixgeelhaar/tasklist/internal/todos/application/queries"
	todoPersistence "github.com/felixgeelhaar/tasklist/internal/todos/infrastructure/persistence"
	"github.com/felixgeelhaar/tasklist/pkg/config"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DB       database.Connection
	DBDriver database.Driver

	// Repositories
	UserRepo   *identityPersistence.SQLUserRepository
	TodoRepo   *todoPersistence.SQLTodoRepository
	OutboxRepo outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Identity
	Tokens *token.JWT
	Hasher crypto.PasswordHasher

	// Identity Command Handlers
	RegisterHandler   *identityCommands.RegisterHandler
	LoginHandler      *identityCommands.LoginHandler
	DeleteUserHandler *identityCommands.DeleteUserHandler

	// Identity Query Handlers
	GetProfileHandler *identityQueries.GetProfileHandler

	// Todo Command Handlers
	AddTodoHandler        *todoCommands.AddTodoHandler
	EditTodoHandler       *todoCommands.EditTodoHandler
	ToggleCompleteHandler *todoCommands.ToggleCompleteHandler
	DeleteTodoHandler     *todoCommands.DeleteTodoHandler

	// Todo Query Handlers
	ListTodosHandler *todoQueries.ListTodosHandler

	// Event relay, only set after EnableEventRelay.
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor

	Health *observability.HealthRegistry
}

// NewContainer connects to the configured database, applies pending migrations and
// builds every handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tokens, err := token.NewJWT(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	conn, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database", "driver", conn.Driver().String())

	if cfg.AutoMigrate {
		applied, err := migrations.Run(ctx, conn)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("applied migrations", "versions", applied)
		}
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		DB:       conn,
		DBDriver: conn.Driver(),
		Tokens:   tokens,
		Hasher:   crypto.NewBcryptHasher(cfg.BcryptCost),
		Health:   observability.NewHealthRegistry(2 * time.Second),
	}

	// Create repositories
	c.UserRepo = identityPersistence.NewSQLUserRepository(conn)
	c.TodoRepo = todoPersistence.NewSQLTodoRepository(conn)
	c.OutboxRepo = outbox.NewSQLRepository(conn)
	c.UnitOfWork = database.NewUnitOfWork(conn)

	// Create identity handlers
	c.RegisterHandler = identityCommands.NewRegisterHandler(c.UserRepo, c.OutboxRepo, c.UnitOfWork, c.Hasher, c.Tokens)
	c.LoginHandler = identityCommands.NewLoginHandler(c.UserRepo, c.Hasher, c.Tokens)
	c.DeleteUserHandler = identityCommands.NewDeleteUserHandler(c.UserRepo, c.TodoRepo, c.OutboxRepo, c.UnitOfWork)
	c.GetProfileHandler = identityQueries.NewGetProfileHandler(c.UserRepo)

	// Create todo handlers
	c.AddTodoHandler = todoCommands.NewAddTodoHandler(c.TodoRepo, c.UserRepo, c.OutboxRepo, c.UnitOfWork)
	c.EditTodoHandler = todoCommands.NewEditTodoHandler(c.TodoRepo, c.OutboxRepo, c.UnitOfWork)
	c.ToggleCompleteHandler = todoCommands.NewToggleCompleteHandler(c.TodoRepo, c.OutboxRepo, c.UnitOfWork)
	c.DeleteTodoHandler = todoCommands.NewDeleteTodoHandler(c.TodoRepo, c.UserRepo, c.OutboxRepo, c.UnitOfWork)
	c.ListTodosHandler = todoQueries.NewListTodosHandler(c.TodoRepo)

	c.Health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy, conn.Ping))

	return c, nil
}

// Connect opens the database selected by cfg: PostgreSQL when DATABASE_URL is set,
// otherwise SQLite at SQLITE_PATH.
func Connect(ctx context.Context, cfg *config.Config) (database.Connection, error) {
	dbCfg := database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.DatabaseMaxConns,
	}
	if cfg.UsesSQLite() {
		dbCfg.Driver = database.DriverSQLite
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

// EnableEventRelay connects to the configured broker and creates the outbox processor.
// The processor is not started.
func (c *Container) EnableEventRelay(ctx context.Context) error {
	publisher, err := NewEventPublisher(ctx, c.Config, c.Logger)
	if err != nil {
		return err
	}
	c.EventPublisher = publisher

	if pinger, ok := publisher.(eventbus.Pinger); ok {
		c.Health.Register("broker", observability.PingChecker("broker", observability.HealthStatusDegraded, pinger.Ping))
	}

	processorConfig := outbox.DefaultProcessorConfig()
	processorConfig.PollInterval = c.Config.OutboxPollInterval
	processorConfig.BatchSize = c.Config.OutboxBatchSize
	processorConfig.MaxRetries = c.Config.OutboxMaxRetries
	processorConfig.RetentionDays = c.Config.OutboxRetentionDays
	processorConfig.CleanupInterval = c.Config.OutboxCleanupInterval
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig, c.Logger)

	return nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver.String())
		}
	}
}
