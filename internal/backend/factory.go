package backend

import (
	"context"
	"fmt"

	"spese/internal/amqp"
	"spese/internal/config"
	applog "spese/internal/log"
	"spese/internal/memory"
	"spese/internal/ports"
	"spese/internal/services"
	"spese/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:           backendType,
		SQLiteDBPath:   appConfig.SQLiteDBPath,
		AMQPURL:        appConfig.AMQPURL,
		AMQPExchange:   appConfig.AMQPExchange,
		AMQPRoutingKey: appConfig.AMQPRoutingKey,
	}, nil
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	var (
		store ports.Store
		err   error
	)

	// Each store comes back initialized. NewSQLiteRepository runs the
	// migrations itself.
	switch config.Type {
	case SQLiteBackend:
		store, err = f.createSQLiteStore(config)
	case MemoryBackend:
		store, err = f.createMemoryStore(ctx, config)
	default:
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	service := services.NewExpenseService(store, f.createNotifier(ctx, config), f.logger)

	return &Result{
		Store:   store,
		Service: service,
		Cleanup: service.Close,
	}, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (ports.Store, error) {
	if config.SQLiteDBPath == "" {
		return nil, fmt.Errorf("SQLite database path is required for sqlite backend")
	}

	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend",
		applog.FieldBackend, config.Type,
		applog.FieldDBPath, config.SQLiteDBPath)
	return repo, nil
}

func (f *DefaultFactory) createMemoryStore(ctx context.Context, config Config) (ports.Store, error) {
	store := memory.New()
	if err := store.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize %s backend: %w", config.Type, err)
	}
	f.logger.InfoContext(ctx, "Initialized memory backend", applog.FieldBackend, config.Type)
	return store, nil
}

// createNotifier connects to AMQP when configured. A broker that cannot be
// reached only disables notifications.
func (f *DefaultFactory) createNotifier(ctx context.Context, config Config) services.Notifier {
	if config.AMQPURL == "" {
		return nil
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPRoutingKey)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without notifications",
			applog.FieldError, err)
		return nil
	}

	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"routing_key", config.AMQPRoutingKey)
	return client
}
