package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/dues/internal/config"
	"github.com/mmynk/dues/internal/events"
	"github.com/mmynk/dues/internal/service"
	"github.com/mmynk/dues/internal/storage"
	"github.com/mmynk/dues/internal/storage/memory"
	"github.com/mmynk/dues/internal/storage/mongo"
	"github.com/mmynk/dues/internal/storage/sqlite"
)

// openStore opens the configured backend. SQLite and Mongo stores bring
// their schema up to date before returning.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		slog.Info("Storage initialized", "backend", cfg.DataBackend, "database", cfg.SQLiteDBPath)
		return store, nil
	case config.BackendMongo:
		store, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("opening mongo store: %w", err)
		}
		slog.Info("Storage initialized", "backend", cfg.DataBackend, "database", cfg.MongoDatabase)
		return store, nil
	case config.BackendMemory:
		slog.Warn("Using in-memory storage; data is lost on exit")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}

// openPublisher connects to the AMQP broker, or returns a no-op publisher
// when none is configured.
func openPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		return events.Nop{}, nil
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("connecting to AMQP: %w", err)
	}
	slog.Info("Publishing expense events", "exchange", cfg.AMQPExchange)
	return publisher, nil
}

func settings(cfg *config.Config) service.Settings {
	return service.Settings{
		CurrencyPlaces:  int32(cfg.CurrencyPlaces),
		DefaultPageSize: cfg.DefaultPageSize,
	}
}
