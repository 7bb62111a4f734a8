// Package app wires configuration, storage backends and services into a
// ready-to-use booking desk.
package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/airline_desk/internal/adapter/repository/filestore"
	"github.com/srgjo27/airline_desk/internal/adapter/repository/memory"
	"github.com/srgjo27/airline_desk/internal/adapter/repository/postgres"
	"github.com/srgjo27/airline_desk/internal/adapter/repository/redisstore"
	"github.com/srgjo27/airline_desk/internal/config"
	"github.com/srgjo27/airline_desk/internal/core/domain"
	"github.com/srgjo27/airline_desk/internal/core/ports"
	"github.com/srgjo27/airline_desk/internal/core/services"
	"github.com/srgjo27/airline_desk/internal/platform/cache"
	"github.com/srgjo27/airline_desk/internal/platform/database"
)

type App struct {
	Config    *config.Config
	Documents ports.DocumentStore
	Tickets   ports.TicketRepository
	Inventory *services.InventoryService
	Directory *services.FlightDirectory
	Booking   *services.BookingService
	Auditor   *services.Auditor

	db    *sql.DB
	redis *redis.Client
}

func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	a := &App{Config: cfg}

	if cfg.UsesPostgres() {
		db, err := database.NewPostgresDB(cfg.Database, log)
		if err != nil {
			return nil, err
		}
		a.db = db

		if err := database.RunMigrations(ctx, db); err != nil {
			a.Close()
			return nil, err
		}
		log.Info("Database migrations completed successfully")
	}

	if cfg.UsesRedis() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
	}

	switch cfg.Storage.Documents {
	case "postgres":
		a.Documents = postgres.NewDocumentStore(a.db)
	case "redis":
		a.Documents = redisstore.NewDocumentStore(a.redis, cfg.Redis.Prefix)
	default:
		store, err := filestore.NewDocumentStore(cfg.Storage.DataDir)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Documents = store
	}

	switch cfg.Storage.Tickets {
	case "postgres":
		a.Tickets = postgres.NewTicketRepository(a.db)
	default:
		a.Tickets = memory.NewTicketRepository()
	}

	a.wire(cfg, log)
	return a, nil
}

// NewWith builds an App over already constructed stores.
func NewWith(cfg *config.Config, documents ports.DocumentStore, tickets ports.TicketRepository, log logrus.FieldLogger) *App {
	a := &App{Config: cfg, Documents: documents, Tickets: tickets}
	a.wire(cfg, log)
	return a
}

func (a *App) wire(cfg *config.Config, log logrus.FieldLogger) {
	opts := []services.InventoryOption{services.WithAircraftDocument(cfg.App.AircraftDocument)}
	if cfg.Redis.SeatCache && a.redis != nil {
		opts = append(opts, services.WithSeatCache(a.redis, cfg.Redis.SeatCacheTTL))
	}

	a.Inventory = services.NewInventoryService(a.Documents, log, opts...)
	a.Directory = services.NewFlightDirectory(a.Documents, cfg.App.FlightsDocument, log)
	ids := services.NewTicketIDGenerator(nil, cfg.App.TicketIDAttempts)
	a.Booking = services.NewBookingService(a.Inventory, a.Directory, a.Tickets, ids, log)
	a.Auditor = services.NewAuditor(a.Inventory, a.Tickets, log)
}

// Seed copies the named documents from src into the desk's store when the
// store does not have them yet. It returns the names that were copied.
func (a *App) Seed(ctx context.Context, src ports.DocumentStore, names ...string) ([]string, error) {
	var copied []string
	for _, name := range names {
		var existing json.RawMessage
		err := a.Documents.Load(ctx, name, &existing)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			return copied, err
		}

		var doc json.RawMessage
		if err := src.Load(ctx, name, &doc); err != nil {
			return copied, fmt.Errorf("failed to read seed document %s: %w", name, err)
		}
		if err := a.Documents.Save(ctx, name, doc); err != nil {
			return copied, err
		}
		copied = append(copied, name)
	}
	return copied, nil
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
