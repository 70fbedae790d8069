package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/clients/internal/config"
	"github.com/fastygo/clients/internal/infrastructure/monitor"
	mongoInfra "github.com/fastygo/clients/internal/infrastructure/mongo"
	pgInfra "github.com/fastygo/clients/internal/infrastructure/postgres"
	"github.com/fastygo/clients/internal/services/lifecycle"
	"github.com/fastygo/clients/repository"
	"github.com/fastygo/clients/repository/memory"
	mongoRepo "github.com/fastygo/clients/repository/mongo"
	pgRepo "github.com/fastygo/clients/repository/postgres"
)

// openStores connects the backend named by STORE_DRIVER and registers its shutdown.
// The returned pinger feeds the health monitor.
func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger, manager *lifecycle.Manager) (repository.Stores, monitor.Pinger, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, log); err != nil {
			return repository.Stores{}, nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return repository.Stores{}, nil, fmt.Errorf("postgres: %w", err)
		}
		manager.Register("postgres", func(context.Context) error {
			pool.Close()
			return nil
		})
		return pgRepo.NewStores(pool), pool, nil

	case config.DriverMongo:
		client, db, err := mongoInfra.Connect(ctx, cfg.Mongo, log)
		if err != nil {
			return repository.Stores{}, nil, fmt.Errorf("mongo: %w", err)
		}
		manager.Register("mongo", client.Disconnect)
		if err := mongoRepo.EnsureIndexes(ctx, db); err != nil {
			return repository.Stores{}, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return mongoRepo.NewStores(db), monitor.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}), nil

	default:
		log.Warn("using in-memory store, data is lost on restart")
		return memory.NewStores(), monitor.PingFunc(func(context.Context) error { return nil }), nil
	}
}
