package storage

import (
	"context"
	"fmt"

	"github.com/marcelsud/personal-library/book"
	"github.com/marcelsud/personal-library/book/memory"
	"github.com/marcelsud/personal-library/book/mongo"
	"github.com/marcelsud/personal-library/book/postgres"
	"github.com/marcelsud/personal-library/book/redis"
	"github.com/marcelsud/personal-library/config"
)

// Open connects the adapter named by cfg.StoreDriver and prepares its schema.
func Open(ctx context.Context, cfg *config.Config) (book.Repository, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.NewRepository(), nil
	case config.DriverMongo:
		repo, err := mongo.NewRepository(ctx, cfg.DB, cfg.DBName, cfg.DBCollection)
		if err != nil {
			return nil, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			repo.Close(ctx)
			return nil, fmt.Errorf("ensuring mongo schema: %w", err)
		}
		return repo, nil
	case config.DriverPostgres:
		repo, err := postgres.NewRepositoryWithPoolConfig(
			cfg.DB,
			cfg.PostgresMaxOpenConns,
			cfg.PostgresMaxIdleConns,
			cfg.PostgresConnMaxLifeMinutes,
		)
		if err != nil {
			return nil, err
		}
		if err := repo.CreateTable(ctx); err != nil {
			repo.Close(ctx)
			return nil, fmt.Errorf("creating postgres table: %w", err)
		}
		return repo, nil
	case config.DriverRedis:
		repo, err := redis.NewRepository(cfg.DB, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
