package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/mediconsult-api/internal/config"
	"github.com/jwalitptl/mediconsult-api/internal/store"
	"github.com/jwalitptl/mediconsult-api/internal/store/memory"
	mongostore "github.com/jwalitptl/mediconsult-api/internal/store/mongo"
	pgstore "github.com/jwalitptl/mediconsult-api/internal/store/postgres"
	redisstore "github.com/jwalitptl/mediconsult-api/internal/store/redis"
	redisclient "github.com/jwalitptl/mediconsult-api/pkg/messaging/redis"
)

// openStore connects the configured backend. For postgres it also makes
// sure the key-value table exists.
func openStore(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (store.Store, error) {
	switch cfg.Backend {
	case "memory":
		logger.Warn().Msg("using the in-memory store; data is lost on restart")
		return memory.New(), nil

	case "redis":
		client, err := redisclient.NewClient(ctx, redisclient.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err != nil {
			return nil, err
		}
		return redisstore.New(client, cfg.Redis.Channel, logger), nil

	case "postgres":
		pg := pgstore.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Name:     cfg.Postgres.Name,
			SSLMode:  cfg.Postgres.SSLMode,
		}
		db, err := pgstore.NewDB(ctx, pg)
		if err != nil {
			return nil, err
		}
		if err := pgstore.CreateSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return pgstore.New(db, pg.DSN(), cfg.Postgres.Channel, logger), nil

	case "mongo":
		mc := mongostore.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		}
		client, err := mongostore.Connect(ctx, mc)
		if err != nil {
			return nil, err
		}
		return mongostore.New(client, mc, logger), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
