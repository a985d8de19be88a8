package main

import (
	"context"
	"fmt"

	"github.com/dtroode/keepsake-server/internal/config"
	"github.com/dtroode/keepsake-server/internal/model"
	"github.com/dtroode/keepsake-server/internal/repository/memory"
	"github.com/dtroode/keepsake-server/internal/repository/mongodb"
	"github.com/dtroode/keepsake-server/internal/repository/objectstore"
	"github.com/dtroode/keepsake-server/internal/repository/postgres"
	storage "github.com/dtroode/keepsake-server/internal/storage/minio"
)

// openStore connects the backend named by cfg.Store.Driver. The returned
// close func releases its connection.
func openStore(ctx context.Context, cfg *config.Config) (model.UserStore, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Store.Driver {
	case config.DriverMongo:
		conn, err := mongodb.NewConnection(ctx, mongodb.Options{
			URI:        cfg.Mongo.URI,
			User:       cfg.Mongo.User,
			Password:   cfg.Mongo.Password,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		return mongodb.NewUserRepository(conn), conn.Close, nil

	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return postgres.NewUserRepository(conn), func(context.Context) error { return conn.Close() }, nil

	case config.DriverMinio:
		client, err := storage.Connect(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage client: %w", err)
		}
		return objectstore.NewUserRepository(client), noop, nil

	case config.DriverMemory:
		return memory.NewUserRepository(), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
