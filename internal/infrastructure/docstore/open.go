// Package docstore elige el adaptador del almacén de documentos según STORE_DRIVER.
package docstore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
	"github.com/jhoicas/cep-backoffice/internal/infrastructure/memory"
	"github.com/jhoicas/cep-backoffice/internal/infrastructure/mongodb"
	"github.com/jhoicas/cep-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/cep-backoffice/internal/infrastructure/redisdb"
	"github.com/jhoicas/cep-backoffice/pkg/config"
)

// Backend almacén abierto con su ciclo de vida.
type Backend struct {
	Driver   string
	Store    repository.ConditionalStore
	Receipts repository.ReceiptLog
	migrate  func(ctx context.Context) error
	close   func()
}

// Migrate prepara el esquema (tabla en Postgres, índices en Mongo). No-op en memoria y Redis.
func (b *Backend) Migrate(ctx context.Context) error {
	if b.migrate == nil {
		return nil
	}
	return b.migrate(ctx)
}

// Close libera conexiones.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open conecta con el driver configurado.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	log = log.With().Str("driver", cfg.Store.Driver).Logger()

	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &Backend{Driver: cfg.Store.Driver, Store: store, Receipts: NewDocumentReceiptLog(store)}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		log.Info().Msg("conectado a PostgreSQL")
		return &Backend{
			Driver:   cfg.Store.Driver,
			Store:    postgres.NewDocumentStore(pool),
			Receipts: postgres.NewReceiptLog(pool),
			migrate:  func(ctx context.Context) error { return postgres.Migrate(ctx, pool) },
			close:    pool.Close,
		}, nil

	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		db := client.Database(cfg.Mongo.Database)
		store := mongodb.NewDocumentStore(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("conectado a MongoDB")
		return &Backend{
			Driver:   cfg.Store.Driver,
			Store:    store,
			Receipts: NewDocumentReceiptLog(store),
			migrate: func(ctx context.Context) error {
				return mongodb.EnsureIndexes(ctx, db, repository.CollectionStockProducts)
			},
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Error().Err(err).Msg("cerrar cliente mongo")
				}
			},
		}, nil

	case config.DriverRedis:
		rdb, err := redisdb.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		store := redisdb.NewDocumentStore(rdb, cfg.Redis.Prefix)
		log.Info().Int("db", cfg.Redis.DB).Msg("conectado a Redis")
		return &Backend{
			Driver:   cfg.Store.Driver,
			Store:    store,
			Receipts: NewDocumentReceiptLog(store),
			close: func() {
				if err := rdb.Close(); err != nil {
					log.Error().Err(err).Msg("cerrar cliente redis")
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("driver de almacén desconocido %q", cfg.Store.Driver)
}
