// Package mongodb implementa el almacén de documentos sobre MongoDB.
// Cada colección lógica es una colección Mongo; el id del documento es _id.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jhoicas/cep-backoffice/pkg/config"
)

// Connect abre el cliente y verifica la conexión con un ping al primario.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("conectar mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes crea el índice por createdAt en las colecciones indicadas (listados por fecha).
func EnsureIndexes(ctx context.Context, db *mongo.Database, collections ...string) error {
	for _, name := range collections {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "createdAt", Value: 1}},
		})
		if err != nil {
			return wrapErr("crear índice "+name, err)
		}
	}
	return nil
}
