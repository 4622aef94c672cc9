package db

import (
	"context"
	"fmt"
	"time"

	"bookshelf/internal/logger"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

func NewMongoConnection(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		closeQuietly("mongo", func() error { return client.Disconnect(context.Background()) })
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Log.Info("Подключение к MongoDB установлено", zap.String("db", dbName))
	return client, client.Database(dbName), nil
}
