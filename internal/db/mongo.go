package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bidops/bid-data-service/internal/config"
)

// Connect opens the mongo client, verifies the connection with a ping and
// ensures the indexes the repositories rely on.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	timeout, err := time.ParseDuration(cfg.ConnectTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid MONGO_CONNECT_TIMEOUT %q: %w", cfg.ConnectTimeout, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	database := client.Database(cfg.Database)
	if err := ensureIndexes(ctx, database); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, database, nil
}

func ensureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection("bid").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "announcement_number", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create bid indexes: %w", err)
	}
	return nil
}

// Disconnect closes the client with a bounded shutdown deadline.
func Disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
