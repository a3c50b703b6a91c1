package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultMongoURL = "mongodb://localhost:27017"

	tasksDatabase      = "staffops_tasks"
	backofficeDatabase = "staffops_backoffice"
	seedsCollection    = "_seeds"
)

func connect(ctx context.Context, config *aqm.Config, logger aqm.Logger) (*mongo.Client, error) {
	mongoURL := config.GetStringOrDef("db.mongo.url", defaultMongoURL)
	if mongoURL == "" {
		mongoURL = defaultMongoURL
	}

	opts := options.Client().ApplyURI(mongoURL).SetServerSelectionTimeout(10 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("Connected to MongoDB")
	return client, nil
}

func backofficeDB(client *mongo.Client, config *aqm.Config) *mongo.Database {
	return client.Database(config.GetStringOrDef("db.backoffice.name", backofficeDatabase))
}

// Databases lists every staffops database reset-db drops.
func Databases(config *aqm.Config) []string {
	return []string{
		config.GetStringOrDef("db.tasks.name", tasksDatabase),
		config.GetStringOrDef("db.backoffice.name", backofficeDatabase),
	}
}
