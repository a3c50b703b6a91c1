package commands

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/appetiteclub/staffops/cmd/utils/internal/seeding"
)

// ClearDemo removes every document seed-demo wrote and forgets the seed.
func ClearDemo(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Info("Starting demo data cleanup...")

	client, err := connect(ctx, config, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	db := backofficeDB(client, config)
	for _, name := range seeding.DemoCollections() {
		result, err := db.Collection(name).DeleteMany(ctx, bson.M{"created_by": seeding.DemoMarker})
		if err != nil {
			return fmt.Errorf("delete demo %s: %w", name, err)
		}
		logger.Info("Deleted demo documents", "collection", name, "count", result.DeletedCount)
	}

	result, err := db.Collection(seedsCollection).DeleteOne(ctx, bson.M{"_id": seeding.TrackerID})
	if err != nil {
		return fmt.Errorf("delete demo seed tracker: %w", err)
	}
	logger.Info("Cleared demo seed tracker", "deleted", result.DeletedCount)

	return nil
}
