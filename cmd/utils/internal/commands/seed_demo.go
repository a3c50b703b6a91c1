package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/appetiteclub/staffops/cmd/utils/internal/seeding"
)

// SeedDemo writes demo requests, payroll, shift reports and notifications
// into the backoffice database once.
func SeedDemo(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Info("Starting demo seeding process...")

	client, err := connect(ctx, config, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	db := backofficeDB(client, config)
	seeds := db.Collection(seedsCollection)

	count, err := seeds.CountDocuments(ctx, bson.M{"_id": seeding.TrackerID})
	if err != nil {
		return fmt.Errorf("check seed status: %w", err)
	}
	if count > 0 {
		logger.Info("Backoffice demo seeds already applied, skipping")
		return nil
	}

	if err := seeding.SeedBackoffice(ctx, db, time.Now()); err != nil {
		return fmt.Errorf("seed backoffice: %w", err)
	}

	_, err = seeds.InsertOne(ctx, bson.M{
		"_id":         seeding.TrackerID,
		"description": "Create demo requests, payroll entries, shift reports and notifications",
		"applied_at":  time.Now().UTC(),
	})
	if err != nil {
		logger.Info("cannot mark demo seed as applied", "error", err)
	}

	logger.Info("Backoffice demo seeds applied successfully")
	return nil
}
