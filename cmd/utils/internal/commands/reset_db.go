package commands

import (
	"context"

	"github.com/aquamarinepk/aqm"
)

// ResetDB drops every staffops database. There is no undo.
func ResetDB(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Info("Dropping all staffops databases, this cannot be undone")

	client, err := connect(ctx, config, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	for _, name := range Databases(config) {
		logger.Info("Dropping database", "database", name)
		if err := client.Database(name).Drop(ctx); err != nil {
			logger.Info("cannot drop database", "database", name, "error", err)
			continue
		}
		logger.Info("Database dropped", "database", name)
	}

	return nil
}
