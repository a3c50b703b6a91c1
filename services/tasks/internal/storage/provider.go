package storage

import (
	"fmt"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/mongo"
)

// FromProperties builds the photo backend selected by storage.backend.
// database is only used by the gridfs backend.
func FromProperties(config *aqm.Config, database func() *mongo.Database) (PhotoStorage, error) {
	if config == nil {
		return nil, fmt.Errorf("storage: properties required")
	}

	backend, _ := config.GetString("storage.backend")
	switch backend {
	case "", "local":
		directory, _ := config.GetString("storage.local.directory")
		local, err := NewLocalBackend(directory)
		if err != nil {
			return nil, fmt.Errorf("storage: local backend: %w", err)
		}
		return local, nil
	case "gridfs":
		if database == nil {
			return nil, fmt.Errorf("storage: gridfs backend needs a database")
		}
		bucket := config.GetStringOrDef("storage.gridfs.bucket", defaultBucketName)
		return NewGridFSBackend(database, bucket), nil
	case "noop":
		return NewNoopBackend(), nil
	default:
		return nil, fmt.Errorf("storage: unsupported backend %q", backend)
	}
}
