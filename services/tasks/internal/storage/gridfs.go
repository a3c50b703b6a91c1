package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultBucketName = "photos"

type gridfsMetadata struct {
	ContentType string `bson:"content_type"`
}

// GridFSBackend stores photos in a GridFS bucket of the service database.
// The database is resolved lazily because the repository connects on Start.
type GridFSBackend struct {
	database func() *mongo.Database
	bucket   string
}

func NewGridFSBackend(database func() *mongo.Database, bucket string) *GridFSBackend {
	if bucket == "" {
		bucket = defaultBucketName
	}
	return &GridFSBackend{database: database, bucket: bucket}
}

func (b *GridFSBackend) open(ctx context.Context) (*gridfs.Bucket, error) {
	db := b.database()
	if db == nil {
		return nil, fmt.Errorf("%w: database not connected", ErrUnavailable)
	}
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(b.bucket))
	if err != nil {
		return nil, fmt.Errorf("cannot open bucket %s: %w", b.bucket, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = bucket.SetWriteDeadline(deadline)
		_ = bucket.SetReadDeadline(deadline)
	}
	return bucket, nil
}

func (b *GridFSBackend) Put(ctx context.Context, key, contentType string, data []byte) (Object, error) {
	if !validKey(key) {
		return Object{}, fmt.Errorf("%w: invalid key %q", ErrRejected, key)
	}
	if len(data) == 0 {
		return Object{}, fmt.Errorf("%w: empty photo", ErrRejected)
	}

	bucket, err := b.open(ctx)
	if err != nil {
		return Object{}, err
	}

	opts := options.GridFSUpload().SetMetadata(gridfsMetadata{ContentType: contentType})
	if _, err := bucket.UploadFromStream(key, bytes.NewReader(data), opts); err != nil {
		return Object{}, classify("cannot upload photo", err)
	}

	return Object{Key: key, ContentType: contentType, Size: int64(len(data))}, nil
}

func (b *GridFSBackend) Open(ctx context.Context, key string) (io.ReadCloser, Object, error) {
	bucket, err := b.open(ctx)
	if err != nil {
		return nil, Object{}, err
	}

	stream, err := bucket.OpenDownloadStreamByName(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, Object{}, ErrNotFound
		}
		return nil, Object{}, classify("cannot open photo", err)
	}

	file := stream.GetFile()
	obj := Object{Key: key, ContentType: "application/octet-stream", Size: file.Length}

	var meta gridfsMetadata
	if len(file.Metadata) > 0 {
		if err := bson.Unmarshal(file.Metadata, &meta); err == nil && meta.ContentType != "" {
			obj.ContentType = meta.ContentType
		}
	}

	return stream, obj, nil
}

func (b *GridFSBackend) Delete(ctx context.Context, key string) error {
	bucket, err := b.open(ctx)
	if err != nil {
		return err
	}

	cursor, err := bucket.FindContext(ctx, bson.M{"filename": key})
	if err != nil {
		return classify("cannot find photo", err)
	}
	defer cursor.Close(ctx)

	var files []struct {
		ID interface{} `bson:"_id"`
	}
	if err := cursor.All(ctx, &files); err != nil {
		return classify("cannot decode photo files", err)
	}
	if len(files) == 0 {
		return ErrNotFound
	}

	for _, f := range files {
		if err := bucket.DeleteContext(ctx, f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return classify("cannot delete photo", err)
		}
	}
	return nil
}

func classify(msg string, err error) error {
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", msg, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

