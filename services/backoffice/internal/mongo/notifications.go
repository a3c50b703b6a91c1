package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/staffops/services/backoffice/internal/notifications"
)

type NotificationRepo struct {
	collection *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) *NotificationRepo {
	return &NotificationRepo{collection: db.Collection(notificationsCollection)}
}

func (r *NotificationRepo) Create(ctx context.Context, n *notifications.Notification) error {
	if n == nil {
		return fmt.Errorf("notification is nil")
	}
	if _, err := r.collection.InsertOne(ctx, n); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("source %s: %w", n.SourceKey, notifications.ErrDuplicateNotification)
		}
		return fmt.Errorf("cannot create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) List(ctx context.Context, filter notifications.Filter) ([]*notifications.Notification, error) {
	query := bson.M{}
	if filter.UnreadOnly {
		query["read"] = false
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll[notifications.Notification](ctx, r.collection, query, opts, "notifications")
}

func (r *NotificationRepo) CountUnread(ctx context.Context) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"read": false})
	if err != nil {
		return 0, fmt.Errorf("cannot count unread notifications: %w", err)
	}
	return int(count), nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("cannot mark notification read: %w", err)
	}
	if result.MatchedCount == 0 {
		return notifications.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context) (int, error) {
	result, err := r.collection.UpdateMany(ctx, bson.M{"read": false}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, fmt.Errorf("cannot mark notifications read: %w", err)
	}
	return int(result.ModifiedCount), nil
}

func (r *NotificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID(ctx, r.collection, id, notifications.ErrNotificationNotFound); err != nil {
		return fmt.Errorf("cannot delete notification: %w", err)
	}
	return nil
}
