package notifications

import (
	"context"

	"github.com/google/uuid"
)

type Filter struct {
	UnreadOnly bool
	Type       string
}

type NotificationRepo interface {
	// Create fails with ErrDuplicateNotification when SourceKey was seen.
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, filter Filter) ([]*Notification, error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
