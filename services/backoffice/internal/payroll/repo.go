package payroll

import (
	"context"

	"github.com/google/uuid"
)

// EntryRepo has no update or delete: entries are immutable once created.
type EntryRepo interface {
	Create(ctx context.Context, entry *Entry) error
	Get(ctx context.Context, id uuid.UUID) (*Entry, error)
	List(ctx context.Context, period string) ([]*Entry, error)
}
