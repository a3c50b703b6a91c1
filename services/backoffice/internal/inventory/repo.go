package inventory

import (
	"context"

	"github.com/google/uuid"
)

type ItemFilter struct {
	Station string
	Status  string
}

type ItemRepo interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context, filter ItemFilter) ([]*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
}

type SnapshotRepo interface {
	Create(ctx context.Context, snapshot *Snapshot) error
	List(ctx context.Context, station string) ([]*Snapshot, error)
}

type WasteRepo interface {
	Create(ctx context.Context, report *WasteReport) error
	List(ctx context.Context, station string) ([]*WasteReport, error)
}

type Repos struct {
	ItemRepo     ItemRepo
	SnapshotRepo SnapshotRepo
	WasteRepo    WasteRepo
}
