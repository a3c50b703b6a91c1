package requests

import (
	"context"

	"github.com/google/uuid"
)

type Filter struct {
	Status   string
	Priority string
}

type RequestRepo interface {
	Create(ctx context.Context, req *ItemRequest) error
	Get(ctx context.Context, id uuid.UUID) (*ItemRequest, error)
	List(ctx context.Context, filter Filter) ([]*ItemRequest, error)
	// SaveReview stores the decision only while the request is pending,
	// otherwise it fails with reviewstatus.ErrNotPending.
	SaveReview(ctx context.Context, req *ItemRequest) error
}
