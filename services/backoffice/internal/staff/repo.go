package staff

import (
	"context"

	"github.com/google/uuid"
)

type EmployeeRepo interface {
	Create(ctx context.Context, employee *Employee) error
	Get(ctx context.Context, id uuid.UUID) (*Employee, error)
	List(ctx context.Context, status string) ([]*Employee, error)
	Update(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}
