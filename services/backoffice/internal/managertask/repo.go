package managertask

import (
	"context"

	"github.com/google/uuid"
)

type Filter struct {
	TaskType string
	Status   string
}

type TaskRepo interface {
	Create(ctx context.Context, task *Task) error
	Get(ctx context.Context, id uuid.UUID) (*Task, error)
	List(ctx context.Context, filter Filter) ([]*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}
