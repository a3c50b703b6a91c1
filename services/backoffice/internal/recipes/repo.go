package recipes

import (
	"context"

	"github.com/google/uuid"
)

type RecipeRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*Recipe, error)
	List(ctx context.Context, category string) ([]*Recipe, error)
}

type ViewRepo interface {
	// Record inserts the view or refreshes the existing one for the same
	// recipe and employee.
	Record(ctx context.Context, view *View) (*View, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*View, error)
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]*View, error)
}
