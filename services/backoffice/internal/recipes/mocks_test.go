package recipes

import (
	"context"
	"sync"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

type MockRecipeRepo struct {
	recipes []*Recipe
}

func (m *MockRecipeRepo) Get(ctx context.Context, id uuid.UUID) (*Recipe, error) {
	for _, r := range m.recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *MockRecipeRepo) List(ctx context.Context, category string) ([]*Recipe, error) {
	result := []*Recipe{}
	for _, r := range m.recipes {
		if category == "" || r.Category == category {
			result = append(result, r)
		}
	}
	return result, nil
}

type MockViewRepo struct {
	mu    sync.Mutex
	views []*View
}

func (m *MockViewRepo) Record(ctx context.Context, view *View) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.views {
		if v.RecipeID == view.RecipeID && v.EmployeeID == view.EmployeeID {
			v.WatchedAt = view.WatchedAt
			v.EmployeeName = view.EmployeeName
			c := *v
			return &c, nil
		}
	}
	c := *view
	m.views = append(m.views, &c)
	return view, nil
}

func (m *MockViewRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*View{}
	for _, v := range m.views {
		if v.EmployeeID == employeeID {
			result = append(result, v)
		}
	}
	return result, nil
}

func (m *MockViewRepo) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*View{}
	for _, v := range m.views {
		if v.RecipeID == recipeID {
			result = append(result, v)
		}
	}
	return result, nil
}

func catalog() []*Recipe {
	recipe := func(name, description, category string) *Recipe {
		return &Recipe{
			ID:          aqm.GenerateNewID(),
			Name:        name,
			Description: description,
			Category:    category,
			Ingredients: []string{},
			Steps:       []string{},
			Tools:       []string{},
		}
	}
	return []*Recipe{
		recipe("Iced Latte", "3-step espresso-based cold drink", "Cold Drinks"),
		recipe("Cappuccino", "Classic Italian espresso with foam", "Hot Drinks"),
		recipe("Espresso Shot", "Perfect single or double shot", "Hot Drinks"),
		recipe("Latte Art Basics", "Master the heart and rosetta", "Techniques"),
		recipe("Mocha", "Chocolate espresso indulgence", "Hot Drinks"),
		recipe("Matcha Latte", "Smooth green tea latte", "Hot Drinks"),
	}
}
