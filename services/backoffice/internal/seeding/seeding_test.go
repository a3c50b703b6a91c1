package seeding

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appetiteclub/staffops/services/backoffice/internal/inventory"
	"github.com/appetiteclub/staffops/services/backoffice/internal/managertask"
	"github.com/appetiteclub/staffops/services/backoffice/internal/recipes"
	"github.com/appetiteclub/staffops/services/backoffice/internal/staff"
)

type fakeRecipes struct {
	byName map[string]*recipes.Recipe
}

func (f *fakeRecipes) GetByName(ctx context.Context, name string) (*recipes.Recipe, error) {
	return f.byName[name], nil
}

func (f *fakeRecipes) Upsert(ctx context.Context, recipe *recipes.Recipe) error {
	f.byName[recipe.Name] = recipe
	return nil
}

type fakeItems struct {
	inventory.ItemRepo
	mu    sync.Mutex
	items []*inventory.Item
}

func (f *fakeItems) Create(ctx context.Context, item *inventory.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, item)
	return nil
}

func (f *fakeItems) List(ctx context.Context, filter inventory.ItemFilter) ([]*inventory.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []*inventory.Item{}
	for _, item := range f.items {
		if filter.Station == "" || item.Station == filter.Station {
			result = append(result, item)
		}
	}
	return result, nil
}

type fakeEmployees struct {
	staff.EmployeeRepo
	employees []*staff.Employee
}

func (f *fakeEmployees) Create(ctx context.Context, e *staff.Employee) error {
	for _, existing := range f.employees {
		if existing.Email == e.Email {
			return staff.ErrDuplicateEmail
		}
	}
	f.employees = append(f.employees, e)
	return nil
}

type fakeTasks struct {
	managertask.TaskRepo
	tasks []*managertask.Task
}

func (f *fakeTasks) Create(ctx context.Context, t *managertask.Task) error {
	f.tasks = append(f.tasks, t)
	return nil
}

func loadServiceSeeds(t *testing.T) *Document {
	t.Helper()
	raw, err := os.ReadFile("../../seed.json")
	require.NoError(t, err)
	doc, err := Load(fstest.MapFS{"seed.json": {Data: raw}})
	require.NoError(t, err)
	return doc
}

func newTargets() (Targets, *fakeRecipes, *fakeItems, *fakeEmployees, *fakeTasks) {
	r := &fakeRecipes{byName: map[string]*recipes.Recipe{}}
	i := &fakeItems{}
	e := &fakeEmployees{}
	m := &fakeTasks{}
	return Targets{
		Recipes:      r,
		Items:        i,
		Employees:    e,
		ManagerTasks: m,
		Policy:       inventory.DefaultThresholdPolicy(),
	}, r, i, e, m
}

func TestLoadServiceSeedFile(t *testing.T) {
	doc := loadServiceSeeds(t)
	assert.Len(t, doc.Recipes, 6)
	assert.Len(t, doc.Inventory, 12)
	assert.Len(t, doc.Demo.Employees, 6)
	assert.Len(t, doc.Demo.ManagerTasks, 4)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		fs   fstest.MapFS
	}{
		{name: "missing", fs: fstest.MapFS{}},
		{name: "empty", fs: fstest.MapFS{"seed.json": {Data: []byte{}}}},
		{name: "malformed", fs: fstest.MapFS{"seed.json": {Data: []byte("{")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.fs)
			assert.Error(t, err)
		})
	}
}

func TestDefinitions(t *testing.T) {
	doc := loadServiceSeeds(t)
	targets, _, _, _, _ := newTargets()

	base := Definitions(doc, targets, false, nil)
	assert.Len(t, base, 18)

	withDemo := Definitions(doc, targets, true, nil)
	assert.Len(t, withDemo, 28)

	ids := map[string]bool{}
	for _, d := range withDemo {
		assert.False(t, ids[d.ID], "duplicate seed id %s", d.ID)
		ids[d.ID] = true
	}
	assert.True(t, ids["2026-10-01_recipe_iced_latte"])
	assert.True(t, ids["2026-10-01_inventory_coffee_bar_paper_cups_16oz"])
}

func TestDefinitionsRun(t *testing.T) {
	doc := loadServiceSeeds(t)
	targets, r, items, employees, tasks := newTargets()

	for _, d := range Definitions(doc, targets, true, nil) {
		require.NoError(t, d.Run(context.Background()), d.ID)
	}

	assert.Len(t, r.byName, 6)
	assert.Equal(t, "Cold Drinks", r.byName["Iced Latte"].Category)
	assert.Len(t, r.byName["Matcha Latte"].Steps, 7)

	require.Len(t, items.items, 12)
	for _, item := range items.items {
		assert.Equal(t, item.Sealed+item.Loose, item.Delivered)
		if item.ProductName == "Salt" {
			assert.Equal(t, inventory.StatusCritical, item.Status)
		}
	}

	assert.Len(t, employees.employees, 6)
	assert.Len(t, tasks.tasks, 4)
}

func TestDefinitionsRunIsIdempotent(t *testing.T) {
	doc := loadServiceSeeds(t)
	targets, r, items, employees, _ := newTargets()

	first := map[string]uuid.UUID{}
	for round := 0; round < 2; round++ {
		for _, d := range Definitions(doc, targets, true, nil) {
			if strings.Contains(d.ID, "manager_task") {
				continue
			}
			require.NoError(t, d.Run(context.Background()))
		}
		for name, recipe := range r.byName {
			if round == 0 {
				first[name] = recipe.ID
			} else {
				assert.Equal(t, first[name], recipe.ID, "recipe %s keeps its id", name)
			}
		}
	}

	assert.Len(t, items.items, 12)
	assert.Len(t, employees.employees, 6)
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Iced Latte", want: "iced_latte"},
		{in: "Paper Cups (16oz)", want: "paper_cups_16oz"},
		{in: "coffee-bar", want: "coffee_bar"},
		{in: "  ", want: "seed"},
		{in: "!!!", want: "seed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Identifier(tt.in))
		})
	}
}
