// Package seeding loads the recipe catalog, the stocked products and,
// when seeding.demo is set, a demo staff roster into the backoffice store.
package seeding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/seed"

	"github.com/appetiteclub/staffops/services/backoffice/internal/inventory"
	"github.com/appetiteclub/staffops/services/backoffice/internal/managertask"
	"github.com/appetiteclub/staffops/services/backoffice/internal/recipes"
	"github.com/appetiteclub/staffops/services/backoffice/internal/staff"
)

const (
	application = "backoffice"
	seedBy      = "seed:bootstrap"
)

type Document struct {
	Recipes   []recipeSeed    `json:"recipes"`
	Inventory []inventorySeed `json:"inventory"`
	Demo      demoSeeds       `json:"demo"`
}

type recipeSeed struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	VideoDuration string   `json:"video_duration"`
	VideoURL      string   `json:"video_url"`
	Ingredients   []string `json:"ingredients"`
	Steps         []string `json:"steps"`
	Tools         []string `json:"tools"`
	Category      string   `json:"category"`
}

type inventorySeed struct {
	ProductName string `json:"product_name"`
	Unit        string `json:"unit"`
	Station     string `json:"station"`
	Sealed      int    `json:"sealed"`
	Loose       int    `json:"loose"`
}

type demoSeeds struct {
	Employees    []employeeSeed    `json:"employees"`
	ManagerTasks []managerTaskSeed `json:"manager_tasks"`
}

type employeeSeed struct {
	Name          string `json:"name"`
	Status        string `json:"status"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
	Role          string `json:"role"`
	JoinDate      string `json:"join_date"`
	Birthday      string `json:"birthday"`
}

type managerTaskSeed struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TaskType    string `json:"task_type"`
	Day         string `json:"day"`
}

// RecipeStore is the write side of the catalog; only seeding writes recipes.
type RecipeStore interface {
	GetByName(ctx context.Context, name string) (*recipes.Recipe, error)
	Upsert(ctx context.Context, recipe *recipes.Recipe) error
}

type Targets struct {
	Recipes      RecipeStore
	Items        inventory.ItemRepo
	Employees    staff.EmployeeRepo
	ManagerTasks managertask.TaskRepo
	Policy       inventory.ThresholdPolicy
	Tracker      seed.Tracker
}

func Load(seedFS fs.FS) (*Document, error) {
	raw, err := fs.ReadFile(seedFS, "seed.json")
	if err != nil {
		return nil, fmt.Errorf("read seed.json: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("backoffice seed file is empty")
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode backoffice seed file: %w", err)
	}
	return &doc, nil
}

// Apply runs every seed not yet recorded by the tracker.
func Apply(ctx context.Context, doc *Document, t Targets, demo bool, logger aqm.Logger) error {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if t.Tracker == nil {
		return errors.New("seed tracker is required")
	}

	defs := Definitions(doc, t, demo, logger)
	if len(defs) == 0 {
		logger.Info("No backoffice seeds to apply")
		return nil
	}

	logger.Info("Applying backoffice seeds", "count", len(defs), "demo", demo)
	return seed.Apply(ctx, t.Tracker, defs, application)
}

func Definitions(doc *Document, t Targets, demo bool, logger aqm.Logger) []seed.Seed {
	var defs []seed.Seed

	for _, r := range doc.Recipes {
		data := r
		if strings.TrimSpace(data.Name) == "" {
			logger.Info("Skipping seed recipe without name")
			continue
		}
		defs = append(defs, seed.Seed{
			ID:          fmt.Sprintf("2026-10-01_recipe_%s", Identifier(data.Name)),
			Description: fmt.Sprintf("Ensure recipe %q exists", data.Name),
			Run: func(ctx context.Context) error {
				return data.ensure(ctx, t.Recipes)
			},
		})
	}

	for _, i := range doc.Inventory {
		data := i
		if strings.TrimSpace(data.ProductName) == "" || data.Station == "" {
			logger.Info("Skipping seed item without product or station", "product", data.ProductName)
			continue
		}
		defs = append(defs, seed.Seed{
			ID:          fmt.Sprintf("2026-10-01_inventory_%s_%s", Identifier(data.Station), Identifier(data.ProductName)),
			Description: fmt.Sprintf("Ensure %s stocks %q", data.Station, data.ProductName),
			Run: func(ctx context.Context) error {
				return data.ensure(ctx, t.Items, t.Policy)
			},
		})
	}

	if !demo {
		return defs
	}

	for _, e := range doc.Demo.Employees {
		data := e
		defs = append(defs, seed.Seed{
			ID:          fmt.Sprintf("2026-10-01_demo_employee_%s", Identifier(data.Name)),
			Description: fmt.Sprintf("Ensure demo employee %q exists", data.Name),
			Run: func(ctx context.Context) error {
				return data.ensure(ctx, t.Employees)
			},
		})
	}

	for _, m := range doc.Demo.ManagerTasks {
		data := m
		defs = append(defs, seed.Seed{
			ID:          fmt.Sprintf("2026-10-01_demo_manager_task_%s", Identifier(data.Name)),
			Description: fmt.Sprintf("Ensure demo manager task %q exists", data.Name),
			Run: func(ctx context.Context) error {
				return data.ensure(ctx, t.ManagerTasks)
			},
		})
	}

	return defs
}

// Identifier turns a display name into a seed id fragment.
func Identifier(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range value {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore && b.Len() > 0:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	result := strings.TrimSuffix(b.String(), "_")
	if result == "" {
		return "seed"
	}
	return result
}

func (s recipeSeed) ensure(ctx context.Context, store RecipeStore) error {
	if store == nil {
		return errors.New("recipe store is required")
	}
	existing, err := store.GetByName(ctx, s.Name)
	if err != nil {
		return fmt.Errorf("lookup seed recipe %s: %w", s.Name, err)
	}

	recipe := &recipes.Recipe{
		ID:            aqm.GenerateNewID(),
		Name:          s.Name,
		Description:   s.Description,
		ImageURL:      s.ImageURL,
		VideoDuration: s.VideoDuration,
		VideoURL:      s.VideoURL,
		Ingredients:   nonNil(s.Ingredients),
		Steps:         nonNil(s.Steps),
		Tools:         nonNil(s.Tools),
		Category:      s.Category,
	}
	if existing != nil {
		recipe.ID = existing.ID
	}
	return store.Upsert(ctx, recipe)
}

func (s inventorySeed) ensure(ctx context.Context, repo inventory.ItemRepo, policy inventory.ThresholdPolicy) error {
	if repo == nil {
		return errors.New("inventory repository is required")
	}
	stocked, err := repo.List(ctx, inventory.ItemFilter{Station: s.Station})
	if err != nil {
		return fmt.Errorf("lookup seed item %s: %w", s.ProductName, err)
	}
	for _, item := range stocked {
		if strings.EqualFold(item.ProductName, s.ProductName) {
			return nil
		}
	}

	item := inventory.NewItem()
	item.ProductName = s.ProductName
	item.Unit = s.Unit
	item.Station = s.Station
	item.Sealed = s.Sealed
	item.Loose = s.Loose
	item.Derive()
	item.DateDelivered = inventory.DateOf(time.Now())
	item.Status = policy.Classify(item)
	item.CreatedBy = seedBy
	item.UpdatedBy = seedBy
	item.BeforeCreate()

	return repo.Create(ctx, item)
}

func (s employeeSeed) ensure(ctx context.Context, repo staff.EmployeeRepo) error {
	if repo == nil {
		return errors.New("employee repository is required")
	}
	employee := staff.NewEmployee(s.Name, s.Status)
	employee.Email = strings.ToLower(s.Email)
	employee.ContactNumber = s.ContactNumber
	employee.Role = s.Role
	employee.JoinDate = s.JoinDate
	employee.Birthday = s.Birthday
	employee.BeforeCreate()

	if err := repo.Create(ctx, employee); err != nil && !errors.Is(err, staff.ErrDuplicateEmail) {
		return fmt.Errorf("create seed employee %s: %w", s.Name, err)
	}
	return nil
}

func (s managerTaskSeed) ensure(ctx context.Context, repo managertask.TaskRepo) error {
	if repo == nil {
		return errors.New("manager task repository is required")
	}
	task := managertask.NewTask(s.Name, s.Description, s.TaskType, time.Now())
	task.Day = s.Day
	task.AssignedBy = seedBy
	return repo.Create(ctx, task)
}

// Func returns a lifecycle OnStart function that applies seeds in the
// background so a slow store never blocks startup.
func Func(seedCtx context.Context, seedFS fs.FS, t Targets, demo bool, logger aqm.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return func(ctx context.Context) error {
		doc, err := Load(seedFS)
		if err != nil {
			return err
		}
		logger.Info("Starting backoffice seeding in background")
		go func() {
			if err := Apply(seedCtx, doc, t, demo, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("Backoffice seeds failed: %v", err)
			} else if err == nil {
				logger.Info("Backoffice seeding completed")
			}
		}()
		return nil
	}
}

// StopFunc cancels background seeding on shutdown.
func StopFunc(cancel context.CancelFunc) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if cancel != nil {
			cancel()
		}
		return nil
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
