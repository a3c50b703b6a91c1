package tasks

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/seed"
	"go.mongodb.org/mongo-driver/mongo"
)

const taskSeedApplication = "tasks"

type bootstrapSeedDocument struct {
	Tasks []taskSeed `json:"tasks"`
}

type taskSeed struct {
	Name        string `json:"name"`
	QRCodeID    string `json:"qr_code_id"`
	Station     string `json:"station"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Position    int    `json:"position"`
	Repetition  string `json:"repetition"`
}

func loadTaskSeeds(seedFS embed.FS) ([]taskSeed, error) {
	seedBytes, err := seedFS.ReadFile("seed.json")
	if err != nil {
		return nil, fmt.Errorf("read seed.json: %w", err)
	}

	if len(seedBytes) == 0 {
		return nil, errors.New("task seed file is empty")
	}

	var doc bootstrapSeedDocument
	if err := json.Unmarshal(seedBytes, &doc); err != nil {
		return nil, fmt.Errorf("decode task seed file: %w", err)
	}

	if len(doc.Tasks) == 0 {
		return nil, errors.New("task seed file does not contain tasks")
	}

	return doc.Tasks, nil
}

// ApplyTaskSeeds ensures the standard opening and closing checklist exists.
func ApplyTaskSeeds(ctx context.Context, repo TaskRepo, seedFS embed.FS, logger aqm.Logger) error {
	if repo == nil {
		return errors.New("task repository is required")
	}

	seedDocs, err := loadTaskSeeds(seedFS)
	if err != nil {
		return err
	}

	seedDefs := buildTaskSeedDefinitions(seedDocs, repo, logger)
	if len(seedDefs) == 0 {
		logger.Info("No task seeds to apply")
		return nil
	}

	tracker, err := trackerFromRepo(repo)
	if err != nil {
		return err
	}

	logger.Info("Applying task seeds", "count", len(seedDefs))
	if err := seed.Apply(ctx, tracker, seedDefs, taskSeedApplication); err != nil {
		return err
	}
	logger.Info("Task seeds applied successfully")
	return nil
}

func trackerFromRepo(repo TaskRepo) (seed.Tracker, error) {
	provider, ok := repo.(mongoDatabaseProvider)
	if !ok {
		return nil, errors.New("task repository does not expose MongoDB access for seeding")
	}
	db := provider.GetDatabase()
	if db == nil {
		return nil, errors.New("task repository database is not initialized")
	}
	return seed.NewMongoTracker(db), nil
}

type mongoDatabaseProvider interface {
	GetDatabase() *mongo.Database
}

func buildTaskSeedDefinitions(raw []taskSeed, repo TaskRepo, logger aqm.Logger) []seed.Seed {
	var defs []seed.Seed

	for _, s := range raw {
		seedData := s
		if strings.TrimSpace(seedData.QRCodeID) == "" || strings.TrimSpace(seedData.Name) == "" {
			logger.Info("Skipping seed task without name or qr code", "name", seedData.Name)
			continue
		}

		defs = append(defs, seed.Seed{
			ID:          fmt.Sprintf("2026-10-01_task_%s", seedIdentifier(seedData.QRCodeID)),
			Description: fmt.Sprintf("Ensure task %q (%s) exists", seedData.Name, seedData.QRCodeID),
			Run: func(ctx context.Context) error {
				return seedData.ensureTask(ctx, repo, logger)
			},
		})
	}

	return defs
}

func seedIdentifier(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}

	replacer := strings.NewReplacer("-", "_", " ", "_", "/", "_", "\\", "_")
	value = replacer.Replace(value)

	var builder strings.Builder
	for _, r := range value {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			builder.WriteRune(r)
		}
	}

	result := builder.String()
	if result == "" {
		return "seed"
	}
	return result
}

func (s taskSeed) ensureTask(ctx context.Context, repo TaskRepo, logger aqm.Logger) error {
	code := strings.TrimSpace(s.QRCodeID)

	existing, err := repo.GetByQRCode(ctx, code)
	if err != nil {
		return fmt.Errorf("lookup seed task %s: %w", code, err)
	}
	if existing != nil {
		logger.Debug("Seed task already exists", "qr_code_id", code)
		return nil
	}

	task := NewTask()
	task.Name = strings.TrimSpace(s.Name)
	task.QRCodeID = code
	task.Station = s.Station
	task.Category = s.Category
	task.Description = s.Description
	task.Position = s.Position
	task.Repetition = s.Repetition
	task.CreatedBy = "seed:bootstrap"
	task.UpdatedBy = "seed:bootstrap"
	task.BeforeCreate()

	if err := repo.Create(ctx, task); err != nil {
		if errors.Is(err, ErrDuplicateQRCode) {
			return nil
		}
		return fmt.Errorf("create seed task %s: %w", code, err)
	}

	logger.Debug("Seed task created", "qr_code_id", code, "id", task.ID.String())
	return nil
}

// SeedingFunc returns a lifecycle OnStart function that applies task seeds
// in the background.
func SeedingFunc(seedCtx context.Context, repo TaskRepo, seedFS embed.FS, logger aqm.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	return func(ctx context.Context) error {
		logger.Info("Starting task seeding in background")
		go func() {
			if err := ApplyTaskSeeds(seedCtx, repo, seedFS, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("Task seeds failed: %v", err)
			} else if err == nil {
				logger.Info("Task seeding completed")
			}
		}()
		return nil
	}
}

// StopFunc cancels background seeding on shutdown.
func StopFunc(cancelFunc context.CancelFunc) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if cancelFunc != nil {
			cancelFunc()
		}
		return nil
	}
}
