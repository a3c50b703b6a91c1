package main

import (
	"context"
	"embed"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/aquamarinepk/aqm/middleware"
	"github.com/aquamarinepk/aqm/seed"
	"github.com/joho/godotenv"

	"github.com/appetiteclub/staffops/pkg"
	"github.com/appetiteclub/staffops/pkg/auth"
	"github.com/appetiteclub/staffops/services/backoffice/internal/finance"
	"github.com/appetiteclub/staffops/services/backoffice/internal/inventory"
	"github.com/appetiteclub/staffops/services/backoffice/internal/managertask"
	"github.com/appetiteclub/staffops/services/backoffice/internal/mongo"
	"github.com/appetiteclub/staffops/services/backoffice/internal/notifications"
	"github.com/appetiteclub/staffops/services/backoffice/internal/payroll"
	"github.com/appetiteclub/staffops/services/backoffice/internal/recipes"
	"github.com/appetiteclub/staffops/services/backoffice/internal/requests"
	"github.com/appetiteclub/staffops/services/backoffice/internal/seeding"
	"github.com/appetiteclub/staffops/services/backoffice/internal/staff"
)

//go:embed seed.json
var seedFS embed.FS

const (
	appNamespace = "BACKOFFICE"
	appName      = "backoffice"
	appVersion   = "0.1.0"

	notificationsConsumer = "backoffice-notifications"
)

func main() {
	_ = godotenv.Load()

	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup with error: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	seedCtx, cancelSeeds := context.WithCancel(ctx)
	defer cancelSeeds()

	lifecycle := []interface{}{}

	store := mongo.NewStore(config, logger)
	if err := store.Start(ctx); err != nil {
		log.Fatalf("%s(%s) cannot start store: %v", appName, appVersion, err)
	}

	db := store.GetDatabase()
	if db == nil {
		err := errors.New("cannot get backoffice database")
		log.Fatalf("%s(%s) cannot initialize database: %v", appName, appVersion, err)
	}

	inventoryRepos := mongo.NewInventoryRepos(db)
	financeRepos := mongo.NewFinanceRepos(db)
	payrollRepo := mongo.NewPayrollRepo(db)
	requestRepo := mongo.NewRequestRepo(db)
	employeeRepo := mongo.NewEmployeeRepo(db)
	recipeRepo := mongo.NewRecipeRepo(db)
	viewRepo := mongo.NewViewRepo(db)
	managerTaskRepo := mongo.NewManagerTaskRepo(db)
	notificationRepo := mongo.NewNotificationRepo(db)

	publisher, closePublisher, err := pkg.NewPublisherFromConfig(ctx, config, appName, logger)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}
	lifecycle = append(lifecycle, aqm.LifecycleHooks{OnStop: closePublisher})

	subscriber, closeSubscriber, err := newSubscriber(ctx, config, logger)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	consumer := notifications.NewConsumer(subscriber, notificationRepo, logger)
	lifecycle = append(lifecycle, aqm.LifecycleHooks{
		OnStart: consumer.Start,
		OnStop:  closeSubscriber,
	})

	guard := auth.NewGuard(config, logger)
	policy := inventory.PolicyFromConfig(config)

	inventoryHandler := inventory.NewHandler(inventory.HandlerDeps{
		Repos:     inventoryRepos,
		Policy:    policy,
		Publisher: publisher,
		Guard:     guard,
	}, config, logger)
	financeHandler := finance.NewHandler(finance.HandlerDeps{
		Repos:     financeRepos,
		Publisher: publisher,
		Guard:     guard,
	}, config, logger)
	payrollHandler := payroll.NewHandler(payrollRepo, guard, config, logger)
	requestHandler := requests.NewHandler(requestRepo, publisher, guard, config, logger)
	staffHandler := staff.NewHandler(employeeRepo, guard, config, logger)
	recipeHandler := recipes.NewHandler(recipeRepo, viewRepo, guard, config, logger)
	managerTaskHandler := managertask.NewHandler(managerTaskRepo, guard, config, logger)
	notificationHandler := notifications.NewHandler(notificationRepo, guard, config, logger)

	targets := seeding.Targets{
		Recipes:      recipeRepo,
		Items:        inventoryRepos.ItemRepo,
		Employees:    employeeRepo,
		ManagerTasks: managerTaskRepo,
		Policy:       policy,
		Tracker:      seed.NewMongoTracker(db),
	}
	seedHooks := aqm.LifecycleHooks{
		OnStart: seeding.Func(seedCtx, seedFS, targets, pkg.BoolOrDef(config, "seeding.demo", false), logger),
		OnStop:  seeding.StopFunc(cancelSeeds),
	}
	lifecycle = append(lifecycle, seedHooks)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true,
	})
	stack = append(stack, middleware.InternalOnly(), guard.Authenticate)

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port",
			inventoryHandler,
			financeHandler,
			payrollHandler,
			requestHandler,
			staffHandler,
			recipeHandler,
			managerTaskHandler,
			notificationHandler,
		),
		aqm.WithLifecycle(lifecycle...),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		_ = store.Stop(context.Background())
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	_ = store.Stop(context.Background())
	logger.Infof("%s(%s) stopped", appName, appVersion)
}

type closableSubscriber interface {
	events.Subscriber
	Close() error
}

// newSubscriber uses a durable JetStream consumer when nats.stream.enabled
// is set, so notifications published while the backoffice is down still
// arrive.
func newSubscriber(ctx context.Context, config *aqm.Config, logger aqm.Logger) (events.Subscriber, func(context.Context) error, error) {
	natsURL := config.GetStringOrDef("nats.url", pkg.DefaultNATSURL)

	var (
		sub closableSubscriber
		err error
	)
	if pkg.BoolOrDef(config, "nats.stream.enabled", false) {
		sub, err = pkg.NewNATSStream(ctx, pkg.StaffStreamConfig(natsURL, appName, notificationsConsumer), logger)
	} else {
		sub, err = pkg.NewNATSSubscriber(natsURL, appName, logger)
	}
	if err != nil {
		return nil, nil, err
	}

	return sub, func(context.Context) error { return sub.Close() }, nil
}
