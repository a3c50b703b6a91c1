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
	"github.com/aquamarinepk/aqm/middleware"
	"github.com/joho/godotenv"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/appetiteclub/staffops/pkg"
	"github.com/appetiteclub/staffops/pkg/auth"
	"github.com/appetiteclub/staffops/services/tasks/internal/mongo"
	"github.com/appetiteclub/staffops/services/tasks/internal/storage"
	"github.com/appetiteclub/staffops/services/tasks/internal/tasks"
)

//go:embed seed.json
var seedFS embed.FS

const (
	appNamespace = "TASKS"
	appName      = "tasks"
	appVersion   = "0.1.0"
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

	taskRepo := mongo.NewTaskRepo(config, logger)
	err = taskRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start task repository: %v", appName, appVersion, err)
	}

	db := taskRepo.GetDatabase()
	if db == nil {
		err := errors.New("cannot get task repo database")
		log.Fatalf("%s(%s) cannot initialize database: %v", appName, appVersion, err)
	}

	submissionRepo := mongo.NewSubmissionRepo(db)

	photos, err := storage.FromProperties(config, func() *mongodriver.Database { return taskRepo.GetDatabase() })
	if err != nil {
		log.Fatalf("%s(%s) cannot setup photo storage: %v", appName, appVersion, err)
	}

	publisher, closePublisher, err := pkg.NewPublisherFromConfig(ctx, config, appName, logger)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}
	lifecycle = append(lifecycle, aqm.LifecycleHooks{OnStop: closePublisher})

	sessions := tasks.NewSessionStore(pkg.DurationOrDef(config, "submission.session.ttl", tasks.DefaultSessionTTL))
	lifecycle = append(lifecycle, sessions)

	submitter := tasks.NewSubmitter(
		taskRepo,
		photos,
		sessions,
		publisher,
		tasks.SubmitterOptions{
			UploadTimeout: pkg.DurationOrDef(config, "submission.upload.timeout", tasks.DefaultUploadTimeout),
			UploadRetries: pkg.IntOrDef(config, "submission.upload.retries", tasks.DefaultUploadRetries),
			UploadBackoff: pkg.DurationOrDef(config, "submission.upload.backoff", tasks.DefaultUploadBackoff),
		},
		logger,
	)

	guard := auth.NewGuard(config, logger)

	repos := tasks.Repos{
		TaskRepo:       taskRepo,
		SubmissionRepo: submissionRepo,
	}

	hd := tasks.HandlerDeps{
		Repos:     repos,
		Submitter: submitter,
		Photos:    photos,
		Publisher: publisher,
		Guard:     guard,
	}

	handler := tasks.NewHandler(
		hd,
		config,
		logger,
	)

	seedHooks := aqm.LifecycleHooks{
		OnStart: tasks.SeedingFunc(seedCtx, taskRepo, seedFS, logger),
		OnStop:  tasks.StopFunc(cancelSeeds),
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
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithLifecycle(lifecycle...),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		_ = taskRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	_ = taskRepo.Stop(context.Background())
	logger.Infof("%s(%s) stopped", appName, appVersion)
}
