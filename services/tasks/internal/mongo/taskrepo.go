package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/staffops/pkg/enums/taskstatus"
	"github.com/appetiteclub/staffops/services/tasks/internal/tasks"
)

const (
	tasksCollection       = "tasks"
	submissionsCollection = "task_submissions"

	// IllegalOperation, returned by standalone servers for transactions.
	codeIllegalOperation = 20
)

type TaskRepo struct {
	client      *mongo.Client
	db          *mongo.Database
	collection  *mongo.Collection
	submissions *mongo.Collection
	logger      aqm.Logger
	config      *aqm.Config
}

func NewTaskRepo(config *aqm.Config, logger aqm.Logger) *TaskRepo {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &TaskRepo{
		logger: logger,
		config: config,
	}
}

func (r *TaskRepo) Start(ctx context.Context) error {
	mongoURL, _ := r.config.GetString("db.mongo.url")
	connString := mongoURL
	if connString == "" {
		connString = "mongodb://localhost:27017"
	}

	dbName, _ := r.config.GetString("db.mongo.name")
	if dbName == "" {
		dbName = "staffops_tasks"
	}

	clientOptions := options.Client().ApplyURI(connString).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	r.client = client
	r.db = client.Database(dbName)
	r.collection = r.db.Collection(tasksCollection)
	r.submissions = r.db.Collection(submissionsCollection)

	taskIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "qr_code_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "station", Value: 1}, {Key: "category", Value: 1}, {Key: "position", Value: 1}},
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, taskIndexes); err != nil {
		return fmt.Errorf("cannot create task indexes: %w", err)
	}

	submissionIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "task_id", Value: 1}}},
	}
	if _, err := r.submissions.Indexes().CreateMany(ctx, submissionIndexes); err != nil {
		return fmt.Errorf("cannot create submission indexes: %w", err)
	}

	r.logger.Infof("Connected to MongoDB: %s, database: %s, collections: %s, %s", connString, dbName, tasksCollection, submissionsCollection)
	return nil
}

func (r *TaskRepo) Stop(ctx context.Context) error {
	if r.client != nil {
		if err := r.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		r.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

func (r *TaskRepo) GetDatabase() *mongo.Database {
	return r.db
}

func (r *TaskRepo) Create(ctx context.Context, task *tasks.Task) error {
	if task == nil {
		return fmt.Errorf("task is nil")
	}

	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("qr code %s: %w", task.QRCodeID, tasks.ErrDuplicateQRCode)
		}
		return fmt.Errorf("cannot create task: %w", err)
	}

	return nil
}

func (r *TaskRepo) Get(ctx context.Context, id uuid.UUID) (*tasks.Task, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *TaskRepo) GetByQRCode(ctx context.Context, code string) (*tasks.Task, error) {
	return r.findOne(ctx, bson.M{"qr_code_id": code})
}

func (r *TaskRepo) findOne(ctx context.Context, filter bson.M) (*tasks.Task, error) {
	var task tasks.Task
	err := r.collection.FindOne(ctx, filter).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepo) List(ctx context.Context, filter tasks.TaskFilter) ([]*tasks.Task, error) {
	query := bson.M{}
	if filter.Station != "" {
		query["station"] = filter.Station
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "station", Value: 1},
		{Key: "category", Value: -1},
		{Key: "position", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	result := []*tasks.Task{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode tasks: %w", err)
	}

	return result, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete task: %w", err)
	}

	if result.DeletedCount == 0 {
		return tasks.ErrTaskNotFound
	}

	return nil
}

// CompleteTask flips the task from pending to completed and inserts the
// submission inside one transaction. Standalone servers without
// transaction support get a conditional update followed by the insert,
// reverting the update if the insert fails.
func (r *TaskRepo) CompleteTask(ctx context.Context, submission *tasks.TaskSubmission) (*tasks.Task, error) {
	if submission == nil {
		return nil, fmt.Errorf("submission is nil")
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("cannot start mongo session: %w", err)
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	result, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		task, err := r.markCompleted(sc, submission)
		if err != nil {
			return nil, err
		}
		if _, err := r.submissions.InsertOne(sc, submission); err != nil {
			return nil, fmt.Errorf("cannot insert submission: %w", err)
		}
		return task, nil
	})
	if err != nil {
		if transactionsUnsupported(err) {
			r.logger.Debug("transactions unsupported, completing without one", "task_id", submission.TaskID.String())
			return r.completeWithoutTransaction(ctx, submission)
		}
		return nil, err
	}

	return result.(*tasks.Task), nil
}

func (r *TaskRepo) completeWithoutTransaction(ctx context.Context, submission *tasks.TaskSubmission) (*tasks.Task, error) {
	task, err := r.markCompleted(ctx, submission)
	if err != nil {
		return nil, err
	}

	if _, err := r.submissions.InsertOne(ctx, submission); err != nil {
		revert := bson.M{
			"$set":   bson.M{"status": taskstatus.Statuses.Pending.Code()},
			"$unset": bson.M{"completed_at": "", "completed_by": ""},
		}
		filter := bson.M{"_id": submission.TaskID, "status": taskstatus.Statuses.Completed.Code()}
		if _, rerr := r.collection.UpdateOne(context.WithoutCancel(ctx), filter, revert); rerr != nil {
			r.logger.Error("cannot revert task completion", "task_id", submission.TaskID.String(), "error", rerr)
		}
		return nil, fmt.Errorf("cannot insert submission: %w", err)
	}

	return task, nil
}

// markCompleted only matches a pending task, so two racing submissions
// cannot both win.
func (r *TaskRepo) markCompleted(ctx context.Context, submission *tasks.TaskSubmission) (*tasks.Task, error) {
	filter := bson.M{
		"_id":    submission.TaskID,
		"status": taskstatus.Statuses.Pending.Code(),
	}
	update := bson.M{"$set": bson.M{
		"status":       taskstatus.Statuses.Completed.Code(),
		"completed_at": submission.Timestamp,
		"completed_by": submission.ConfirmedName,
		"updated_at":   submission.Timestamp,
		"updated_by":   submission.ConfirmedName,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var task tasks.Task
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&task)
	if err == nil {
		return &task, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("cannot complete task: %w", err)
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": submission.TaskID})
	if err != nil {
		return nil, fmt.Errorf("cannot check task: %w", err)
	}
	if count == 0 {
		return nil, tasks.ErrTaskNotFound
	}
	return nil, tasks.ErrTaskAlreadyCompleted
}

func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == codeIllegalOperation
	}
	return false
}
