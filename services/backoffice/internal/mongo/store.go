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
)

const (
	defaultURL  = "mongodb://localhost:27017"
	defaultName = "staffops_backoffice"

	itemsCollection         = "inventory_items"
	snapshotsCollection     = "inventory_snapshots"
	wasteCollection         = "inventory_waste"
	reportsCollection       = "financial_reports"
	fundsCollection         = "manager_funds"
	expensesCollection      = "expenses"
	apepoCollection         = "apepo_reports"
	payrollCollection       = "payroll_entries"
	requestsCollection      = "requests"
	employeesCollection     = "employees"
	recipesCollection       = "recipes"
	recipeViewsCollection   = "recipe_views"
	managerTasksCollection  = "manager_tasks"
	notificationsCollection = "notifications"
)

// Store owns the MongoDB client shared by every backoffice repository.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger aqm.Logger
	config *aqm.Config
}

func NewStore(config *aqm.Config, logger aqm.Logger) *Store {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Store{
		logger: logger,
		config: config,
	}
}

func (s *Store) Start(ctx context.Context) error {
	connString := s.config.GetStringOrDef("db.mongo.url", defaultURL)
	if connString == "" {
		connString = defaultURL
	}

	dbName := s.config.GetStringOrDef("db.mongo.name", defaultName)
	if dbName == "" {
		dbName = defaultName
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

	s.client = client
	s.db = client.Database(dbName)

	if err := s.ensureIndexes(ctx); err != nil {
		return err
	}

	s.logger.Infof("Connected to MongoDB: %s, database: %s", connString, dbName)
	return nil
}

func (s *Store) Stop(ctx context.Context) error {
	if s.client != nil {
		if err := s.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		s.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

func (s *Store) GetDatabase() *mongo.Database {
	return s.db
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	for collection, models := range indexModels() {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("cannot create %s indexes: %w", collection, err)
		}
	}
	return nil
}

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		itemsCollection: {
			{Keys: bson.D{{Key: "station", Value: 1}, {Key: "product_name", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		snapshotsCollection: {
			{Keys: bson.D{{Key: "station", Value: 1}, {Key: "submitted_at", Value: -1}}},
		},
		wasteCollection: {
			{Keys: bson.D{{Key: "station", Value: 1}, {Key: "reported_at", Value: -1}}},
		},
		reportsCollection: {
			{Keys: bson.D{{Key: "shift_date", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		fundsCollection: {
			{Keys: bson.D{{Key: "date", Value: -1}}},
		},
		expensesCollection: {
			{Keys: bson.D{{Key: "date", Value: -1}}},
		},
		apepoCollection: {
			{Keys: bson.D{{Key: "date", Value: -1}}},
		},
		payrollCollection: {
			{Keys: bson.D{{Key: "period", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		requestsCollection: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: 1}}},
		},
		employeesCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "name", Value: 1}}},
		},
		recipesCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}},
		},
		recipeViewsCollection: {
			{
				Keys:    bson.D{{Key: "recipe_id", Value: 1}, {Key: "employee_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "watched_at", Value: -1}}},
		},
		managerTasksCollection: {
			{Keys: bson.D{{Key: "task_type", Value: 1}, {Key: "status", Value: 1}}},
		},
		notificationsCollection: {
			{
				Keys:    bson.D{{Key: "source_key", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
			{Keys: bson.D{{Key: "read", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, what string) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get %s: %w", what, err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts *options.FindOptions, what string) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list %s: %w", what, err)
	}
	defer cursor.Close(ctx)

	result := []*T{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", what, err)
	}
	return result, nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id uuid.UUID, doc interface{}, notFound error) error {
	result, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return notFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id uuid.UUID, notFound error) error {
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return notFound
	}
	return nil
}

// saveReview applies a review only to a pending document. A miss is either
// an unknown id or a review that already happened.
func saveReview(ctx context.Context, coll *mongo.Collection, id uuid.UUID, pending string, set bson.M, notFound, notPending error) error {
	filter := bson.M{"_id": id, "status": pending}
	result, err := coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("cannot save review: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	count, err := coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot check review target: %w", err)
	}
	if count == 0 {
		return notFound
	}
	return notPending
}

// dateOrder sorts newest day first, then newest submission within the day.
func dateOrder(dateField, timeField string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: dateField, Value: -1}, {Key: timeField, Value: -1}})
}
