package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/staffops/services/tasks/internal/tasks"
)

// SubmissionRepo reads submissions. Writes happen only through
// TaskRepo.CompleteTask.
type SubmissionRepo struct {
	collection *mongo.Collection
}

func NewSubmissionRepo(db *mongo.Database) *SubmissionRepo {
	return &SubmissionRepo{
		collection: db.Collection(submissionsCollection),
	}
}

func (r *SubmissionRepo) Get(ctx context.Context, id uuid.UUID) (*tasks.TaskSubmission, error) {
	var submission tasks.TaskSubmission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&submission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get submission: %w", err)
	}
	return &submission, nil
}

func (r *SubmissionRepo) List(ctx context.Context, filter tasks.SubmissionFilter) ([]*tasks.TaskSubmission, error) {
	query := bson.M{}
	if filter.TaskID != nil {
		query["task_id"] = *filter.TaskID
	}
	if filter.EmployeeID != "" {
		query["employee_id"] = filter.EmployeeID
	}
	if filter.Station != "" {
		query["station"] = filter.Station
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.From != nil || filter.To != nil {
		window := bson.M{}
		if filter.From != nil {
			window["$gte"] = *filter.From
		}
		if filter.To != nil {
			window["$lt"] = *filter.To
		}
		query["timestamp"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list submissions: %w", err)
	}
	defer cursor.Close(ctx)

	result := []*tasks.TaskSubmission{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode submissions: %w", err)
	}

	return result, nil
}
