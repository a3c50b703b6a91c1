package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/staffops/services/backoffice/internal/recipes"
)

type RecipeRepo struct {
	collection *mongo.Collection
}

func NewRecipeRepo(db *mongo.Database) *RecipeRepo {
	return &RecipeRepo{collection: db.Collection(recipesCollection)}
}

func (r *RecipeRepo) Get(ctx context.Context, id uuid.UUID) (*recipes.Recipe, error) {
	return findOne[recipes.Recipe](ctx, r.collection, bson.M{"_id": id}, "recipe")
}

func (r *RecipeRepo) GetByName(ctx context.Context, name string) (*recipes.Recipe, error) {
	return findOne[recipes.Recipe](ctx, r.collection, bson.M{"name": name}, "recipe")
}

func (r *RecipeRepo) List(ctx context.Context, category string) ([]*recipes.Recipe, error) {
	query := bson.M{}
	if category != "" {
		query["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll[recipes.Recipe](ctx, r.collection, query, opts, "recipes")
}

// Upsert stores a catalog recipe keyed by name; seeding is its only writer.
func (r *RecipeRepo) Upsert(ctx context.Context, recipe *recipes.Recipe) error {
	set := bson.M{
		"description":    recipe.Description,
		"image_url":      recipe.ImageURL,
		"video_duration": recipe.VideoDuration,
		"video_url":      recipe.VideoURL,
		"ingredients":    recipe.Ingredients,
		"steps":          recipe.Steps,
		"tools":          recipe.Tools,
		"category":       recipe.Category,
	}
	update := bson.M{"$set": set, "$setOnInsert": bson.M{"_id": recipe.ID}}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"name": recipe.Name}, update, opts); err != nil {
		return fmt.Errorf("cannot upsert recipe %s: %w", recipe.Name, err)
	}
	return nil
}

type ViewRepo struct {
	collection *mongo.Collection
}

func NewViewRepo(db *mongo.Database) *ViewRepo {
	return &ViewRepo{collection: db.Collection(recipeViewsCollection)}
}

func (r *ViewRepo) Record(ctx context.Context, view *recipes.View) (*recipes.View, error) {
	if view == nil {
		return nil, fmt.Errorf("recipe view is nil")
	}

	filter := bson.M{"recipe_id": view.RecipeID, "employee_id": view.EmployeeID}
	update := bson.M{
		"$set": bson.M{
			"recipe_name":   view.RecipeName,
			"employee_name": view.EmployeeName,
			"watched_at":    view.WatchedAt,
		},
		"$setOnInsert": bson.M{"_id": view.ID},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored recipes.View
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("cannot record recipe view: %w", err)
	}
	return &stored, nil
}

func (r *ViewRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*recipes.View, error) {
	opts := options.Find().SetSort(bson.D{{Key: "watched_at", Value: -1}})
	return findAll[recipes.View](ctx, r.collection, bson.M{"employee_id": employeeID}, opts, "recipe views")
}

func (r *ViewRepo) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]*recipes.View, error) {
	opts := options.Find().SetSort(bson.D{{Key: "watched_at", Value: -1}})
	return findAll[recipes.View](ctx, r.collection, bson.M{"recipe_id": recipeID}, opts, "recipe views")
}
