package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/staffops/services/backoffice/internal/inventory"
)

type ItemRepo struct {
	collection *mongo.Collection
}

func NewItemRepo(db *mongo.Database) *ItemRepo {
	return &ItemRepo{collection: db.Collection(itemsCollection)}
}

func (r *ItemRepo) Create(ctx context.Context, item *inventory.Item) error {
	if item == nil {
		return fmt.Errorf("inventory item is nil")
	}
	item.Derive()
	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("cannot create inventory item: %w", err)
	}
	return nil
}

func (r *ItemRepo) Get(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	item, err := findOne[inventory.Item](ctx, r.collection, bson.M{"_id": id}, "inventory item")
	if item != nil {
		item.Derive()
	}
	return item, err
}

func (r *ItemRepo) List(ctx context.Context, filter inventory.ItemFilter) ([]*inventory.Item, error) {
	query := bson.M{}
	if filter.Station != "" {
		query["station"] = filter.Station
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "station", Value: 1}, {Key: "product_name", Value: 1}})
	items, err := findAll[inventory.Item](ctx, r.collection, query, opts, "inventory items")
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.Derive()
	}
	return items, nil
}

func (r *ItemRepo) Update(ctx context.Context, item *inventory.Item) error {
	if item == nil {
		return fmt.Errorf("inventory item is nil")
	}
	item.Derive()
	if err := replaceByID(ctx, r.collection, item.ID, item, inventory.ErrItemNotFound); err != nil {
		return fmt.Errorf("cannot update inventory item: %w", err)
	}
	return nil
}

func (r *ItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID(ctx, r.collection, id, inventory.ErrItemNotFound); err != nil {
		return fmt.Errorf("cannot delete inventory item: %w", err)
	}
	return nil
}

func (r *ItemRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("cannot delete inventory items: %w", err)
	}
	return int(result.DeletedCount), nil
}

type SnapshotRepo struct {
	collection *mongo.Collection
}

func NewSnapshotRepo(db *mongo.Database) *SnapshotRepo {
	return &SnapshotRepo{collection: db.Collection(snapshotsCollection)}
}

func (r *SnapshotRepo) Create(ctx context.Context, snapshot *inventory.Snapshot) error {
	if _, err := r.collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("cannot create inventory snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepo) List(ctx context.Context, station string) ([]*inventory.Snapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	return findAll[inventory.Snapshot](ctx, r.collection, stationQuery(station), opts, "inventory snapshots")
}

type WasteRepo struct {
	collection *mongo.Collection
}

func NewWasteRepo(db *mongo.Database) *WasteRepo {
	return &WasteRepo{collection: db.Collection(wasteCollection)}
}

func (r *WasteRepo) Create(ctx context.Context, report *inventory.WasteReport) error {
	if _, err := r.collection.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("cannot create waste report: %w", err)
	}
	return nil
}

func (r *WasteRepo) List(ctx context.Context, station string) ([]*inventory.WasteReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "reported_at", Value: -1}})
	return findAll[inventory.WasteReport](ctx, r.collection, stationQuery(station), opts, "waste reports")
}

func NewInventoryRepos(db *mongo.Database) inventory.Repos {
	return inventory.Repos{
		ItemRepo:     NewItemRepo(db),
		SnapshotRepo: NewSnapshotRepo(db),
		WasteRepo:    NewWasteRepo(db),
	}
}

func stationQuery(station string) bson.M {
	if station == "" {
		return bson.M{}
	}
	return bson.M{"station": station}
}
