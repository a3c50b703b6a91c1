package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestIndexModelsCoverEveryCollection(t *testing.T) {
	collections := []string{
		itemsCollection, snapshotsCollection, wasteCollection,
		reportsCollection, fundsCollection, expensesCollection, apepoCollection,
		payrollCollection, requestsCollection, employeesCollection,
		recipesCollection, recipeViewsCollection, managerTasksCollection,
		notificationsCollection,
	}

	models := indexModels()
	for _, name := range collections {
		if len(models[name]) == 0 {
			t.Errorf("collection %s has no indexes", name)
		}
	}
	if len(models) != len(collections) {
		t.Errorf("indexModels() has %d collections, want %d", len(models), len(collections))
	}
}

func TestUniqueIndexes(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		firstKey   string
		wantSparse bool
	}{
		{name: "employeeEmail", collection: employeesCollection, firstKey: "email", wantSparse: true},
		{name: "notificationSource", collection: notificationsCollection, firstKey: "source_key", wantSparse: true},
		{name: "recipeViewPerEmployee", collection: recipeViewsCollection, firstKey: "recipe_id"},
	}

	models := indexModels()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := false
			for _, m := range models[tt.collection] {
				keys, ok := m.Keys.(bson.D)
				if !ok || len(keys) == 0 || keys[0].Key != tt.firstKey {
					continue
				}
				found = true
				if m.Options == nil || m.Options.Unique == nil || !*m.Options.Unique {
					t.Errorf("index on %s.%s is not unique", tt.collection, tt.firstKey)
				}
				sparse := m.Options != nil && m.Options.Sparse != nil && *m.Options.Sparse
				if sparse != tt.wantSparse {
					t.Errorf("index on %s.%s sparse = %v, want %v", tt.collection, tt.firstKey, sparse, tt.wantSparse)
				}
			}
			if !found {
				t.Errorf("no index on %s.%s", tt.collection, tt.firstKey)
			}
		})
	}
}

func TestFilterQueries(t *testing.T) {
	if len(stationQuery("")) != 0 {
		t.Errorf("stationQuery(\"\") = %v, want empty", stationQuery(""))
	}
	if got := stationQuery("kitchen")["station"]; got != "kitchen" {
		t.Errorf("stationQuery(kitchen) station = %v", got)
	}
	if len(dateQuery("")) != 0 {
		t.Errorf("dateQuery(\"\") = %v, want empty", dateQuery(""))
	}
	if got := dateQuery("2026-10-16")["date"]; got != "2026-10-16" {
		t.Errorf("dateQuery() date = %v", got)
	}
}

func TestDateOrder(t *testing.T) {
	sort, ok := dateOrder("shift_date", "submitted_at").Sort.(bson.D)
	if !ok {
		t.Fatalf("dateOrder() sort is %T, want bson.D", dateOrder("shift_date", "submitted_at").Sort)
	}
	want := bson.D{{Key: "shift_date", Value: -1}, {Key: "submitted_at", Value: -1}}
	if len(sort) != len(want) {
		t.Fatalf("dateOrder() = %v, want %v", sort, want)
	}
	for i := range want {
		if sort[i].Key != want[i].Key || sort[i].Value != want[i].Value {
			t.Errorf("dateOrder()[%d] = %v, want %v", i, sort[i], want[i])
		}
	}
}
