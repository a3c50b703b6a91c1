// Package seeding builds the demo documents the utils CLI writes straight
// into the backoffice database. Every document carries created_by
// "demo-seed" so clear-demo can find it again.
package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DemoMarker = "demo-seed"
	TrackerID  = "demo_backoffice_v1"

	requestsCollection      = "requests"
	payrollCollection       = "payroll_entries"
	reportsCollection       = "financial_reports"
	notificationsCollection = "notifications"
)

// DemoCollections lists every collection SeedBackoffice writes to.
func DemoCollections() []string {
	return []string{requestsCollection, payrollCollection, reportsCollection, notificationsCollection}
}

type Demo struct {
	Requests      []interface{}
	Payroll       []interface{}
	Reports       []interface{}
	Notifications []interface{}
}

func (d Demo) byCollection() map[string][]interface{} {
	return map[string][]interface{}{
		requestsCollection:      d.Requests,
		payrollCollection:       d.Payroll,
		reportsCollection:       d.Reports,
		notificationsCollection: d.Notifications,
	}
}

// BuildBackofficeDemo returns the demo documents relative to now.
func BuildBackofficeDemo(now time.Time) Demo {
	now = now.UTC()
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format(time.DateOnly)
	}

	request := func(item string, qty int, unit, priority, remarks string, age time.Duration) bson.M {
		return bson.M{
			"_id":          uuid.New(),
			"manager_name": "John Smith",
			"item_name":    item,
			"quantity":     qty,
			"unit":         unit,
			"priority":     priority,
			"remarks":      remarks,
			"status":       "pending",
			"timestamp":    now.Add(-age),
			"created_by":   DemoMarker,
		}
	}

	entry := func(name string, days int, rate, period string) bson.M {
		return bson.M{
			"_id":           uuid.New(),
			"employee_name": name,
			"days_worked":   days,
			"pay_rate":      rate,
			"period":        period,
			"currency":      "PHP",
			"created_by":    DemoMarker,
			"created_at":    now,
		}
	}

	triad := func(cash, wallet, bank string) bson.M {
		return bson.M{"cash": cash, "digital_wallet": wallet, "bank_amount": bank}
	}

	report := func(date string, opening, closing bson.M, openingTotal, closingTotal, earnings, status string) bson.M {
		doc := bson.M{
			"_id":            uuid.New(),
			"shift_date":     date,
			"opening":        opening,
			"closing":        closing,
			"opening_total":  openingTotal,
			"closing_total":  closingTotal,
			"daily_earnings": earnings,
			"status":         status,
			"submitted_by":   "John Smith",
			"submitted_at":   now,
			"created_by":     DemoMarker,
		}
		if status != "pending" {
			doc["reviewed_by"] = "Owner"
			doc["reviewed_at"] = now
		}
		return doc
	}

	notification := func(kind, title, message string, read bool, age time.Duration) bson.M {
		return bson.M{
			"_id":        uuid.New(),
			"type":       kind,
			"title":      title,
			"message":    message,
			"read":       read,
			"created_at": now.Add(-age),
			"created_by": DemoMarker,
		}
	}

	current := "Oct 16-22, 2025"
	previous := "Oct 9-15, 2025"

	return Demo{
		Requests: []interface{}{
			request("Espresso Beans (Premium Blend)", 10, "lbs", "high", "Running low, need for weekend rush", 2*time.Hour),
			request("Trash Bags (Large)", 5, "boxes", "high", "Almost out, critical for daily operations", 3*time.Hour),
			request("Vanilla Syrup", 6, "bottles", "medium", "Popular flavor, stock getting low", 26*time.Hour),
			request("Paper Towels", 3, "cases", "low", "Still have some in stock but good to reorder", 30*time.Hour),
			request("Almond Milk", 12, "cartons", "medium", "Customer demand increasing", 50*time.Hour),
		},
		Payroll: []interface{}{
			entry("Sarah Johnson", 6, "600.00", current),
			entry("Mike Chen", 5, "600.00", current),
			entry("Emma Davis", 4, "500.00", current),
			entry("James Wilson", 3, "500.00", current),
			entry("Sarah Johnson", 6, "600.00", previous),
			entry("Mike Chen", 6, "600.00", previous),
		},
		Reports: []interface{}{
			report(day(-1), triad("5000", "2500", "10000"), triad("12000", "6200", "12000"), "17500", "30200", "12700", "approved"),
			report(day(0), triad("5000", "2000", "10000"), triad("11000", "5500", "10000"), "17000", "26500", "9500", "pending"),
		},
		Notifications: []interface{}{
			notification("task_completed", "Task Completed", `Sarah Johnson completed "Clean Restroom"`, false, 10*time.Minute),
			notification("task_completed", "Task Completed", `Mike Chen completed "Stock Inventory"`, false, 40*time.Minute),
			notification("task_submission_failed", "Submission Failed", `Photo upload for "Restock Supplies" by John Smith failed, retry from the task screen`, false, 2*time.Hour),
			notification("inventory_critical", "Critical Stock", "Salt at kitchen is critical: 3 kg left", true, 5*time.Hour),
		},
	}
}

// SeedBackoffice inserts the demo documents into the backoffice database.
func SeedBackoffice(ctx context.Context, db *mongo.Database, now time.Time) error {
	for name, docs := range BuildBackofficeDemo(now).byCollection() {
		if len(docs) == 0 {
			continue
		}
		if _, err := db.Collection(name).InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("cannot insert demo %s: %w", name, err)
		}
	}
	return nil
}
