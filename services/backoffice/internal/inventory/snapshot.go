package inventory

import (
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

// Snapshot is a station count handed to the owner at a point in time.
type Snapshot struct {
	ID          uuid.UUID      `json:"id" bson:"_id"`
	Station     string         `json:"station,omitempty" bson:"station,omitempty"`
	Note        string         `json:"note,omitempty" bson:"note,omitempty"`
	Lines       []SnapshotLine `json:"lines" bson:"lines"`
	Counts      StatusCounts   `json:"counts" bson:"counts"`
	SubmittedBy string         `json:"submitted_by" bson:"submitted_by"`
	SubmittedAt time.Time      `json:"submitted_at" bson:"submitted_at"`
}

type SnapshotLine struct {
	ItemID      uuid.UUID `json:"item_id" bson:"item_id"`
	ProductName string    `json:"product_name" bson:"product_name"`
	Unit        string    `json:"unit" bson:"unit"`
	Station     string    `json:"station" bson:"station"`
	Sealed      int       `json:"sealed" bson:"sealed"`
	Loose       int       `json:"loose" bson:"loose"`
	Delivered   int       `json:"delivered" bson:"delivered"`
	Status      string    `json:"status" bson:"status"`
}

type StatusCounts struct {
	Good     int `json:"good" bson:"good"`
	Low      int `json:"low" bson:"low"`
	Critical int `json:"critical" bson:"critical"`
}

func CountByStatus(items []*Item) StatusCounts {
	var c StatusCounts
	for _, item := range items {
		switch item.Status {
		case StatusCritical:
			c.Critical++
		case StatusLow:
			c.Low++
		default:
			c.Good++
		}
	}
	return c
}

func NewSnapshot(station, note, by string, items []*Item, now time.Time) *Snapshot {
	lines := make([]SnapshotLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, SnapshotLine{
			ItemID:      item.ID,
			ProductName: item.ProductName,
			Unit:        item.Unit,
			Station:     item.Station,
			Sealed:      item.Sealed,
			Loose:       item.Loose,
			Delivered:   item.Sealed + item.Loose,
			Status:      item.Status,
		})
	}
	return &Snapshot{
		ID:          aqm.GenerateNewID(),
		Station:     station,
		Note:        note,
		Lines:       lines,
		Counts:      CountByStatus(items),
		SubmittedBy: by,
		SubmittedAt: now,
	}
}

func (s *Snapshot) GetID() uuid.UUID {
	return s.ID
}

func (s *Snapshot) ResourceType() string {
	return "inventory-submission"
}

// WasteReport records stock thrown away, backed by a photo.
type WasteReport struct {
	ID          uuid.UUID  `json:"id" bson:"_id"`
	ItemID      *uuid.UUID `json:"item_id,omitempty" bson:"item_id,omitempty"`
	ProductName string     `json:"product_name" bson:"product_name"`
	Station     string     `json:"station" bson:"station"`
	Quantity    int        `json:"quantity" bson:"quantity"`
	Unit        string     `json:"unit,omitempty" bson:"unit,omitempty"`
	Reason      string     `json:"reason,omitempty" bson:"reason,omitempty"`
	PhotoRef    string     `json:"photo_ref" bson:"photo_ref"`
	ReportedBy  string     `json:"reported_by" bson:"reported_by"`
	ReportedAt  time.Time  `json:"reported_at" bson:"reported_at"`
}

func (w *WasteReport) GetID() uuid.UUID {
	return w.ID
}

func (w *WasteReport) ResourceType() string {
	return "inventory-waste"
}
