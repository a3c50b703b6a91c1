package requests

import (
	"errors"
	"testing"
	"time"

	"github.com/appetiteclub/staffops/pkg/enums/reviewstatus"
)

var requestTime = time.Date(2026, time.October, 16, 14, 30, 0, 0, time.UTC)

func TestNewItemRequest(t *testing.T) {
	r := NewItemRequest("Vanilla Syrup", 6, requestTime)
	if r.Status != "pending" {
		t.Errorf("Status = %s, want pending", r.Status)
	}
	if r.Priority != "medium" {
		t.Errorf("Priority = %s, want medium", r.Priority)
	}
	if !r.Timestamp.Equal(requestTime) {
		t.Errorf("Timestamp = %v, want %v", r.Timestamp, requestTime)
	}
}

func TestItemRequestReview(t *testing.T) {
	r := NewItemRequest("Trash Bags (Large)", 5, requestTime)

	if err := r.Review(false, "Pat Owner", "use the backup stock", requestTime.Add(time.Hour)); err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if r.Status != "rejected" || r.ReviewedBy != "Pat Owner" {
		t.Errorf("got %s by %q, want rejected by \"Pat Owner\"", r.Status, r.ReviewedBy)
	}
	if r.ReviewedAt == nil {
		t.Error("ReviewedAt is nil")
	}

	err := r.Review(true, "Pat Owner", "", requestTime.Add(2*time.Hour))
	if !errors.Is(err, reviewstatus.ErrNotPending) {
		t.Errorf("second Review() error = %v, want %v", err, reviewstatus.ErrNotPending)
	}
	if r.Status != "rejected" {
		t.Errorf("Status = %s after a refused review, want rejected", r.Status)
	}
}

func TestCount(t *testing.T) {
	items := []*ItemRequest{
		{Priority: "high", Status: "pending"},
		{Priority: "high", Status: "approved"},
		{Priority: "medium", Status: "pending"},
		{Priority: "low", Status: "rejected"},
	}

	tests := []struct {
		name  string
		items []*ItemRequest
		want  Counts
	}{
		{name: "mixed", items: items, want: Counts{Total: 4, Pending: 2, HighPriority: 2}},
		{name: "empty", items: nil, want: Counts{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.items); got != tt.want {
				t.Errorf("Count() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
