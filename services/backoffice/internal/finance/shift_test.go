package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/appetiteclub/staffops/pkg/enums/reviewstatus"
	"github.com/appetiteclub/staffops/services/backoffice/internal/money"
)

func triad(cash, wallet, bank string) ShiftTriad {
	return ShiftTriad{
		Cash:          money.MustParse(cash),
		DigitalWallet: money.MustParse(wallet),
		BankAmount:    money.MustParse(bank),
	}
}

func TestShiftTotal(t *testing.T) {
	tests := []struct {
		name  string
		shift ShiftTriad
		want  string
	}{
		{name: "sumsAllThree", shift: triad("5000", "3500", "12000"), want: "20500.00"},
		{name: "exactCentavos", shift: triad("0.1", "0.1", "0.1"), want: "0.30"},
		{name: "empty", shift: ShiftTriad{}, want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShiftTotal(tt.shift).String(); got != tt.want {
				t.Errorf("ShiftTotal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDailyEarnings(t *testing.T) {
	tests := []struct {
		name    string
		opening ShiftTriad
		closing ShiftTriad
		want    string
	}{
		{name: "profit", opening: triad("5000", "3500", "12000"), closing: triad("8500", "6200", "18500"), want: "12700.00"},
		{name: "loss", opening: triad("8500", "6200", "18500"), closing: triad("5000", "3500", "12000"), want: "-12700.00"},
		{name: "flat", opening: triad("100", "0", "0"), closing: triad("0", "50", "50"), want: "0.00"},
		{name: "centavos", opening: triad("10.05", "0", "0"), closing: triad("10", "0.01", "0"), want: "-0.04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyEarnings(tt.opening, tt.closing)
			if got.String() != tt.want {
				t.Errorf("DailyEarnings() = %s, want %s", got, tt.want)
			}
			if diff := ShiftTotal(tt.closing).Sub(ShiftTotal(tt.opening)); !got.Equal(diff) {
				t.Errorf("DailyEarnings() = %s, closing minus opening = %s", got, diff)
			}
		})
	}
}

func TestNewReportIsPendingWithTotals(t *testing.T) {
	at := time.Date(2026, time.October, 16, 21, 0, 0, 0, time.UTC)
	r := NewReport("2026-10-16", triad("5000", "3500", "12000"), triad("8500", "6200", "18500"), "John Smith", at)

	if r.Status != reviewstatus.Statuses.Pending.Code() {
		t.Errorf("Status = %s, want pending", r.Status)
	}
	if r.OpeningTotal.String() != "20500.00" {
		t.Errorf("OpeningTotal = %s, want 20500.00", r.OpeningTotal)
	}
	if r.ClosingTotal.String() != "33200.00" {
		t.Errorf("ClosingTotal = %s, want 33200.00", r.ClosingTotal)
	}
	if r.DailyEarnings.String() != "12700.00" {
		t.Errorf("DailyEarnings = %s, want 12700.00", r.DailyEarnings)
	}
}

func TestReportReview(t *testing.T) {
	at := time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)

	t.Run("approve", func(t *testing.T) {
		r := NewReport("2026-10-16", ShiftTriad{}, ShiftTriad{}, "John", at)
		if err := r.Review(true, "Owner", "ok", at); err != nil {
			t.Fatalf("Review() error = %v", err)
		}
		if r.Status != "approved" || r.ReviewedBy != "Owner" {
			t.Errorf("got %s by %q, want approved by \"Owner\"", r.Status, r.ReviewedBy)
		}
		if r.ReviewedAt == nil {
			t.Error("ReviewedAt is nil")
		}
	})

	t.Run("rejectThenApproveFails", func(t *testing.T) {
		r := NewReport("2026-10-16", ShiftTriad{}, ShiftTriad{}, "John", at)
		if err := r.Review(false, "Owner", "cash short", at); err != nil {
			t.Fatalf("Review() error = %v", err)
		}
		if err := r.Review(true, "Owner", "", at); !errors.Is(err, reviewstatus.ErrNotPending) {
			t.Errorf("second Review() error = %v, want %v", err, reviewstatus.ErrNotPending)
		}
		if r.Status != "rejected" || r.ReviewNote != "cash short" {
			t.Errorf("got %s %q, want rejected \"cash short\"", r.Status, r.ReviewNote)
		}
	})
}
