package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	FieldSealed = "sealed"
	FieldLoose  = "loose"
)

// ParseCount reads a count typed into a form field. Anything that is not a
// non-negative integer counts as zero.
func ParseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Recompute returns a copy of item with field set from newValue, the
// delivered total rederived and the delivery date stamped to now.
func Recompute(item *Item, field, newValue string, now time.Time) (*Item, error) {
	updated := item.clone()
	count := ParseCount(newValue)

	switch field {
	case FieldSealed:
		updated.Sealed = count
	case FieldLoose:
		updated.Loose = count
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	updated.Derive()
	updated.DateDelivered = DateOf(now)
	updated.UpdatedAt = now
	return updated, nil
}

// Adjust applies a +/- step to field, never going below zero.
func Adjust(item *Item, field string, delta int, now time.Time) (*Item, error) {
	updated := item.clone()

	var target *int
	switch field {
	case FieldSealed:
		target = &updated.Sealed
	case FieldLoose:
		target = &updated.Loose
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	*target += delta
	if *target < 0 {
		*target = 0
	}

	updated.Derive()
	updated.DateDelivered = DateOf(now)
	updated.UpdatedAt = now
	return updated, nil
}

// RecordOwnerDelivery notes what the owner delivered and when.
func RecordOwnerDelivery(item *Item, quantity int, date string, now time.Time) (*Item, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if date == "" {
		date = DateOf(now)
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	updated := item.clone()
	updated.OwnerDelivered = &quantity
	updated.OwnerDateDelivered = date
	updated.UpdatedAt = now
	return updated, nil
}
