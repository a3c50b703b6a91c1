package inventory

import "errors"

var (
	ErrItemNotFound    = errors.New("inventory item not found")
	ErrUnknownField    = errors.New("unknown inventory field")
	ErrInvalidQuantity = errors.New("quantity must be a non-negative integer")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrNoItemsSelected = errors.New("no items selected")
)
