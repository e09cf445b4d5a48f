package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrItemNotFound is returned when a referenced order item does not exist.
	ErrItemNotFound = errors.New("order item not found")
	// ErrEmployeeRequired is returned when an order is created without an
	// owning employee.
	ErrEmployeeRequired = errors.New("employee is required")
)

// InvalidStatusError indicates a status value outside the enumerated set.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q", e.Value)
}

// TransitionError indicates a status change the transition table forbids.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// InvalidQuantityError indicates a line item with a quantity below 1.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1, got %d", e.Quantity)
}

// DuplicateModifierError indicates a modifier already attached to the item.
type DuplicateModifierError struct {
	ItemID     int64
	ModifierID int64
}

func (e *DuplicateModifierError) Error() string {
	return fmt.Sprintf("modifier %d already attached to item %d", e.ModifierID, e.ItemID)
}
