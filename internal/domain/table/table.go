// Package table tracks dining table occupancy.
package table

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
)

// Status enumerates table occupancy states.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusOccupied    Status = "OCCUPIED"
	StatusReserved    Status = "RESERVED"
	StatusMaintenance Status = "MAINTENANCE"
)

// ErrNotFound is returned when a requested table does not exist.
var ErrNotFound = errors.New("table not found")

// InvalidStatusError indicates a status value outside the enumerated set.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid table status %q", e.Value)
}

// ParseStatus validates a raw status value against the enumerated set.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusAvailable, StatusOccupied, StatusReserved, StatusMaintenance:
		return s, nil
	default:
		return "", &InvalidStatusError{Value: raw}
	}
}

// Table represents a dining table.
type Table struct {
	ID       int64
	Number   int
	Capacity int
	Status   Status
	Location string
}

// Repository defines persistence operations for tables.
type Repository interface {
	Get(ctx context.Context, id int64) (*Table, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}
