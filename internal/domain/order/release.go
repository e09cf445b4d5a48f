package order

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/c010r/lollypos/internal/domain/table"
)

// ReleaseTableIfIdle frees the order's table when the order holds one in
// OCCUPIED state and no other order on that table is still active. It is the
// single implementation behind both settlement and the manual PAID status
// change, so the two paths cannot diverge.
func ReleaseTableIfIdle(ctx context.Context, orders Repository, tables table.Repository, o *Order) (bool, error) {
	if o.TableID == nil {
		return false, nil
	}

	t, err := tables.Get(ctx, *o.TableID)
	if err != nil {
		if errors.Is(err, table.ErrNotFound) {
			// Table was dissociated after the order was created.
			return false, nil
		}
		return false, errors.Wrap(err, "get table")
	}
	if t.Status != table.StatusOccupied {
		return false, nil
	}

	active, err := orders.CountActiveOnTable(ctx, t.ID, o.ID)
	if err != nil {
		return false, errors.Wrap(err, "count active orders on table")
	}
	if active > 0 {
		return false, nil
	}

	if err := tables.UpdateStatus(ctx, t.ID, table.StatusAvailable); err != nil {
		return false, errors.Wrap(err, "release table")
	}
	return true, nil
}
