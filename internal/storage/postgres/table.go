package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/c010r/lollypos/internal/domain/table"
)

var _ table.Repository = (*TableRepository)(nil)

// TableRepository implements table.Repository backed by PostgreSQL.
type TableRepository struct {
	pool *pgxpool.Pool
}

// NewTableRepository returns a TableRepository that uses the given pool.
func NewTableRepository(pool *pgxpool.Pool) *TableRepository {
	return &TableRepository{pool: pool}
}

// Get returns a table by id. Returns table.ErrNotFound when no matching
// table exists.
func (r *TableRepository) Get(ctx context.Context, id int64) (*table.Table, error) {
	var t table.Table
	var status string
	err := r.pool.QueryRow(ctx,
		`SELECT id, number, capacity, status, location FROM dining_tables WHERE id = $1`, id).
		Scan(&t.ID, &t.Number, &t.Capacity, &status, &t.Location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, table.ErrNotFound
		}
		return nil, fmt.Errorf("getting table %d: %w", id, err)
	}
	t.Status = table.Status(status)
	return &t, nil
}

// UpdateStatus writes the table status.
func (r *TableRepository) UpdateStatus(ctx context.Context, id int64, status table.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE dining_tables SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("updating status for table %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return table.ErrNotFound
	}
	return nil
}
