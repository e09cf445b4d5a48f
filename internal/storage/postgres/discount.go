package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/c010r/lollypos/internal/domain/discount"
)

var _ discount.Repository = (*DiscountRepository)(nil)

// DiscountRepository implements discount.Repository backed by PostgreSQL.
type DiscountRepository struct {
	pool *pgxpool.Pool
}

// NewDiscountRepository returns a DiscountRepository that uses the given pool.
func NewDiscountRepository(pool *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{pool: pool}
}

const discountColumns = `id, name, description, discount_type, value, COALESCE(code, ''), is_active, start_date, end_date`

// GetByID looks up a discount rule by id. Returns discount.ErrNotFound when
// no matching rule exists.
func (r *DiscountRepository) GetByID(ctx context.Context, id int64) (*discount.Rule, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+discountColumns+` FROM discounts WHERE id = $1`, id)
	rule, err := scanDiscount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, discount.ErrNotFound
		}
		return nil, fmt.Errorf("getting discount %d: %w", id, err)
	}
	return rule, nil
}

// FindByCode looks up a discount rule by its promo code (case-insensitive).
// Returns discount.ErrNotFound when no matching rule exists.
func (r *DiscountRepository) FindByCode(ctx context.Context, code string) (*discount.Rule, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+discountColumns+` FROM discounts WHERE UPPER(code) = UPPER($1)`, code)
	rule, err := scanDiscount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, discount.ErrNotFound
		}
		return nil, fmt.Errorf("finding discount by code %q: %w", code, err)
	}
	return rule, nil
}

func scanDiscount(row pgx.Row) (*discount.Rule, error) {
	var rule discount.Rule
	var typ string
	if err := row.Scan(&rule.ID, &rule.Name, &rule.Description, &typ, &rule.Value,
		&rule.Code, &rule.Active, &rule.ValidFrom, &rule.ValidUntil); err != nil {
		return nil, err
	}
	rule.Type = discount.Type(typ)
	return &rule, nil
}
