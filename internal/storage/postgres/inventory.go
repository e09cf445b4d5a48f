package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/c010r/lollypos/internal/domain/inventory"
)

var _ inventory.Repository = (*InventoryRepository)(nil)

// InventoryRepository implements inventory.Repository backed by PostgreSQL.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository returns an InventoryRepository that uses the given pool.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

// DecrementStock atomically deducts needed from the ingredient's stock. The
// WHERE clause floors the stock at zero: a row with insufficient stock is
// left untouched and the method reports applied=false. Concurrent deductions
// of the same ingredient serialize on the row lock, so no update is lost.
func (r *InventoryRepository) DecrementStock(ctx context.Context, ingredientID int64, needed decimal.Decimal) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE ingredients
		SET current_stock = current_stock - $2, updated_at = now()
		WHERE id = $1 AND current_stock >= $2`, ingredientID, needed)
	if err != nil {
		return false, fmt.Errorf("decrementing stock for ingredient %d: %w", ingredientID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetStock returns the current stock level of an ingredient.
func (r *InventoryRepository) GetStock(ctx context.Context, ingredientID int64) (decimal.Decimal, error) {
	var stock decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT current_stock FROM ingredients WHERE id = $1`, ingredientID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("reading stock for ingredient %d: %w", ingredientID, err)
	}
	return stock, nil
}

// ListLowStock returns ingredients at or below their minimum stock level.
func (r *InventoryRepository) ListLowStock(ctx context.Context) ([]inventory.Ingredient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, unit, current_stock, minimum_stock
		FROM ingredients
		WHERE current_stock <= minimum_stock
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing low stock ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []inventory.Ingredient
	for rows.Next() {
		var ing inventory.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.CurrentStock, &ing.MinimumStock); err != nil {
			return nil, fmt.Errorf("scanning ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}
