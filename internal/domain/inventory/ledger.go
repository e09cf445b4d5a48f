// Package inventory tracks ingredient stock levels and performs the
// best-effort deductions triggered by order item creation.
package inventory

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/c010r/lollypos/internal/domain/catalog"
)

// Ingredient is a stocked raw material.
type Ingredient struct {
	ID           int64
	Name         string
	Unit         string
	CurrentStock decimal.Decimal
	MinimumStock decimal.Decimal
}

// NeedsRestock reports whether the ingredient is at or below its minimum
// stock level.
func (i Ingredient) NeedsRestock() bool {
	return i.CurrentStock.LessThanOrEqual(i.MinimumStock)
}

// Shortfall reports an ingredient whose deduction was skipped because the
// available stock could not cover the needed amount. Deductions never drive
// stock negative and never block the sale; callers surface shortfalls as
// warnings instead.
type Shortfall struct {
	IngredientID int64
	Needed       decimal.Decimal
	Available    decimal.Decimal
}

// Repository defines stock persistence operations.
//
// DecrementStock must be atomic with a floor at zero: it deducts `needed`
// from the ingredient's current stock and returns true only when the stock
// covered the full amount, leaving the row untouched otherwise. The SQL
// implementation uses a conditional UPDATE so concurrent orders consuming the
// same ingredient cannot lose updates.
type Repository interface {
	DecrementStock(ctx context.Context, ingredientID int64, needed decimal.Decimal) (bool, error)
	GetStock(ctx context.Context, ingredientID int64) (decimal.Decimal, error)
	ListLowStock(ctx context.Context) ([]Ingredient, error)
}

// Ledger applies per-product ingredient deductions.
type Ledger struct {
	catalog catalog.Repository
	stock   Repository
}

// NewLedger creates a Ledger reading requirements from the catalog and
// writing deductions through the stock repository.
func NewLedger(catalog catalog.Repository, stock Repository) *Ledger {
	return &Ledger{catalog: catalog, stock: stock}
}

// Consume deducts the ingredient requirements for quantity units of the given
// product. Ingredients with insufficient stock are skipped and reported as
// shortfalls; the returned error covers infrastructure failures only.
func (l *Ledger) Consume(ctx context.Context, productID int64, quantity int) ([]Shortfall, error) {
	reqs, err := l.catalog.IngredientRequirements(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "ingredient requirements")
	}

	qty := decimal.NewFromInt(int64(quantity))
	var shortfalls []Shortfall
	for _, req := range reqs {
		needed := req.PerUnit.Mul(qty)
		applied, err := l.stock.DecrementStock(ctx, req.IngredientID, needed)
		if err != nil {
			return nil, errors.Wrapf(err, "decrement ingredient %d", req.IngredientID)
		}
		if applied {
			continue
		}

		available, err := l.stock.GetStock(ctx, req.IngredientID)
		if err != nil {
			return nil, errors.Wrapf(err, "read stock for ingredient %d", req.IngredientID)
		}
		shortfalls = append(shortfalls, Shortfall{
			IngredientID: req.IngredientID,
			Needed:       needed,
			Available:    available,
		})
	}

	return shortfalls, nil
}
