// Package catalog is the read side of the menu: products, their modifiers,
// and the ingredient quantities each product consumes per unit sold.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound is returned when a requested product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrModifierNotFound is returned when a requested modifier does not exist.
	ErrModifierNotFound = errors.New("modifier not found")
)

// Product represents a menu item available for sale.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Available   bool
	SKU         string
	PrepMinutes int
}

// Modifier is a per-item customization (extra cheese, no onions) with an
// additional price on top of the product's unit price.
type Modifier struct {
	ID              int64
	Name            string
	AdditionalPrice decimal.Decimal
	GroupID         int64
}

// IngredientRequirement states how much of one ingredient a product consumes
// per unit sold.
type IngredientRequirement struct {
	IngredientID int64
	PerUnit      decimal.Decimal
}

// Repository defines read operations over the menu catalog.
type Repository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	GetModifier(ctx context.Context, id int64) (*Modifier, error)
	IngredientRequirements(ctx context.Context, productID int64) ([]IngredientRequirement, error)
}
