// Package discount holds discount rules and the amount calculation applied
// to order subtotals.
package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Type enumerates the supported discount strategies.
type Type string

const (
	// TypePercentage discounts a percentage of the order subtotal.
	TypePercentage Type = "PERCENTAGE"
	// TypeFixed discounts a fixed amount, capped at the order subtotal.
	TypeFixed Type = "FIXED"
)

var (
	// ErrNotFound is returned when a requested discount does not exist.
	ErrNotFound = errors.New("discount not found")
	// ErrInactive is returned when a discount has been deactivated.
	ErrInactive = errors.New("discount is not active")
	// ErrOutsideWindow is returned when a date-scoped discount is applied
	// outside its validity window.
	ErrOutsideWindow = errors.New("discount is outside its validity window")
)

// Rule defines a discount's strategy and eligibility constraints.
type Rule struct {
	ID          int64
	Name        string
	Description string
	Type        Type
	Value       decimal.Decimal
	Code        string
	Active      bool
	ValidFrom   *time.Time
	ValidUntil  *time.Time
}

// Usable reports whether the rule may be applied at the given instant.
func (r *Rule) Usable(now time.Time) error {
	if !r.Active {
		return ErrInactive
	}
	if r.ValidFrom != nil && now.Before(*r.ValidFrom) {
		return ErrOutsideWindow
	}
	if r.ValidUntil != nil && now.After(*r.ValidUntil) {
		return ErrOutsideWindow
	}
	return nil
}

// Repository provides lookup of discount rules.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Rule, error)
	FindByCode(ctx context.Context, code string) (*Rule, error)
}

var hundred = decimal.NewFromInt(100)

// Compute returns the discount amount for the given order subtotal. The
// result is frozen by the caller at application time; later subtotal changes
// never recompute it.
func Compute(rule *Rule, subtotal decimal.Decimal) (decimal.Decimal, error) {
	var amount decimal.Decimal
	switch rule.Type {
	case TypePercentage:
		amount = subtotal.Mul(rule.Value).Div(hundred)
	case TypeFixed:
		amount = decimal.Min(rule.Value, subtotal)
	default:
		return decimal.Zero, errors.Errorf("unsupported discount type: %q", rule.Type)
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return amount.Round(2), nil
}
