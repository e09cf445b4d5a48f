// Package payment records payments against orders and runs settlement: the
// cascade that marks fully paid orders PAID and releases their tables.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrMethodNotFound is returned when a referenced payment method does not exist.
var ErrMethodNotFound = errors.New("payment method not found")

// NegativeAmountError indicates a payment or tip below zero.
type NegativeAmountError struct {
	Amount decimal.Decimal
}

func (e *NegativeAmountError) Error() string {
	return fmt.Sprintf("amount must not be negative, got %s", e.Amount)
}

// Payment is one recorded payment against an order. Over-payment is allowed;
// settlement only compares the cumulative sum against the order total.
type Payment struct {
	ID        int64
	OrderID   int64
	MethodID  int64
	Amount    decimal.Decimal
	Tip       decimal.Decimal
	Reference string
	CreatedAt time.Time
}

// Method is a way of paying (cash, card, ...).
type Method struct {
	ID     int64
	Name   string
	Active bool
}

// Repository defines persistence operations for payments.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	SumForOrder(ctx context.Context, orderID int64) (decimal.Decimal, error)
	GetMethod(ctx context.Context, id int64) (*Method, error)
}
