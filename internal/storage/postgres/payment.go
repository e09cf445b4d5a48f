package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/c010r/lollypos/internal/domain/payment"
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository implements payment.Repository backed by PostgreSQL.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a PaymentRepository that uses the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create persists a payment and fills in its generated id.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO payments (order_id, payment_method_id, amount, tip, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.OrderID, p.MethodID, p.Amount, p.Tip, p.Reference, p.CreatedAt).
		Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("creating payment for order %d: %w", p.OrderID, err)
	}
	return nil
}

// SumForOrder returns the cumulative paid amount for an order, excluding tips.
func (r *PaymentRepository) SumForOrder(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE order_id = $1`, orderID).
		Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing payments for order %d: %w", orderID, err)
	}
	return sum, nil
}

// GetMethod returns a payment method by id. Returns payment.ErrMethodNotFound
// when no matching method exists.
func (r *PaymentRepository) GetMethod(ctx context.Context, id int64) (*payment.Method, error) {
	var m payment.Method
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, is_active FROM payment_methods WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrMethodNotFound
		}
		return nil, fmt.Errorf("getting payment method %d: %w", id, err)
	}
	return &m, nil
}
