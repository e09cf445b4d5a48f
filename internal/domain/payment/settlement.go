package payment

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/c010r/lollypos/internal/domain/order"
	"github.com/c010r/lollypos/internal/domain/table"
)

// Result summarizes the settlement cascade triggered by one payment: which
// downstream entities changed and what balance remains.
type Result struct {
	Payment       *Payment
	TotalPaid     decimal.Decimal
	Balance       decimal.Decimal
	OrderPaid     bool
	TableReleased bool
}

// Service records payments and settles orders. It shares the per-order
// Locker with the order service so payments and item mutations on the same
// order never interleave.
type Service struct {
	payments Repository
	orders   order.Repository
	tables   table.Repository
	locks    *order.Locker
	now      func() time.Time
}

// NewService creates a payment Service with the required dependencies.
func NewService(payments Repository, orders order.Repository, tables table.Repository, locks *order.Locker) *Service {
	return &Service{
		payments: payments,
		orders:   orders,
		tables:   tables,
		locks:    locks,
		now:      time.Now,
	}
}

// RecordRequest holds the input for recording a payment.
type RecordRequest struct {
	OrderID   int64
	MethodID  int64
	Amount    decimal.Decimal
	Tip       decimal.Decimal
	Reference string
}

// Record persists the payment unconditionally (no balance check), then
// re-evaluates settlement: when the cumulative paid amount reaches the order
// total, the order and its items become PAID and the table is released if no
// other active order holds it. The check runs on every payment, so partial
// payments settle as soon as the running sum crosses the threshold.
func (s *Service) Record(ctx context.Context, req RecordRequest) (*Result, error) {
	if req.Amount.IsNegative() {
		return nil, &NegativeAmountError{Amount: req.Amount}
	}
	if req.Tip.IsNegative() {
		return nil, &NegativeAmountError{Amount: req.Tip}
	}

	unlock := s.locks.Lock(req.OrderID)
	defer unlock()

	o, err := s.orders.Get(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if _, err := s.payments.GetMethod(ctx, req.MethodID); err != nil {
		return nil, err
	}

	p := &Payment{
		OrderID:   o.ID,
		MethodID:  req.MethodID,
		Amount:    req.Amount,
		Tip:       req.Tip,
		Reference: req.Reference,
		CreatedAt: s.now(),
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create payment")
	}

	totalPaid, err := s.payments.SumForOrder(ctx, o.ID)
	if err != nil {
		return nil, errors.Wrap(err, "sum payments")
	}

	res := &Result{
		Payment:   p,
		TotalPaid: totalPaid,
		Balance:   balance(o.Total, totalPaid),
	}

	if totalPaid.LessThan(o.Total) || o.Status.Terminal() {
		return res, nil
	}

	if err := s.orders.UpdateStatus(ctx, o.ID, order.StatusPaid); err != nil {
		return nil, errors.Wrap(err, "mark order paid")
	}
	if err := s.orders.UpdateItemStatuses(ctx, o.ID, order.StatusPaid); err != nil {
		return nil, errors.Wrap(err, "cascade item statuses")
	}
	o.Status = order.StatusPaid
	res.OrderPaid = true

	released, err := order.ReleaseTableIfIdle(ctx, s.orders, s.tables, o)
	if err != nil {
		return nil, err
	}
	res.TableReleased = released

	return res, nil
}

func balance(total, paid decimal.Decimal) decimal.Decimal {
	b := total.Sub(paid)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}
