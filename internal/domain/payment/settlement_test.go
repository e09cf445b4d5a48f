package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c010r/lollypos/internal/domain/order"
	"github.com/c010r/lollypos/internal/domain/table"
)

// --- Mock implementations ---

type mockPayments struct {
	payments []*Payment
	methods  map[int64]*Method
	nextID   int64
}

func (m *mockPayments) Create(_ context.Context, p *Payment) error {
	m.nextID++
	p.ID = m.nextID
	m.payments = append(m.payments, p)
	return nil
}

func (m *mockPayments) SumForOrder(_ context.Context, orderID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range m.payments {
		if p.OrderID == orderID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (m *mockPayments) GetMethod(_ context.Context, id int64) (*Method, error) {
	method, ok := m.methods[id]
	if !ok {
		return nil, ErrMethodNotFound
	}
	return method, nil
}

type mockOrders struct {
	order         *order.Order
	activeOnTable int
	itemCascades  []order.Status
}

func (m *mockOrders) Create(_ context.Context, _ *order.Order) error { return nil }

func (m *mockOrders) Get(_ context.Context, id int64) (*order.Order, error) {
	if m.order == nil || m.order.ID != id {
		return nil, order.ErrNotFound
	}
	o := *m.order
	return &o, nil
}

func (m *mockOrders) ListActive(_ context.Context) ([]order.Order, error) { return nil, nil }

func (m *mockOrders) UpdateTotals(_ context.Context, _ int64, _, _, _ decimal.Decimal) error {
	return nil
}

func (m *mockOrders) UpdateStatus(_ context.Context, _ int64, status order.Status) error {
	m.order.Status = status
	return nil
}

func (m *mockOrders) UpdateItemStatuses(_ context.Context, _ int64, status order.Status) error {
	m.itemCascades = append(m.itemCascades, status)
	return nil
}

func (m *mockOrders) AddItem(_ context.Context, _ *order.Item) error { return nil }

func (m *mockOrders) UpdateItemSubtotal(_ context.Context, _ int64, _ decimal.Decimal) error {
	return nil
}

func (m *mockOrders) AddItemModifier(_ context.Context, _ *order.ItemModifier) error { return nil }

func (m *mockOrders) AddDiscount(_ context.Context, _ *order.AppliedDiscount) error { return nil }

func (m *mockOrders) CountActiveOnTable(_ context.Context, _, _ int64) (int, error) {
	return m.activeOnTable, nil
}

type mockTables struct {
	tables map[int64]*table.Table
}

func (m *mockTables) Get(_ context.Context, id int64) (*table.Table, error) {
	t, ok := m.tables[id]
	if !ok {
		return nil, table.ErrNotFound
	}
	return t, nil
}

func (m *mockTables) UpdateStatus(_ context.Context, id int64, status table.Status) error {
	m.tables[id].Status = status
	return nil
}

// --- Helpers ---

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func int64p(v int64) *int64 { return &v }

type fixture struct {
	svc      *Service
	payments *mockPayments
	orders   *mockOrders
	tables   *mockTables
}

func newFixture(o *order.Order) *fixture {
	payments := &mockPayments{methods: map[int64]*Method{1: {ID: 1, Name: "Cash", Active: true}}}
	orders := &mockOrders{order: o}
	tables := &mockTables{tables: map[int64]*table.Table{
		3: {ID: 3, Number: 3, Status: table.StatusOccupied},
	}}
	return &fixture{
		svc:      NewService(payments, orders, tables, order.NewLocker()),
		payments: payments,
		orders:   orders,
		tables:   tables,
	}
}

func pendingOrder(total string, tableID *int64) *order.Order {
	return &order.Order{
		ID:      1,
		Status:  order.StatusPending,
		TableID: tableID,
		Total:   d(total),
	}
}

// --- Tests ---

func TestRecord_NegativeAmount(t *testing.T) {
	f := newFixture(pendingOrder("20.00", nil))

	_, err := f.svc.Record(context.Background(), RecordRequest{
		OrderID: 1, MethodID: 1, Amount: d("-5.00"),
	})

	var naErr *NegativeAmountError
	require.ErrorAs(t, err, &naErr)
}

func TestRecord_NegativeTip(t *testing.T) {
	f := newFixture(pendingOrder("20.00", nil))

	_, err := f.svc.Record(context.Background(), RecordRequest{
		OrderID: 1, MethodID: 1, Amount: d("5.00"), Tip: d("-1.00"),
	})

	var naErr *NegativeAmountError
	require.ErrorAs(t, err, &naErr)
}

func TestRecord_UnknownMethod(t *testing.T) {
	f := newFixture(pendingOrder("20.00", nil))

	_, err := f.svc.Record(context.Background(), RecordRequest{
		OrderID: 1, MethodID: 99, Amount: d("5.00"),
	})
	require.ErrorIs(t, err, ErrMethodNotFound)
}

func TestRecord_PartialPaymentDoesNotSettle(t *testing.T) {
	f := newFixture(pendingOrder("20.00", nil))

	res, err := f.svc.Record(context.Background(), RecordRequest{
		OrderID: 1, MethodID: 1, Amount: d("12.00"),
	})
	require.NoError(t, err)

	assert.False(t, res.OrderPaid)
	assert.True(t, d("12.00").Equal(res.TotalPaid))
	assert.True(t, d("8.00").Equal(res.Balance))
	assert.Equal(t, order.StatusPending, f.orders.order.Status)
	assert.Empty(t, f.orders.itemCascades)
}

func TestRecord_CumulativePaymentsSettle(t *testing.T) {
	f := newFixture(pendingOrder("20.00", int64p(3)))

	_, err := f.svc.Record(context.Background(), RecordRequest{
		OrderID: 1, MethodID: 1, Amount: d("12.00"),
	})
	require.NoError(t, err)

	res, err := f.svc.Record(context.Background(), RecordRequest{
		OrderID: 1, MethodID: 1, Amount: d("8.00"),
	})
	require.NoError(t, err)

	assert.True(t, res.OrderPaid)
	assert.True(t, res.Balance.IsZero())
	assert.Equal(t, order.StatusPaid, f.orders.order.Status)
	assert.Equal(t, []order.Status{order.StatusPaid}, f.orders.itemCascades)
	assert.True(t, res.TableReleased)
	assert.Equal(t, table.StatusAvailable, f.tables.tables[3].Status)
}

func TestRecord_OverpaymentAllowed(t *testing.T) {
	f := newFixture(pendingOrder("20.00", nil))

	res, err := f.svc.Record(context.Background(), RecordRequest{
		OrderID: 1, MethodID: 1, Amount: d("25.00"),
	})
	require.NoError(t, err)

	assert.True(t, res.OrderPaid)
	assert.True(t, d("25.00").Equal(res.TotalPaid))
	assert.True(t, res.Balance.IsZero(), "balance floors at zero")
}

func TestRecord_TableHeldByOtherActiveOrder(t *testing.T) {
	f := newFixture(pendingOrder("20.00", int64p(3)))
	f.orders.activeOnTable = 1

	res, err := f.svc.Record(context.Background(), RecordRequest{
		OrderID: 1, MethodID: 1, Amount: d("20.00"),
	})
	require.NoError(t, err)

	assert.True(t, res.OrderPaid)
	assert.False(t, res.TableReleased)
	assert.Equal(t, table.StatusOccupied, f.tables.tables[3].Status)
}

func TestRecord_TerminalOrderStillRecordsPayment(t *testing.T) {
	o := pendingOrder("20.00", nil)
	o.Status = order.StatusPaid
	f := newFixture(o)

	res, err := f.svc.Record(context.Background(), RecordRequest{
		OrderID: 1, MethodID: 1, Amount: d("20.00"),
	})
	require.NoError(t, err)

	// The payment row exists but no settlement cascade re-runs.
	require.Len(t, f.payments.payments, 1)
	assert.False(t, res.OrderPaid)
	assert.Empty(t, f.orders.itemCascades)
}
