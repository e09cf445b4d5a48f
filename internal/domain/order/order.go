// Package order owns the order aggregate: line items, per-item modifiers,
// applied discounts, and the derived subtotal/tax/total figures. All
// mutations of one order are serialized and every mutation re-derives the
// totals from the full aggregate.
package order

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the aggregate root. Items, Discounts and their children are
// exclusively owned and cascade-deleted with the order row.
type Order struct {
	ID              int64
	Number          string
	TableID         *int64
	CustomerID      *int64
	EmployeeID      int64
	Status          Status
	Type            Type
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Notes           string
	DeliveryAddress string
	CreatedAt       time.Time

	Items     []Item
	Discounts []AppliedDiscount
}

// Item is one order line. UnitPrice is snapshotted from the product at
// creation and never follows later catalog price changes.
type Item struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Notes     string
	Status    Status

	Modifiers []ItemModifier
}

// ItemModifier attaches a catalog modifier to an item with its price frozen
// at attach time. Unique per (item, modifier) pair.
type ItemModifier struct {
	ID          int64
	ItemID      int64
	ModifierID  int64
	PriceAtTime decimal.Decimal
}

// AppliedDiscount records a discount applied to the order with its amount
// frozen at application time.
type AppliedDiscount struct {
	ID         int64
	OrderID    int64
	DiscountID int64
	Amount     decimal.Decimal
}

// NewNumber generates an order number of the form ORD-<yyyymmdd>-<6 hex>.
// Numbers are assigned once at creation and never reassigned.
func NewNumber(now time.Time) string {
	u := uuid.New()
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), hex.EncodeToString(u[:3]))
}

// Repository defines persistence for the order aggregate. Get returns the
// fully loaded aggregate; a read after a child write within one operation
// must reflect that write.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id int64) (*Order, error)
	ListActive(ctx context.Context) ([]Order, error)
	UpdateTotals(ctx context.Context, id int64, subtotal, tax, total decimal.Decimal) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	UpdateItemStatuses(ctx context.Context, orderID int64, status Status) error
	AddItem(ctx context.Context, item *Item) error
	UpdateItemSubtotal(ctx context.Context, itemID int64, subtotal decimal.Decimal) error
	AddItemModifier(ctx context.Context, m *ItemModifier) error
	AddDiscount(ctx context.Context, d *AppliedDiscount) error
	CountActiveOnTable(ctx context.Context, tableID, excludeOrderID int64) (int, error)
}

// DailySales is one row of the paid-orders sales report.
type DailySales struct {
	Day        time.Time
	TotalSales decimal.Decimal
	OrderCount int
}

// ProductSales is one row of the paid-orders per-product sales report.
type ProductSales struct {
	ProductID    int64
	Name         string
	QuantitySold int
	TotalSales   decimal.Decimal
}
