package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/c010r/lollypos/internal/domain/catalog"
	"github.com/c010r/lollypos/internal/domain/discount"
	"github.com/c010r/lollypos/internal/domain/inventory"
	"github.com/c010r/lollypos/internal/domain/table"
)

// Service encapsulates order lifecycle business logic. Every mutation of one
// order runs under that order's lock and finishes with a full totals
// recompute.
type Service struct {
	orders    Repository
	catalog   catalog.Repository
	discounts discount.Repository
	tables    table.Repository
	ledger    *inventory.Ledger
	locks     *Locker
	now       func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
func NewService(
	orders Repository,
	cat catalog.Repository,
	discounts discount.Repository,
	tables table.Repository,
	ledger *inventory.Ledger,
	locks *Locker,
) *Service {
	return &Service{
		orders:    orders,
		catalog:   cat,
		discounts: discounts,
		tables:    tables,
		ledger:    ledger,
		locks:     locks,
		now:       time.Now,
	}
}

// CreateRequest holds the input for creating an order.
type CreateRequest struct {
	EmployeeID      int64
	TableID         *int64
	CustomerID      *int64
	Type            string
	Notes           string
	DeliveryAddress string
}

// Create opens a new PENDING order owned by the given employee. A dine-in
// order bound to an available table marks that table OCCUPIED.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if req.EmployeeID == 0 {
		return nil, ErrEmployeeRequired
	}
	typ, err := ParseType(req.Type)
	if err != nil {
		return nil, err
	}

	now := s.now()
	o := &Order{
		Number:          NewNumber(now),
		TableID:         req.TableID,
		CustomerID:      req.CustomerID,
		EmployeeID:      req.EmployeeID,
		Status:          StatusPending,
		Type:            typ,
		Subtotal:        decimal.Zero,
		Tax:             decimal.Zero,
		Total:           decimal.Zero,
		Notes:           req.Notes,
		DeliveryAddress: req.DeliveryAddress,
		CreatedAt:       now,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	if typ == TypeDineIn && req.TableID != nil {
		t, err := s.tables.Get(ctx, *req.TableID)
		if err != nil {
			return nil, errors.Wrap(err, "get table")
		}
		if t.Status == table.StatusAvailable || t.Status == table.StatusReserved {
			if err := s.tables.UpdateStatus(ctx, t.ID, table.StatusOccupied); err != nil {
				return nil, errors.Wrap(err, "occupy table")
			}
		}
	}

	return o, nil
}

// Get returns the fully loaded order aggregate.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.orders.Get(ctx, id)
}

// ListActive returns orders still occupying kitchen or table resources.
func (s *Service) ListActive(ctx context.Context) ([]Order, error) {
	return s.orders.ListActive(ctx)
}

// AddItemRequest holds the input for adding a line item to an order.
type AddItemRequest struct {
	OrderID   int64
	ProductID int64
	Quantity  int
	// UnitPrice overrides the snapshot taken from the product when set.
	UnitPrice *decimal.Decimal
	Notes     string
}

// AddItemResult is the outcome of an item addition, including any inventory
// shortfalls absorbed during the deduction.
type AddItemResult struct {
	Order      *Order
	Item       *Item
	Shortfalls []inventory.Shortfall
}

// AddItem appends a line item, snapshots the unit price, fires the inventory
// deduction once, and recomputes the order totals.
func (s *Service) AddItem(ctx context.Context, req AddItemRequest) (*AddItemResult, error) {
	if req.Quantity < 1 {
		return nil, &InvalidQuantityError{Quantity: req.Quantity}
	}

	unlock := s.locks.Lock(req.OrderID)
	defer unlock()

	o, err := s.orders.Get(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	p, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	unitPrice := p.Price
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}

	item := &Item{
		OrderID:   o.ID,
		ProductID: p.ID,
		Quantity:  req.Quantity,
		UnitPrice: unitPrice,
		Subtotal:  ItemSubtotal(unitPrice, nil, req.Quantity),
		Notes:     req.Notes,
		Status:    StatusPending,
	}
	if err := s.orders.AddItem(ctx, item); err != nil {
		return nil, errors.Wrap(err, "add item")
	}

	// Inventory deduction fires exactly once, at item creation. Shortfalls
	// are surfaced as warnings, never as failures.
	shortfalls, err := s.ledger.Consume(ctx, p.ID, req.Quantity)
	if err != nil {
		return nil, errors.Wrap(err, "consume inventory")
	}

	o.Items = append(o.Items, *item)
	if err := s.recompute(ctx, o); err != nil {
		return nil, err
	}

	return &AddItemResult{Order: o, Item: item, Shortfalls: shortfalls}, nil
}

// AttachModifierRequest holds the input for attaching a modifier to an item.
type AttachModifierRequest struct {
	OrderID    int64
	ItemID     int64
	ModifierID int64
	// PriceAtTime overrides the snapshot taken from the modifier when set.
	PriceAtTime *decimal.Decimal
}

// AttachModifierResult is the outcome of a modifier attachment.
type AttachModifierResult struct {
	Order *Order
	Item  *Item
}

// AttachModifier attaches a catalog modifier to an existing item, freezes its
// price, recomputes the item subtotal, and recomputes the order totals.
func (s *Service) AttachModifier(ctx context.Context, req AttachModifierRequest) (*AttachModifierResult, error) {
	unlock := s.locks.Lock(req.OrderID)
	defer unlock()

	o, err := s.orders.Get(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	var item *Item
	for i := range o.Items {
		if o.Items[i].ID == req.ItemID {
			item = &o.Items[i]
			break
		}
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	for _, m := range item.Modifiers {
		if m.ModifierID == req.ModifierID {
			return nil, &DuplicateModifierError{ItemID: item.ID, ModifierID: req.ModifierID}
		}
	}

	mod, err := s.catalog.GetModifier(ctx, req.ModifierID)
	if err != nil {
		return nil, err
	}

	price := mod.AdditionalPrice
	if req.PriceAtTime != nil {
		price = *req.PriceAtTime
	}

	im := &ItemModifier{
		ItemID:      item.ID,
		ModifierID:  mod.ID,
		PriceAtTime: price,
	}
	if err := s.orders.AddItemModifier(ctx, im); err != nil {
		return nil, errors.Wrap(err, "attach modifier")
	}

	item.Modifiers = append(item.Modifiers, *im)
	item.Subtotal = ItemSubtotal(item.UnitPrice, item.Modifiers, item.Quantity)
	if err := s.orders.UpdateItemSubtotal(ctx, item.ID, item.Subtotal); err != nil {
		return nil, errors.Wrap(err, "update item subtotal")
	}

	if err := s.recompute(ctx, o); err != nil {
		return nil, err
	}

	return &AttachModifierResult{Order: o, Item: item}, nil
}

// ApplyDiscount computes the discount amount from the current subtotal,
// freezes it, and recomputes the order totals through the same path item
// mutations use.
func (s *Service) ApplyDiscount(ctx context.Context, orderID, discountID int64) (*Order, error) {
	rule, err := s.discounts.GetByID(ctx, discountID)
	if err != nil {
		return nil, err
	}
	return s.applyRule(ctx, orderID, rule)
}

// ApplyDiscountCode resolves a promo code to its discount rule and applies
// it the same way ApplyDiscount does.
func (s *Service) ApplyDiscountCode(ctx context.Context, orderID int64, code string) (*Order, error) {
	rule, err := s.discounts.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.applyRule(ctx, orderID, rule)
}

func (s *Service) applyRule(ctx context.Context, orderID int64, rule *discount.Rule) (*Order, error) {
	unlock := s.locks.Lock(orderID)
	defer unlock()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := rule.Usable(s.now()); err != nil {
		return nil, err
	}

	amount, err := discount.Compute(rule, o.Subtotal)
	if err != nil {
		return nil, err
	}

	applied := &AppliedDiscount{
		OrderID:    o.ID,
		DiscountID: rule.ID,
		Amount:     amount,
	}
	if err := s.orders.AddDiscount(ctx, applied); err != nil {
		return nil, errors.Wrap(err, "apply discount")
	}

	o.Discounts = append(o.Discounts, *applied)
	if err := s.recompute(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

// ChangeStatus applies an explicit status change validated against the
// transition table. The new status cascades to all items, and a manual PAID
// change releases the table exactly like settlement does.
func (s *Service) ChangeStatus(ctx context.Context, orderID int64, rawStatus string) (*Order, error) {
	next, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(orderID)
	defer unlock()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, &TransitionError{From: o.Status, To: next}
	}

	if err := s.orders.UpdateStatus(ctx, o.ID, next); err != nil {
		return nil, errors.Wrap(err, "update status")
	}
	o.Status = next

	if err := s.orders.UpdateItemStatuses(ctx, o.ID, next); err != nil {
		return nil, errors.Wrap(err, "cascade item statuses")
	}
	for i := range o.Items {
		o.Items[i].Status = next
	}

	if next == StatusPaid {
		if _, err := ReleaseTableIfIdle(ctx, s.orders, s.tables, o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// recompute re-derives the totals from the aggregate and persists them.
func (s *Service) recompute(ctx context.Context, o *Order) error {
	t := ComputeTotals(o.Items, o.Discounts)
	if err := s.orders.UpdateTotals(ctx, o.ID, t.Subtotal, t.Tax, t.Total); err != nil {
		return errors.Wrap(err, "update totals")
	}
	o.Subtotal, o.Tax, o.Total = t.Subtotal, t.Tax, t.Total
	return nil
}
