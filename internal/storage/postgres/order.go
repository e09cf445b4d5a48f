package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/c010r/lollypos/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// activeStatuses matches order.Status.Active.
const activeStatuses = `('PENDING', 'IN_PROGRESS', 'READY', 'SERVED')`

// Create persists a new order row and fills in its generated id.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO orders (order_number, table_id, customer_id, employee_id, status, order_type,
		                    subtotal, tax, total, notes, delivery_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		o.Number, o.TableID, o.CustomerID, o.EmployeeID, string(o.Status), string(o.Type),
		o.Subtotal, o.Tax, o.Total, o.Notes, o.DeliveryAddress, o.CreatedAt).
		Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.Number, err)
	}
	return nil
}

// Get loads the full order aggregate: the order row plus its items, item
// modifiers, and applied discounts. Returns order.ErrNotFound when the order
// does not exist.
func (r *OrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	var status, typ string
	err := r.pool.QueryRow(ctx, `
		SELECT id, order_number, table_id, customer_id, employee_id, status, order_type,
		       subtotal, tax, total, notes, delivery_address, created_at
		FROM orders
		WHERE id = $1`, id).
		Scan(&o.ID, &o.Number, &o.TableID, &o.CustomerID, &o.EmployeeID, &status, &typ,
			&o.Subtotal, &o.Tax, &o.Total, &o.Notes, &o.DeliveryAddress, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	o.Status = order.Status(status)
	o.Type = order.Type(typ)

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	if err := r.loadDiscounts(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, o *order.Order) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, subtotal, notes, status
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`, o.ID)
	if err != nil {
		return fmt.Errorf("listing items for order %d: %w", o.ID, err)
	}
	defer rows.Close()

	itemIndex := make(map[int64]int)
	for rows.Next() {
		var it order.Item
		var status string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&it.UnitPrice, &it.Subtotal, &it.Notes, &status); err != nil {
			return fmt.Errorf("scanning order item: %w", err)
		}
		it.Status = order.Status(status)
		itemIndex[it.ID] = len(o.Items)
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return nil
	}

	modRows, err := r.pool.Query(ctx, `
		SELECT m.id, m.order_item_id, m.modifier_id, m.price_at_time
		FROM order_item_modifiers m
		JOIN order_items i ON i.id = m.order_item_id
		WHERE i.order_id = $1
		ORDER BY m.id`, o.ID)
	if err != nil {
		return fmt.Errorf("listing item modifiers for order %d: %w", o.ID, err)
	}
	defer modRows.Close()

	for modRows.Next() {
		var im order.ItemModifier
		if err := modRows.Scan(&im.ID, &im.ItemID, &im.ModifierID, &im.PriceAtTime); err != nil {
			return fmt.Errorf("scanning item modifier: %w", err)
		}
		if idx, ok := itemIndex[im.ItemID]; ok {
			o.Items[idx].Modifiers = append(o.Items[idx].Modifiers, im)
		}
	}
	return modRows.Err()
}

func (r *OrderRepository) loadDiscounts(ctx context.Context, o *order.Order) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, discount_id, amount
		FROM order_discounts
		WHERE order_id = $1
		ORDER BY id`, o.ID)
	if err != nil {
		return fmt.Errorf("listing discounts for order %d: %w", o.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d order.AppliedDiscount
		if err := rows.Scan(&d.ID, &d.OrderID, &d.DiscountID, &d.Amount); err != nil {
			return fmt.Errorf("scanning order discount: %w", err)
		}
		o.Discounts = append(o.Discounts, d)
	}
	return rows.Err()
}

// ListActive returns all orders in an active status, oldest first. Items and
// discounts are not loaded; list views only need the order rows.
func (r *OrderRepository) ListActive(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_number, table_id, customer_id, employee_id, status, order_type,
		       subtotal, tax, total, notes, delivery_address, created_at
		FROM orders
		WHERE status IN `+activeStatuses+`
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing active orders: %w", err)
	}
	return scanOrderRows(rows)
}

// ListByDate returns all orders created on the given calendar day.
func (r *OrderRepository) ListByDate(ctx context.Context, day time.Time) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_number, table_id, customer_id, employee_id, status, order_type,
		       subtotal, tax, total, notes, delivery_address, created_at
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("listing orders for %s: %w", day.Format(time.DateOnly), err)
	}
	return scanOrderRows(rows)
}

func scanOrderRows(rows pgx.Rows) ([]order.Order, error) {
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		var o order.Order
		var status, typ string
		if err := rows.Scan(&o.ID, &o.Number, &o.TableID, &o.CustomerID, &o.EmployeeID,
			&status, &typ, &o.Subtotal, &o.Tax, &o.Total, &o.Notes, &o.DeliveryAddress,
			&o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		o.Status = order.Status(status)
		o.Type = order.Type(typ)
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateTotals writes the recomputed subtotal, tax, and total.
func (r *OrderRepository) UpdateTotals(ctx context.Context, id int64, subtotal, tax, total decimal.Decimal) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE orders SET subtotal = $2, tax = $3, total = $4 WHERE id = $1`,
		id, subtotal, tax, total)
	if err != nil {
		return fmt.Errorf("updating totals for order %d: %w", id, err)
	}
	return nil
}

// UpdateStatus writes the order status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("updating status for order %d: %w", id, err)
	}
	return nil
}

// UpdateItemStatuses force-sets all items of an order to the given status.
func (r *OrderRepository) UpdateItemStatuses(ctx context.Context, orderID int64, status order.Status) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE order_items SET status = $2 WHERE order_id = $1`, orderID, string(status))
	if err != nil {
		return fmt.Errorf("updating item statuses for order %d: %w", orderID, err)
	}
	return nil
}

// AddItem persists a new order item and fills in its generated id.
func (r *OrderRepository) AddItem(ctx context.Context, item *order.Item) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
		item.Notes, string(item.Status)).
		Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("adding item to order %d: %w", item.OrderID, err)
	}
	return nil
}

// UpdateItemSubtotal writes a recomputed item subtotal.
func (r *OrderRepository) UpdateItemSubtotal(ctx context.Context, itemID int64, subtotal decimal.Decimal) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE order_items SET subtotal = $2 WHERE id = $1`, itemID, subtotal)
	if err != nil {
		return fmt.Errorf("updating subtotal for item %d: %w", itemID, err)
	}
	return nil
}

// AddItemModifier persists a modifier attachment and fills in its generated id.
func (r *OrderRepository) AddItemModifier(ctx context.Context, m *order.ItemModifier) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO order_item_modifiers (order_item_id, modifier_id, price_at_time)
		VALUES ($1, $2, $3)
		RETURNING id`,
		m.ItemID, m.ModifierID, m.PriceAtTime).
		Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("attaching modifier %d to item %d: %w", m.ModifierID, m.ItemID, err)
	}
	return nil
}

// AddDiscount persists an applied discount and fills in its generated id.
func (r *OrderRepository) AddDiscount(ctx context.Context, d *order.AppliedDiscount) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO order_discounts (order_id, discount_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id`,
		d.OrderID, d.DiscountID, d.Amount).
		Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("applying discount %d to order %d: %w", d.DiscountID, d.OrderID, err)
	}
	return nil
}

// CountActiveOnTable counts active orders on a table, excluding one order id.
func (r *OrderRepository) CountActiveOnTable(ctx context.Context, tableID, excludeOrderID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE table_id = $1 AND id <> $2 AND status IN `+activeStatuses,
		tableID, excludeOrderID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting active orders on table %d: %w", tableID, err)
	}
	return n, nil
}

// SalesByDay aggregates total sales and order counts per day for PAID orders
// in the given range.
func (r *OrderRepository) SalesByDay(ctx context.Context, from, to time.Time) ([]order.DailySales, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', created_at) AS day, SUM(total), COUNT(*)
		FROM orders
		WHERE status = 'PAID' AND created_at >= $1 AND created_at <= $2
		GROUP BY day
		ORDER BY day`, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregating sales: %w", err)
	}
	defer rows.Close()

	var out []order.DailySales
	for rows.Next() {
		var ds order.DailySales
		if err := rows.Scan(&ds.Day, &ds.TotalSales, &ds.OrderCount); err != nil {
			return nil, fmt.Errorf("scanning sales row: %w", err)
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

// SalesByProduct aggregates paid-order item sales per product, biggest
// earners first.
func (r *OrderRepository) SalesByProduct(ctx context.Context, from, to time.Time) ([]order.ProductSales, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT oi.product_id, p.name, SUM(oi.quantity), SUM(oi.subtotal)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.status = 'PAID' AND o.created_at >= $1 AND o.created_at <= $2
		GROUP BY oi.product_id, p.name
		ORDER BY SUM(oi.subtotal) DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregating product sales: %w", err)
	}
	defer rows.Close()

	var out []order.ProductSales
	for rows.Next() {
		var ps order.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.Name, &ps.QuantitySold, &ps.TotalSales); err != nil {
			return nil, fmt.Errorf("scanning product sales row: %w", err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}
