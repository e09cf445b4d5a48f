// Package handler exposes the order engine over HTTP with JSON bodies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/c010r/lollypos/internal/domain/catalog"
	"github.com/c010r/lollypos/internal/domain/discount"
	"github.com/c010r/lollypos/internal/domain/inventory"
	"github.com/c010r/lollypos/internal/domain/order"
	"github.com/c010r/lollypos/internal/domain/payment"
	"github.com/c010r/lollypos/internal/domain/table"
)

// ReportStore provides the sales report aggregations and date-scoped order
// browsing.
type ReportStore interface {
	SalesByDay(ctx context.Context, from, to time.Time) ([]order.DailySales, error)
	SalesByProduct(ctx context.Context, from, to time.Time) ([]order.ProductSales, error)
	ListByDate(ctx context.Context, day time.Time) ([]order.Order, error)
}

// Handler wires the HTTP surface to the domain services.
type Handler struct {
	orders    *order.Service
	payments  *payment.Service
	tables    table.Repository
	catalog   catalog.Repository
	stock     inventory.Repository
	discounts discount.Repository
	reports   ReportStore
	now       func() time.Time
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	orders *order.Service,
	payments *payment.Service,
	tables table.Repository,
	cat catalog.Repository,
	stock inventory.Repository,
	discounts discount.Repository,
	reports ReportStore,
) *Handler {
	return &Handler{
		orders:    orders,
		payments:  payments,
		tables:    tables,
		catalog:   cat,
		stock:     stock,
		discounts: discounts,
		reports:   reports,
		now:       time.Now,
	}
}

// Routes registers all API endpoints on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders/active", h.listActiveOrders)
	mux.HandleFunc("GET /api/orders/by-date", h.listOrdersByDate)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.HandleFunc("POST /api/orders/{id}/items", h.addItem)
	mux.HandleFunc("POST /api/orders/{id}/items/{itemID}/modifiers", h.attachModifier)
	mux.HandleFunc("POST /api/orders/{id}/discounts", h.applyDiscount)
	mux.HandleFunc("POST /api/orders/{id}/status", h.changeOrderStatus)
	mux.HandleFunc("POST /api/orders/{id}/payments", h.recordPayment)
	mux.HandleFunc("POST /api/tables/{id}/status", h.changeTableStatus)
	mux.HandleFunc("GET /api/tables/{id}/orders", h.listTableOrders)
	mux.HandleFunc("GET /api/discounts/validate", h.validateDiscountCode)
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/ingredients/low-stock", h.listLowStock)
	mux.HandleFunc("GET /api/reports/sales-by-day", h.salesByDay)
	mux.HandleFunc("GET /api/reports/sales-by-product", h.salesByProduct)

	return mux
}
