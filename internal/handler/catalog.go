package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/jx"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	e.Arr(func(e *jx.Encoder) {
		for _, p := range products {
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
				e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
				if p.Description != "" {
					e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
				}
				e.Field("price", func(e *jx.Encoder) { encodeMoney(e, p.Price) })
				e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
				e.Field("available", func(e *jx.Encoder) { e.Bool(p.Available) })
				if p.SKU != "" {
					e.Field("sku", func(e *jx.Encoder) { e.Str(p.SKU) })
				}
				e.Field("preparation_minutes", func(e *jx.Encoder) { e.Int(p.PrepMinutes) })
			})
		}
	})
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) listLowStock(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.stock.ListLowStock(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	e.Arr(func(e *jx.Encoder) {
		for _, ing := range ingredients {
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Int64(ing.ID) })
				e.Field("name", func(e *jx.Encoder) { e.Str(ing.Name) })
				e.Field("unit", func(e *jx.Encoder) { e.Str(ing.Unit) })
				e.Field("current_stock", func(e *jx.Encoder) { encodeMoney(e, ing.CurrentStock) })
				e.Field("minimum_stock", func(e *jx.Encoder) { encodeMoney(e, ing.MinimumStock) })
			})
		}
	})
	writeJSON(w, http.StatusOK, e)
}

// reportRange resolves the optional "days" query parameter (default 7) into
// a report window ending now.
func (h *Handler) reportRange(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "days must be between 1 and 365")
			return time.Time{}, time.Time{}, false
		}
		days = n
	}

	to = h.now()
	return to.AddDate(0, 0, -days), to, true
}

func (h *Handler) salesByDay(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.reportRange(w, r)
	if !ok {
		return
	}
	rows, err := h.reports.SalesByDay(r.Context(), from, to)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	e.Arr(func(e *jx.Encoder) {
		for _, row := range rows {
			e.Obj(func(e *jx.Encoder) {
				e.Field("day", func(e *jx.Encoder) { e.Str(row.Day.Format(time.DateOnly)) })
				e.Field("total_sales", func(e *jx.Encoder) { encodeMoney(e, row.TotalSales) })
				e.Field("order_count", func(e *jx.Encoder) { e.Int(row.OrderCount) })
			})
		}
	})
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) salesByProduct(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.reportRange(w, r)
	if !ok {
		return
	}
	rows, err := h.reports.SalesByProduct(r.Context(), from, to)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	e.Arr(func(e *jx.Encoder) {
		for _, row := range rows {
			e.Obj(func(e *jx.Encoder) {
				e.Field("product_id", func(e *jx.Encoder) { e.Int64(row.ProductID) })
				e.Field("name", func(e *jx.Encoder) { e.Str(row.Name) })
				e.Field("quantity_sold", func(e *jx.Encoder) { e.Int(row.QuantitySold) })
				e.Field("total_sales", func(e *jx.Encoder) { encodeMoney(e, row.TotalSales) })
			})
		}
	})
	writeJSON(w, http.StatusOK, e)
}
