package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/c010r/lollypos/internal/domain/catalog"
	"github.com/c010r/lollypos/internal/domain/discount"
	"github.com/c010r/lollypos/internal/domain/inventory"
	"github.com/c010r/lollypos/internal/domain/order"
	"github.com/c010r/lollypos/internal/domain/payment"
	"github.com/c010r/lollypos/internal/domain/table"
)

// writeJSON sends the encoder's buffer with the given status code.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError sends a structured error body: {"code": ..., "message": ...}.
func writeError(w http.ResponseWriter, status int, code, message string) {
	e := &jx.Encoder{}
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
	})
	writeJSON(w, status, e)
}

// Error taxonomy codes shared across all endpoints.
const (
	codeNotFound     = "not_found"
	codeInvalidState = "invalid_state"
	codeValidation   = "validation_failure"
	codeBadRequest   = "bad_request"
	codeInternal     = "internal_error"
)

// writeDomainError maps domain errors onto the error taxonomy. Unknown errors
// are logged and surface as 500.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, order.ErrItemNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrModifierNotFound),
		errors.Is(err, discount.ErrNotFound),
		errors.Is(err, table.ErrNotFound),
		errors.Is(err, payment.ErrMethodNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
		return

	case errors.Is(err, discount.ErrInactive),
		errors.Is(err, discount.ErrOutsideWindow):
		writeError(w, http.StatusConflict, codeInvalidState, err.Error())
		return

	case errors.Is(err, order.ErrEmployeeRequired):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, err.Error())
		return
	}

	var (
		invalidStatus      *order.InvalidStatusError
		invalidTableStatus *table.InvalidStatusError
		transition         *order.TransitionError
		invalidQty         *order.InvalidQuantityError
		duplicateMod       *order.DuplicateModifierError
		negativeAmount     *payment.NegativeAmountError
	)
	switch {
	case errors.As(err, &invalidStatus), errors.As(err, &invalidTableStatus):
		writeError(w, http.StatusBadRequest, codeInvalidState, err.Error())
	case errors.As(err, &transition), errors.As(err, &duplicateMod):
		writeError(w, http.StatusConflict, codeInvalidState, err.Error())
	case errors.As(err, &invalidQty), errors.As(err, &negativeAmount):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, err.Error())
	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func encodeMoney(e *jx.Encoder, d interface{ InexactFloat64() float64 }) {
	e.Float64(d.InexactFloat64())
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(o.ID) })
		e.Field("order_number", func(e *jx.Encoder) { e.Str(o.Number) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(o.Status)) })
		e.Field("order_type", func(e *jx.Encoder) { e.Str(string(o.Type)) })
		e.Field("employee_id", func(e *jx.Encoder) { e.Int64(o.EmployeeID) })
		if o.TableID != nil {
			e.Field("table_id", func(e *jx.Encoder) { e.Int64(*o.TableID) })
		}
		if o.CustomerID != nil {
			e.Field("customer_id", func(e *jx.Encoder) { e.Int64(*o.CustomerID) })
		}
		e.Field("subtotal", func(e *jx.Encoder) { encodeMoney(e, o.Subtotal) })
		e.Field("tax", func(e *jx.Encoder) { encodeMoney(e, o.Tax) })
		e.Field("total", func(e *jx.Encoder) { encodeMoney(e, o.Total) })
		if o.Notes != "" {
			e.Field("notes", func(e *jx.Encoder) { e.Str(o.Notes) })
		}
		if o.DeliveryAddress != "" {
			e.Field("delivery_address", func(e *jx.Encoder) { e.Str(o.DeliveryAddress) })
		}
		e.Field("created_at", func(e *jx.Encoder) { e.Str(o.CreatedAt.Format("2006-01-02T15:04:05Z07:00")) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range o.Items {
					encodeItem(e, &o.Items[i])
				}
			})
		})
		e.Field("discounts", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, d := range o.Discounts {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Int64(d.ID) })
						e.Field("discount_id", func(e *jx.Encoder) { e.Int64(d.DiscountID) })
						e.Field("amount", func(e *jx.Encoder) { encodeMoney(e, d.Amount) })
					})
				}
			})
		})
	})
}

func encodeItem(e *jx.Encoder, it *order.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(it.ID) })
		e.Field("product_id", func(e *jx.Encoder) { e.Int64(it.ProductID) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(it.Quantity) })
		e.Field("unit_price", func(e *jx.Encoder) { encodeMoney(e, it.UnitPrice) })
		e.Field("subtotal", func(e *jx.Encoder) { encodeMoney(e, it.Subtotal) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(it.Status)) })
		if it.Notes != "" {
			e.Field("notes", func(e *jx.Encoder) { e.Str(it.Notes) })
		}
		e.Field("modifiers", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, m := range it.Modifiers {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Int64(m.ID) })
						e.Field("modifier_id", func(e *jx.Encoder) { e.Int64(m.ModifierID) })
						e.Field("price_at_time", func(e *jx.Encoder) { encodeMoney(e, m.PriceAtTime) })
					})
				}
			})
		})
	})
}

func encodeShortfalls(e *jx.Encoder, shortfalls []inventory.Shortfall) {
	e.Arr(func(e *jx.Encoder) {
		for _, s := range shortfalls {
			e.Obj(func(e *jx.Encoder) {
				e.Field("ingredient_id", func(e *jx.Encoder) { e.Int64(s.IngredientID) })
				e.Field("needed", func(e *jx.Encoder) { encodeMoney(e, s.Needed) })
				e.Field("available", func(e *jx.Encoder) { encodeMoney(e, s.Available) })
			})
		}
	})
}
