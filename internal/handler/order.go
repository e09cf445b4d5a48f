package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/c010r/lollypos/internal/domain/order"
	"github.com/c010r/lollypos/internal/domain/payment"
)

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

type createOrderRequest struct {
	EmployeeID      int64  `json:"employee_id"`
	TableID         *int64 `json:"table_id"`
	CustomerID      *int64 `json:"customer_id"`
	OrderType       string `json:"order_type"`
	Notes           string `json:"notes"`
	DeliveryAddress string `json:"delivery_address"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.Create(r.Context(), order.CreateRequest{
		EmployeeID:      req.EmployeeID,
		TableID:         req.TableID,
		CustomerID:      req.CustomerID,
		Type:            req.OrderType,
		Notes:           req.Notes,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeOrder(e, o)
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid order id")
		return
	}

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeOrder(e, o)
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) listActiveOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListActive(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	e.Arr(func(e *jx.Encoder) {
		for i := range orders {
			encodeOrder(e, &orders[i])
		}
	})
	writeJSON(w, http.StatusOK, e)
}

// listOrdersByDate returns all orders created on the given calendar day,
// regardless of status.
func (h *Handler) listOrdersByDate(w http.ResponseWriter, r *http.Request) {
	day, err := time.Parse(time.DateOnly, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}

	orders, err := h.reports.ListByDate(r.Context(), day)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	e.Arr(func(e *jx.Encoder) {
		for i := range orders {
			encodeOrder(e, &orders[i])
		}
	})
	writeJSON(w, http.StatusOK, e)
}

type addItemRequest struct {
	ProductID int64            `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Notes     string           `json:"notes"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid order id")
		return
	}
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	res, err := h.orders.AddItem(r.Context(), order.AddItemRequest{
		OrderID:   orderID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Notes:     req.Notes,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	e.Obj(func(e *jx.Encoder) {
		e.Field("item", func(e *jx.Encoder) { encodeItem(e, res.Item) })
		e.Field("order", func(e *jx.Encoder) { encodeOrder(e, res.Order) })
		if len(res.Shortfalls) > 0 {
			e.Field("stock_warnings", func(e *jx.Encoder) { encodeShortfalls(e, res.Shortfalls) })
		}
	})
	writeJSON(w, http.StatusCreated, e)
}

type attachModifierRequest struct {
	ModifierID  int64            `json:"modifier_id"`
	PriceAtTime *decimal.Decimal `json:"price_at_time"`
}

func (h *Handler) attachModifier(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	itemID, ok2 := pathID(r, "itemID")
	if !ok || !ok2 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid order or item id")
		return
	}
	var req attachModifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	res, err := h.orders.AttachModifier(r.Context(), order.AttachModifierRequest{
		OrderID:     orderID,
		ItemID:      itemID,
		ModifierID:  req.ModifierID,
		PriceAtTime: req.PriceAtTime,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	e.Obj(func(e *jx.Encoder) {
		e.Field("item", func(e *jx.Encoder) { encodeItem(e, res.Item) })
		e.Field("order", func(e *jx.Encoder) { encodeOrder(e, res.Order) })
	})
	writeJSON(w, http.StatusCreated, e)
}

type applyDiscountRequest struct {
	DiscountID int64  `json:"discount_id"`
	Code       string `json:"code"`
}

func (h *Handler) applyDiscount(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid order id")
		return
	}
	var req applyDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	var (
		o   *order.Order
		err error
	)
	switch {
	case req.Code != "" && req.DiscountID != 0:
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "provide either discount_id or code, not both")
		return
	case req.Code != "":
		o, err = h.orders.ApplyDiscountCode(r.Context(), orderID, req.Code)
	case req.DiscountID != 0:
		o, err = h.orders.ApplyDiscount(r.Context(), orderID, req.DiscountID)
	default:
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "discount_id or code is required")
		return
	}
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeOrder(e, o)
	writeJSON(w, http.StatusCreated, e)
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) changeOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid order id")
		return
	}
	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.ChangeStatus(r.Context(), orderID, req.Status)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeOrder(e, o)
	writeJSON(w, http.StatusOK, e)
}

type recordPaymentRequest struct {
	MethodID  int64           `json:"payment_method_id"`
	Amount    decimal.Decimal `json:"amount"`
	Tip       decimal.Decimal `json:"tip"`
	Reference string          `json:"reference"`
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid order id")
		return
	}
	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	res, err := h.payments.Record(r.Context(), payment.RecordRequest{
		OrderID:   orderID,
		MethodID:  req.MethodID,
		Amount:    req.Amount,
		Tip:       req.Tip,
		Reference: req.Reference,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	e.Obj(func(e *jx.Encoder) {
		e.Field("payment_id", func(e *jx.Encoder) { e.Int64(res.Payment.ID) })
		e.Field("total_paid", func(e *jx.Encoder) { encodeMoney(e, res.TotalPaid) })
		e.Field("balance", func(e *jx.Encoder) { encodeMoney(e, res.Balance) })
		e.Field("order_paid", func(e *jx.Encoder) { e.Bool(res.OrderPaid) })
		e.Field("table_released", func(e *jx.Encoder) { e.Bool(res.TableReleased) })
	})
	writeJSON(w, http.StatusCreated, e)
}
