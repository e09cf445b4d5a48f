//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createOrder posts a new dine-in order on the given table and returns it.
func createOrder(t *testing.T, tableID int64) orderResponse {
	t.Helper()

	resp := doPost(t, "/api/orders", map[string]any{
		"employee_id": 2,
		"table_id":    tableID,
		"order_type":  "DINE_IN",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return decodeJSON[orderResponse](t, resp)
}

func TestOrderLifecycle(t *testing.T) {
	o := createOrder(t, 1)
	assert.Equal(t, "PENDING", o.Status)
	assert.Regexp(t, `^ORD-\d{8}-[0-9a-f]{6}$`, o.OrderNumber)
	assert.Zero(t, o.Total)

	// Add two Margheritas. 2 x 9.50 = 19.00, plus 16 percent tax.
	resp := doPost(t, fmt.Sprintf("/api/orders/%d/items", o.ID), map[string]any{
		"product_id": 1,
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	added := decodeJSON[addItemResponse](t, resp)
	resp.Body.Close()

	assert.InDelta(t, 19.00, added.Item.Subtotal, 0.001)
	assert.InDelta(t, 19.00, added.Order.Subtotal, 0.001)
	assert.InDelta(t, 3.04, added.Order.Tax, 0.001)
	assert.InDelta(t, 22.04, added.Order.Total, 0.001)

	// Walk it through the kitchen.
	for _, status := range []string{"IN_PROGRESS", "READY", "SERVED"} {
		resp := doPost(t, fmt.Sprintf("/api/orders/%d/status", o.ID), map[string]any{
			"status": status,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, "transition to %s", status)
		resp.Body.Close()
	}

	// Settle in cash.
	resp = doPost(t, fmt.Sprintf("/api/orders/%d/payments", o.ID), map[string]any{
		"payment_method_id": 1,
		"amount":            22.04,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	paid := decodeJSON[paymentResponse](t, resp)
	resp.Body.Close()

	assert.True(t, paid.OrderPaid)
	assert.True(t, paid.TableReleased)
	assert.InDelta(t, 0, paid.Balance, 0.001)

	resp = doGet(t, fmt.Sprintf("/api/orders/%d", o.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	final := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	assert.Equal(t, "PAID", final.Status)
	for _, it := range final.Items {
		assert.Equal(t, "PAID", it.Status)
	}
}

func TestOrderPartialPayment(t *testing.T) {
	o := createOrder(t, 2)

	resp := doPost(t, fmt.Sprintf("/api/orders/%d/items", o.ID), map[string]any{
		"product_id": 5,
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	added := decodeJSON[addItemResponse](t, resp)
	resp.Body.Close()

	// 2 x 3.00 = 6.00, tax 0.96, total 6.96. Pay 5.00 first.
	require.InDelta(t, 6.96, added.Order.Total, 0.001)

	resp = doPost(t, fmt.Sprintf("/api/orders/%d/payments", o.ID), map[string]any{
		"payment_method_id": 2,
		"amount":            5.00,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	partial := decodeJSON[paymentResponse](t, resp)
	resp.Body.Close()

	assert.False(t, partial.OrderPaid)
	assert.InDelta(t, 1.96, partial.Balance, 0.001)

	resp = doPost(t, fmt.Sprintf("/api/orders/%d/payments", o.ID), map[string]any{
		"payment_method_id": 1,
		"amount":            1.96,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	settled := decodeJSON[paymentResponse](t, resp)
	resp.Body.Close()

	assert.True(t, settled.OrderPaid)
	assert.InDelta(t, 6.96, settled.TotalPaid, 0.001)
}

func TestOrderDiscount(t *testing.T) {
	o := createOrder(t, 3)

	resp := doPost(t, fmt.Sprintf("/api/orders/%d/items", o.ID), map[string]any{
		"product_id": 3,
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Happy Hour: 10 percent of the 17.50 subtotal.
	resp = doPost(t, fmt.Sprintf("/api/orders/%d/discounts", o.ID), map[string]any{
		"discount_id": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	discounted := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	require.Len(t, discounted.Discounts, 1)
	assert.InDelta(t, 1.75, discounted.Discounts[0].Amount, 0.001)
	// 17.50 + 2.80 tax - 1.75 = 18.55
	assert.InDelta(t, 18.55, discounted.Total, 0.001)
}

func TestOrderDiscountByCode(t *testing.T) {
	o := createOrder(t, 7)

	resp := doPost(t, fmt.Sprintf("/api/orders/%d/items", o.ID), map[string]any{
		"product_id": 5,
		"quantity":   1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// HAPPY10 is seeded: 10 percent off 3.00 = 0.30.
	resp = doPost(t, fmt.Sprintf("/api/orders/%d/discounts", o.ID), map[string]any{
		"code": "happy10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	discounted := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	require.Len(t, discounted.Discounts, 1)
	assert.InDelta(t, 0.30, discounted.Discounts[0].Amount, 0.001)
}

func TestValidatePromoCode(t *testing.T) {
	resp := doGet(t, "/api/discounts/validate?code=HAPPY10")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeJSON[map[string]any](t, resp)
	resp.Body.Close()

	assert.Equal(t, "Happy Hour", body["name"])
	assert.Equal(t, "PERCENTAGE", body["discount_type"])

	resp = doGet(t, "/api/discounts/validate?code=NOSUCHCODE")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	failure := decodeJSON[errorResponse](t, resp)
	resp.Body.Close()

	assert.Equal(t, "not_found", failure.Code)
}

func TestOrderInvalidTransition(t *testing.T) {
	o := createOrder(t, 4)

	resp := doPost(t, fmt.Sprintf("/api/orders/%d/status", o.ID), map[string]any{
		"status": "SERVED",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Backwards is rejected.
	resp = doPost(t, fmt.Sprintf("/api/orders/%d/status", o.ID), map[string]any{
		"status": "IN_PROGRESS",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeJSON[errorResponse](t, resp)
	resp.Body.Close()

	assert.Equal(t, "invalid_state", body.Code)
}

func TestOrderNotFound(t *testing.T) {
	resp := doGet(t, "/api/orders/999999")
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeJSON[errorResponse](t, resp)
	assert.Equal(t, "not_found", body.Code)
}

func TestOrderValidation(t *testing.T) {
	resp := doPost(t, "/api/orders", map[string]any{
		"order_type": "DINE_IN",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeJSON[errorResponse](t, resp)
	assert.Equal(t, "validation_failure", body.Code)
}

func TestActiveOrdersListing(t *testing.T) {
	o := createOrder(t, 5)

	resp := doGet(t, "/api/orders/active")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	active := decodeJSON[[]orderResponse](t, resp)
	resp.Body.Close()

	found := false
	for _, a := range active {
		if a.ID == o.ID {
			found = true
		}
		assert.NotEqual(t, "PAID", a.Status)
		assert.NotEqual(t, "CANCELLED", a.Status)
	}
	assert.True(t, found, "freshly created order should be active")

	// Cancel it and make sure it drops out.
	cancel := doPost(t, fmt.Sprintf("/api/orders/%d/status", o.ID), map[string]any{
		"status": "CANCELLED",
	})
	require.Equal(t, http.StatusOK, cancel.StatusCode)
	cancel.Body.Close()

	resp = doGet(t, "/api/orders/active")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	active = decodeJSON[[]orderResponse](t, resp)
	resp.Body.Close()

	for _, a := range active {
		assert.NotEqual(t, o.ID, a.ID)
	}
}

func TestTableOrders(t *testing.T) {
	const tableID = 6

	o := createOrder(t, tableID)

	resp := doGet(t, fmt.Sprintf("/api/tables/%d/orders", tableID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	held := decodeJSON[[]orderResponse](t, resp)
	resp.Body.Close()

	require.Len(t, held, 1)
	assert.Equal(t, o.ID, held[0].ID)

	cancel := doPost(t, fmt.Sprintf("/api/orders/%d/status", o.ID), map[string]any{
		"status": "CANCELLED",
	})
	require.Equal(t, http.StatusOK, cancel.StatusCode)
	cancelled := decodeJSON[orderResponse](t, cancel)
	cancel.Body.Close()

	assert.Equal(t, "CANCELLED", cancelled.Status)

	resp = doGet(t, fmt.Sprintf("/api/tables/%d/orders", tableID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	held = decodeJSON[[]orderResponse](t, resp)
	resp.Body.Close()

	assert.Empty(t, held)
}
