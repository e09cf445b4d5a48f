//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	products := decodeJSON[[]productResponse](t, resp)
	require.Len(t, products, 7)

	byName := make(map[string]productResponse, len(products))
	for _, p := range products {
		byName[p.Name] = p
	}

	margherita, ok := byName["Margherita"]
	require.True(t, ok)
	assert.InDelta(t, 9.50, margherita.Price, 0.001)
	assert.Equal(t, "Pizzas", margherita.Category)

	lemonade, ok := byName["Lemonade"]
	require.True(t, ok)
	assert.InDelta(t, 3.00, lemonade.Price, 0.001)
}

func TestLowStockReport(t *testing.T) {
	resp := doGet(t, "/api/ingredients/low-stock")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	type stockRow struct {
		ID           int64   `json:"id"`
		Name         string  `json:"name"`
		Unit         string  `json:"unit"`
		CurrentStock float64 `json:"current_stock"`
		MinimumStock float64 `json:"minimum_stock"`
	}
	rows := decodeJSON[[]stockRow](t, resp)

	for _, row := range rows {
		assert.LessOrEqual(t, row.CurrentStock, row.MinimumStock)
	}
}

func TestSalesByDayReport(t *testing.T) {
	resp := doGet(t, "/api/reports/sales-by-day?days=7")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := decodeJSON[[]struct {
		Day        string  `json:"day"`
		TotalSales float64 `json:"total_sales"`
		OrderCount int     `json:"order_count"`
	}](t, resp)

	for _, row := range rows {
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, row.Day)
		assert.GreaterOrEqual(t, row.OrderCount, 1)
	}
}

func TestSalesByProductReport(t *testing.T) {
	resp := doGet(t, "/api/reports/sales-by-product?days=7")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := decodeJSON[[]struct {
		ProductID    int64   `json:"product_id"`
		Name         string  `json:"name"`
		QuantitySold int     `json:"quantity_sold"`
		TotalSales   float64 `json:"total_sales"`
	}](t, resp)

	for _, row := range rows {
		assert.NotEmpty(t, row.Name)
		assert.GreaterOrEqual(t, row.QuantitySold, 1)
	}
}

func TestSalesByDayRejectsBadRange(t *testing.T) {
	resp := doGet(t, "/api/reports/sales-by-day?days=0")
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeJSON[errorResponse](t, resp)
	assert.Equal(t, "bad_request", body.Code)
}
