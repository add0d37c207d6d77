package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CuentaPorPatronDeRuta(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/productos/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", m.Handler())

	for _, id := range []string{"1", "2"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/productos/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/productos/:id", "200")))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "bazar_http_requests_total")
}

func TestRecorder_Pedidos(t *testing.T) {
	m := New()
	m.OrderCreated(2, decimal.RequireFromString("160.05"))
	m.OrderRejected("stock")
	m.OrderRejected("stock")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersCreated))
	assert.InDelta(t, 160.05, testutil.ToFloat64(m.salesTotal), 0.0001)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersRejected.WithLabelValues("stock")))
}
