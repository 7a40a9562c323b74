package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/shopstore/pkg/actors"
	"github.com/example/shopstore/pkg/config"
	"github.com/example/shopstore/pkg/repository"
	"github.com/example/shopstore/pkg/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("database is down") }

type testServer struct {
	gateway *Gateway
	db      *repository.Database
	logs    *observer.ObservedLogs
}

func newTestServer(t *testing.T, cfg config.GatewayConfig) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", LogLevel: "silent"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })

	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	orders := service.NewOrderService(db, service.OrderPolicy{AllowEmpty: true})
	dispatcher, err := actors.NewDispatcher(orders, 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(dispatcher.Stop)

	g := NewGateway(&cfg, log, db, Services{
		Catalog:   service.NewCatalogService(db),
		Customers: service.NewCustomerService(db),
		Orders:    orders,
		Billing:   service.NewBillingService(db),
		Placer:    dispatcher,
	})
	g.SetupRoutes()
	return &testServer{gateway: g, db: db, logs: logs}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.gateway.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type jsonObject = map[string]interface{}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.GatewayConfig{})

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[jsonObject](t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = httptest.NewRecorder()
	s.gateway.Handler().ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	entries := s.logs.FilterMessage("HTTP request").All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "req-42", entries[len(entries)-1].ContextMap()["request_id"])

	down := NewGateway(&config.GatewayConfig{}, zap.NewNop(), failingPinger{}, Services{})
	down.SetupRoutes()
	w = httptest.NewRecorder()
	down.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProducts(t *testing.T) {
	s := newTestServer(t, config.GatewayConfig{})

	w := s.do(t, http.MethodPost, "/api/products", jsonObject{
		"product_name":       "Laptop",
		"description":        "High-performance laptop",
		"price":              999.99,
		"quantity_available": 10,
		"image_url":          "https://example.com/laptop.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[jsonObject](t, w)
	assert.Equal(t, true, created["success"])
	assert.Equal(t, float64(1), created["product_id"])

	t.Run("list", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products", nil)
		require.Equal(t, http.StatusOK, w.Code)
		products := decode[[]jsonObject](t, w)
		require.Len(t, products, 1)
		assert.Equal(t, "Laptop", products[0]["product_name"])
		assert.Equal(t, 999.99, products[0]["price"])
		assert.Equal(t, float64(10), products[0]["quantity_available"])
	})

	t.Run("get", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://example.com/laptop.jpg", decode[jsonObject](t, w)["image_url"])
	})

	t.Run("get missing", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products/99", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decode[jsonObject](t, w)
		assert.Equal(t, "Product not found", body["error"])
		assert.Equal(t, "NOT_FOUND", body["code"])
	})

	t.Run("bad id", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode[jsonObject](t, w)["code"])
	})

	invalid := []struct {
		name string
		body interface{}
	}{
		{"missing name", jsonObject{"price": 1, "quantity_available": 1}},
		{"missing price", jsonObject{"product_name": "x", "quantity_available": 1}},
		{"missing quantity", jsonObject{"product_name": "x", "price": 1}},
		{"negative price", jsonObject{"product_name": "x", "price": -1, "quantity_available": 1}},
		{"malformed json", "{"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/products", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode[jsonObject](t, w)["error"])
		})
	}
}

func TestCustomers(t *testing.T) {
	s := newTestServer(t, config.GatewayConfig{})

	body := jsonObject{
		"customer_name": "Ada Lovelace",
		"email":         "ada@example.com",
		"phone":         "555-0199",
		"address":       "12 St James's Square",
		"city":          "London",
	}
	w := s.do(t, http.MethodPost, "/api/customers", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decode[jsonObject](t, w)["customer_id"])

	w = s.do(t, http.MethodPost, "/api/customers", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	dup := decode[jsonObject](t, w)
	assert.Equal(t, "Email already exists", dup["error"])
	assert.Equal(t, "DUPLICATE_EMAIL", dup["code"])

	w = s.do(t, http.MethodPost, "/api/customers", jsonObject{"customer_name": "No Email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	customers := decode[[]jsonObject](t, w)
	require.Len(t, customers, 1)
	assert.Equal(t, "London", customers[0]["city"])
}

func TestOrders(t *testing.T) {
	s := newTestServer(t, config.GatewayConfig{})

	for _, p := range []jsonObject{
		{"product_name": "USB-C Cable", "price": 19.99, "quantity_available": 100},
		{"product_name": "Keyboard", "price": 149.99, "quantity_available": 1},
	} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/products", p).Code)
	}
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/customers", jsonObject{
		"customer_name": "Grace Hopper", "email": "grace@example.com", "city": "Arlington",
	}).Code)

	w := s.do(t, http.MethodPost, "/api/orders", jsonObject{
		"customer_id": 1,
		"items": []jsonObject{
			{"product_id": 1, "quantity": 2},
			{"product_id": 2, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placed := decode[jsonObject](t, w)
	assert.Equal(t, true, placed["success"])
	assert.Equal(t, float64(1), placed["order_id"])
	assert.Equal(t, 189.97, placed["total_amount"])

	t.Run("customer orders", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/orders/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		orders := decode[[]jsonObject](t, w)
		require.Len(t, orders, 1)
		assert.Equal(t, "pending", orders[0]["status"])

		w = s.do(t, http.MethodGet, "/api/orders/7", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("order items", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/orders/1/items", nil)
		require.Equal(t, http.StatusOK, w.Code)
		items := decode[[]jsonObject](t, w)
		require.Len(t, items, 2)
		assert.Equal(t, "USB-C Cable", items[0]["product_name"])
		assert.Equal(t, 39.98, items[0]["subtotal"])
		assert.Equal(t, "Keyboard", items[1]["product_name"])

		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/orders/x/items", nil).Code)
	})

	t.Run("bill", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/orders/1/bill", nil)
		require.Equal(t, http.StatusOK, w.Code)
		bill := decode[jsonObject](t, w)
		assert.Equal(t, "Grace Hopper", bill["customer_name"])
		assert.Equal(t, "grace@example.com", bill["email"])
		assert.Equal(t, 189.97, bill["total_amount"])
		assert.Len(t, bill["items"], 2)

		w = s.do(t, http.MethodGet, "/api/orders/999/bill", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Order not found", decode[jsonObject](t, w)["error"])
	})

	rejected := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{"unknown product", jsonObject{"customer_id": 1, "items": []jsonObject{{"product_id": 42, "quantity": 1}}}, http.StatusNotFound, "NOT_FOUND"},
		{"unknown customer", jsonObject{"customer_id": 42, "items": []jsonObject{{"product_id": 1, "quantity": 1}}}, http.StatusNotFound, "NOT_FOUND"},
		{"insufficient stock", jsonObject{"customer_id": 1, "items": []jsonObject{{"product_id": 2, "quantity": 1}}}, http.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"zero quantity", jsonObject{"customer_id": 1, "items": []jsonObject{{"product_id": 1, "quantity": 0}}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing customer", jsonObject{"items": []jsonObject{{"product_id": 1, "quantity": 1}}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing quantity", jsonObject{"customer_id": 1, "items": []jsonObject{{"product_id": 1}}}, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/orders", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[jsonObject](t, w)["code"])
		})
	}

	t.Run("empty order", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/orders", jsonObject{"customer_id": 1, "items": []jsonObject{}})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, float64(0), decode[jsonObject](t, w)["total_amount"])
	})

	t.Run("missing items is an empty order", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/orders", jsonObject{"customer_id": 1})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, float64(0), decode[jsonObject](t, w)["total_amount"])
	})
}

func TestRecovery(t *testing.T) {
	s := newTestServer(t, config.GatewayConfig{})
	s.gateway.router.GET("/boom", func(*gin.Context) { panic("boom") })

	w := s.do(t, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, codeInternal, decode[jsonObject](t, w)["code"])
	assert.Equal(t, 1, s.logs.FilterMessage("Panic recovered").Len())
}

func TestSwaggerRoute(t *testing.T) {
	off := newTestServer(t, config.GatewayConfig{})
	assert.Equal(t, http.StatusNotFound, off.do(t, http.MethodGet, "/swagger/index.html", nil).Code)

	on := newTestServer(t, config.GatewayConfig{Swagger: true})
	assert.Equal(t, http.StatusOK, on.do(t, http.MethodGet, "/swagger/index.html", nil).Code)
}
