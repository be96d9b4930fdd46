package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/matheusmosca/storefront/internal/auth"
	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/idempotency"
	"github.com/matheusmosca/storefront/internal/store/memory"
)

type envelope struct {
	Success bool          `json:"success"`
	Error   string        `json:"error"`
	Order   *domain.Order `json:"order"`
}

func newTestServer(t *testing.T, s *memory.Store) *resty.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	guard := idempotency.NewGuard(idempotency.NewMemoryStore(), time.Hour)
	handler := NewOrderHandler(NewOrderUseCase(s, noop.NewTracerProvider().Tracer("test"), nil, guard))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		auth.SetPrincipal(c, auth.Principal{UserID: c.GetHeader("X-Test-User")})
		c.Next()
	})
	router.POST("/api/orders", handler.CreateOrder)
	router.GET("/api/orders/:id", handler.GetOrderByID)
	router.POST("/api/orders/:id/cancel", handler.CancelOrder)
	router.PUT("/api/orders/admin/:id", handler.UpdateOrderStatus)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return resty.New().SetBaseURL(srv.URL)
}

func seedCart(t *testing.T, s *memory.Store, userID string, stock, qty int) *domain.Product {
	t.Helper()
	ctx := context.Background()
	product := &domain.Product{
		Name: "Lamp", Description: "Lamp", Price: 40, Category: domain.CategoryHome,
		Image: "x.png", Stock: stock, IsActive: true,
	}
	require.NoError(t, s.CreateProduct(ctx, product))
	cart := domain.NewCart(userID)
	cart.AddProduct(product, qty)
	require.NoError(t, s.SaveCart(ctx, cart))
	return product
}

func TestCreateOrderHandler_CreatesAndReplays(t *testing.T) {
	// Arrange
	s := memory.New()
	seedCart(t, s, "u1", 5, 2)
	client := newTestServer(t, s)

	// Act
	var first envelope
	resp, err := client.R().
		SetHeader("X-Test-User", "u1").
		SetHeader(IdempotencyHeader, "abc").
		SetBody(validRequest).
		SetResult(&first).
		Post("/api/orders")
	require.NoError(t, err)

	var second envelope
	replay, err := client.R().
		SetHeader("X-Test-User", "u1").
		SetHeader(IdempotencyHeader, "abc").
		SetBody(validRequest).
		SetResult(&second).
		Post("/api/orders")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.StatusCode())
	assert.True(t, first.Success)
	require.NotNil(t, first.Order)
	assert.Equal(t, 80.0, first.Order.ItemsPrice)
	assert.Equal(t, http.StatusOK, replay.StatusCode())
	assert.Equal(t, "true", replay.Header().Get(ReplayedHeader))
	assert.Equal(t, first.Order.ID, second.Order.ID)
}

func TestCreateOrderHandler_EmptyCartIs400(t *testing.T) {
	client := newTestServer(t, memory.New())

	var body envelope
	resp, err := client.R().
		SetHeader("X-Test-User", "u1").
		SetBody(validRequest).
		SetError(&body).
		Post("/api/orders")

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.False(t, body.Success)
	assert.Equal(t, "Cart is empty", body.Error)
}

func TestCreateOrderHandler_MissingPaymentMethodIs400(t *testing.T) {
	client := newTestServer(t, memory.New())

	resp, err := client.R().
		SetHeader("X-Test-User", "u1").
		SetBody(map[string]any{"shippingAddress": validRequest.ShippingAddress}).
		Post("/api/orders")

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
}

func TestOrderHandlers_ForbiddenAndNotFound(t *testing.T) {
	s := memory.New()
	seedCart(t, s, "u1", 5, 1)
	client := newTestServer(t, s)

	var created envelope
	_, err := client.R().SetHeader("X-Test-User", "u1").SetBody(validRequest).SetResult(&created).Post("/api/orders")
	require.NoError(t, err)
	require.NotNil(t, created.Order)

	var body envelope
	resp, err := client.R().SetHeader("X-Test-User", "u2").SetError(&body).Get("/api/orders/" + created.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())
	assert.Equal(t, "Not authorized to view this order", body.Error)

	resp, err = client.R().SetHeader("X-Test-User", "u1").Get("/api/orders/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())

	resp, err = client.R().SetHeader("X-Test-User", "u2").Post("/api/orders/" + created.Order.ID + "/cancel")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())
}

func TestCancelOrderHandler_RestoresStock(t *testing.T) {
	s := memory.New()
	product := seedCart(t, s, "u1", 5, 3)
	client := newTestServer(t, s)

	var created envelope
	_, err := client.R().SetHeader("X-Test-User", "u1").SetBody(validRequest).SetResult(&created).Post("/api/orders")
	require.NoError(t, err)

	var cancelled envelope
	resp, err := client.R().
		SetHeader("X-Test-User", "u1").
		SetBody(CancelRequest{Reason: "too slow"}).
		SetResult(&cancelled).
		Post("/api/orders/" + created.Order.ID + "/cancel")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Order.OrderStatus)
	got, err := s.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestUpdateOrderStatusHandler_IllegalTransitionIs400(t *testing.T) {
	s := memory.New()
	seedCart(t, s, "u1", 5, 1)
	client := newTestServer(t, s)

	var created envelope
	_, err := client.R().SetHeader("X-Test-User", "u1").SetBody(validRequest).SetResult(&created).Post("/api/orders")
	require.NoError(t, err)

	var body envelope
	resp, err := client.R().
		SetBody(UpdateStatusRequest{Status: "delivered"}).
		SetError(&body).
		Put("/api/orders/admin/" + created.Order.ID)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "Cannot change order status from pending to delivered", body.Error)
}
