package cart

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/matheusmosca/storefront/internal/auth"
	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store/memory"
)

func setup(t *testing.T) (*CartUseCase, *memory.Store, *domain.Product) {
	t.Helper()
	s := memory.New()
	product := &domain.Product{
		Name: "Lamp", Description: "Lamp", Price: 40, Category: domain.CategoryHome,
		Image: "lamp.png", Stock: 5, IsActive: true,
	}
	require.NoError(t, s.CreateProduct(context.Background(), product))
	return NewCartUseCase(s, noop.NewTracerProvider().Tracer("test")), s, product
}

func TestGet_CreatesEmptyCartOnce(t *testing.T) {
	// Arrange
	uc, s, _ := setup(t)
	ctx := context.Background()

	// Act
	first, err := uc.Get(ctx, "u1")
	require.NoError(t, err)
	second, err := uc.Get(ctx, "u1")
	require.NoError(t, err)

	// Assert
	assert.Empty(t, first.Items)
	assert.Equal(t, first.ID, second.ID)
	stored, err := s.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
}

func TestAdd_AccumulatesWithCapturedPrice(t *testing.T) {
	uc, s, product := setup(t)
	ctx := context.Background()

	_, err := uc.Add(ctx, "u1", product.ID, 2)
	require.NoError(t, err)

	product.Price = 99
	require.NoError(t, s.UpdateProduct(ctx, product))
	cart, err := uc.Add(ctx, "u1", product.ID, 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 40.0, cart.Items[0].Price)
	assert.Equal(t, 3, cart.TotalItems)
	assert.Equal(t, 120.0, cart.TotalPrice)
}

func TestAdd_Rejections(t *testing.T) {
	uc, s, product := setup(t)
	ctx := context.Background()

	_, err := uc.Add(ctx, "u1", "missing", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Add(ctx, "u1", product.ID, 6)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.Add(ctx, "u1", product.ID, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	product.IsActive = false
	require.NoError(t, s.UpdateProduct(ctx, product))
	_, err = uc.Add(ctx, "u1", product.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateItemRemoveAndClear(t *testing.T) {
	uc, _, product := setup(t)
	ctx := context.Background()

	_, err := uc.UpdateItem(ctx, "u1", "any", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Remove(ctx, "u1", "any")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cart, err := uc.Add(ctx, "u1", product.ID, 1)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = uc.UpdateItem(ctx, "u1", itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 160.0, cart.TotalPrice)

	_, err = uc.UpdateItem(ctx, "u1", "missing", 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cart, err = uc.Remove(ctx, "u1", "missing")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	cart, err = uc.UpdateItem(ctx, "u1", itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = uc.Add(ctx, "u1", product.ID, 2)
	require.NoError(t, err)
	cart, err = uc.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice)

	fresh, err := uc.Clear(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, fresh.Items)
}

// MockRepository para falhas do store
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	cart, _ := args.Get(0).(*domain.Cart)
	return cart, args.Error(1)
}

func (m *MockRepository) SaveCart(ctx context.Context, cart *domain.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

func (m *MockRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*domain.Product)
	return product, args.Error(1)
}

func TestGet_StoreErrorIsNotTreatedAsMissing(t *testing.T) {
	repo := new(MockRepository)
	boom := errors.New("connection reset")
	repo.On("GetCart", mock.Anything, "u1").Return(nil, boom)

	_, err := NewCartUseCase(repo, noop.NewTracerProvider().Tracer("test")).Get(context.Background(), "u1")

	assert.ErrorIs(t, err, boom)
	repo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
}

func TestCartHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	uc, _, product := setup(t)
	handler := NewCartHandler(uc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		auth.SetPrincipal(c, auth.Principal{UserID: "u1"})
		c.Next()
	})
	router.POST("/api/cart", handler.Add)
	router.PUT("/api/cart/:itemId", handler.UpdateItem)
	srv := httptest.NewServer(router)
	defer srv.Close()
	client := resty.New().SetBaseURL(srv.URL)

	var added struct {
		Cart domain.Cart `json:"cart"`
	}
	resp, err := client.R().SetBody(map[string]any{"productId": product.ID}).SetResult(&added).Post("/api/cart")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode())
	require.Len(t, added.Cart.Items, 1)
	assert.Equal(t, 1, added.Cart.Items[0].Quantity)

	resp, err = client.R().SetBody(map[string]any{}).Put("/api/cart/" + added.Cart.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	resp, err = client.R().SetBody(map[string]any{"productId": product.ID, "quantity": 50}).Post("/api/cart")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
}
