//go:build integration

package mongodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

func startMongo(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	cfg := Config{URI: fmt.Sprintf("mongodb://%s:%s", host, port.Port()), Database: "storefront"}
	client, err := Connect(ctx, cfg)
	require.NoError(t, err)

	s := New(client, cfg)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func TestMongo_CompensatingRollback(t *testing.T) {
	ctx := context.Background()
	s := startMongo(t)

	product := &domain.Product{
		Name: "Lamp", Description: "Desk lamp", Price: 300, Category: domain.CategoryHome,
		Image: "lamp.png", Brand: domain.DefaultBrand, Stock: 3, IsActive: true,
	}
	require.NoError(t, s.CreateProduct(ctx, product))
	cart := domain.NewCart("u1")
	cart.AddProduct(product, 1)
	require.NoError(t, s.SaveCart(ctx, cart))
	order := domain.NewOrder("u1", cart.Items, domain.Address{}, "card")

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, s.CreateOrder(ctx, tx, order))
	require.NoError(t, s.DecreaseStock(ctx, tx, product.ID, 1))
	require.NoError(t, s.ClearCart(ctx, tx, "u1"))
	assert.ErrorIs(t, s.DecreaseStock(ctx, tx, product.ID, 5), domain.ErrInsufficientStock)
	require.NoError(t, tx.Rollback())

	_, err = s.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := s.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
	storedCart, err := s.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, storedCart.Items, 1)
}

func TestMongo_AggregatesAndUsers(t *testing.T) {
	ctx := context.Background()
	s := startMongo(t)

	require.NoError(t, s.CreateUser(ctx, &domain.User{Name: "Ana", Email: "ana@example.com"}))
	assert.ErrorIs(t, s.CreateUser(ctx, &domain.User{Name: "Ana", Email: "ANA@example.com"}), domain.ErrConflict)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	for _, price := range []float64{300, 600} {
		order := domain.NewOrder("u1", []domain.CartItem{{ProductID: "p", Price: price, Quantity: 1}}, domain.Address{}, "card")
		require.NoError(t, s.CreateOrder(ctx, tx, order))
	}
	require.NoError(t, tx.Commit())

	summary, err := s.SummarizeOrders(ctx, store.OrderQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.TotalOrders)
	assert.InDelta(t, 453.0+708.0, summary.TotalSales, 1e-9)

	counts, err := s.OrderStatusCounts(ctx, store.OrderQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []domain.StatusCount{{Status: domain.OrderStatusPending, Count: 2}}, counts)
}

func TestMongo_MonthlySalesKeepsNewestTwelve(t *testing.T) {
	ctx := context.Background()
	s := startMongo(t)

	start := time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)
	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	for i := 0; i < 14; i++ {
		order := domain.NewOrder("u1", []domain.CartItem{{ProductID: "p", Price: 100, Quantity: 1}}, domain.Address{}, "cod")
		order.CreatedAt = start.AddDate(0, i, 0)
		require.NoError(t, s.CreateOrder(ctx, tx, order))
	}
	require.NoError(t, tx.Commit())

	monthly, err := s.MonthlySales(ctx, store.OrderQuery{}, 12)
	require.NoError(t, err)

	require.Len(t, monthly, 12)
	assert.Equal(t, 2024, monthly[0].Year)
	assert.Equal(t, 2, monthly[0].Month)
	assert.Equal(t, 2023, monthly[11].Year)
	assert.Equal(t, 3, monthly[11].Month)
}
