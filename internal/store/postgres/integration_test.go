//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

func startPostgres(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "storefront",
				"POSTGRES_PASSWORD": "storefront",
				"POSTGRES_DB":       "storefront",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pool, err := Connect(ctx, Config{
		User: "storefront", Password: "storefront", Host: host, Port: port.Port(), Name: "storefront",
	})
	require.NoError(t, err)

	s := New(pool)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestPostgres_CheckoutRollbackAndCommit(t *testing.T) {
	ctx := context.Background()
	s := startPostgres(t)

	product := &domain.Product{
		Name: "Lamp", Description: "Desk lamp", Price: 300, Category: domain.CategoryHome,
		Image: "lamp.png", Brand: domain.DefaultBrand, Stock: 2, IsActive: true,
	}
	require.NoError(t, s.CreateProduct(ctx, product))

	cart := domain.NewCart("u1")
	cart.AddProduct(product, 2)
	require.NoError(t, s.SaveCart(ctx, cart))
	order := domain.NewOrder("u1", cart.Items, domain.Address{City: "Recife"}, "pix")

	// rollback
	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, s.CreateOrder(ctx, tx, order))
	require.NoError(t, s.DecreaseStock(ctx, tx, product.ID, 2))
	require.NoError(t, tx.Rollback())

	_, err = s.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := s.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	// commit
	tx, err = s.BeginTx(ctx)
	require.NoError(t, err)
	_, err = s.GetCartForUpdate(ctx, tx, "u1")
	require.NoError(t, err)
	require.NoError(t, s.CreateOrder(ctx, tx, order))
	require.NoError(t, s.DecreaseStock(ctx, tx, product.ID, 2))
	assert.ErrorIs(t, s.DecreaseStock(ctx, tx, product.ID, 1), domain.ErrInsufficientStock)
	require.NoError(t, s.ClearCart(ctx, tx, "u1"))
	require.NoError(t, tx.Commit())

	stored, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Items, stored.Items)
	assert.Equal(t, "Recife", stored.ShippingAddress.City)
	assert.InDelta(t, 708.0, stored.TotalPrice, 1e-9)

	storedCart, err := s.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, storedCart.Items)

	summary, err := s.SummarizeOrders(ctx, store.OrderQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.TotalOrders)

	monthly, err := s.MonthlySales(ctx, store.OrderQuery{}, 12)
	require.NoError(t, err)
	require.Len(t, monthly, 1)
	assert.EqualValues(t, 1, monthly[0].Orders)
}

func TestPostgres_UserEmailConflict(t *testing.T) {
	ctx := context.Background()
	s := startPostgres(t)

	require.NoError(t, s.CreateUser(ctx, &domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x"}))
	err := s.CreateUser(ctx, &domain.User{Name: "Ana 2", Email: "ANA@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	users, total, err := s.ListUsers(ctx, store.UserQuery{Search: "ANA"}, store.NewPage(1, 20, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, users, 1)
}

func TestPostgres_MonthlySalesKeepsNewestTwelve(t *testing.T) {
	ctx := context.Background()
	s := startPostgres(t)

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
