package orders

import (
	"context"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

// OrderRepository é o acesso a dados usado pelo fluxo de pedidos. As
// escritas recebem a transação aberta por BeginTx.
type OrderRepository interface {
	BeginTx(ctx context.Context) (store.Tx, error)

	GetCartForUpdate(ctx context.Context, tx store.Tx, userID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, tx store.Tx, userID string) error

	GetProductForUpdate(ctx context.Context, tx store.Tx, id string) (*domain.Product, error)
	DecreaseStock(ctx context.Context, tx store.Tx, id string, quantity int) error
	IncreaseStock(ctx context.Context, tx store.Tx, id string, quantity int) error

	CreateOrder(ctx context.Context, tx store.Tx, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	GetOrderForUpdate(ctx context.Context, tx store.Tx, id string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, tx store.Tx, order *domain.Order) error
	ListOrders(ctx context.Context, q store.OrderQuery, p store.Page) ([]domain.Order, int64, error)
	CountOrders(ctx context.Context, q store.OrderQuery) (int64, error)

	SummarizeOrders(ctx context.Context, q store.OrderQuery) (domain.OrderSummary, error)
	MonthlySales(ctx context.Context, q store.OrderQuery, limit int) ([]domain.MonthlySales, error)
	OrderStatusCounts(ctx context.Context, q store.OrderQuery) ([]domain.StatusCount, error)

	UserRefs(ctx context.Context, ids []string) (map[string]domain.UserRef, error)
}
