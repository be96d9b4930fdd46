package users

import (
	"context"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

// UserRepository é o acesso a dados de contas
type UserRepository interface {
	ListUsers(ctx context.Context, q store.UserQuery, p store.Page) ([]domain.User, int64, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

// OrderReader são as leituras de pedidos feitas pelas estatísticas de
// conta. Implementado pelo caso de uso de pedidos.
type OrderReader interface {
	SummarizeUserOrders(ctx context.Context, userID string, paidOnly bool) (domain.OrderSummary, error)
	RecentUserOrders(ctx context.Context, userID string, n int) ([]domain.Order, error)
	CountUserOrders(ctx context.Context, userID string, statuses ...domain.OrderStatus) (int64, error)
	UserStatusCounts(ctx context.Context, userID string) ([]domain.StatusCount, error)
}
