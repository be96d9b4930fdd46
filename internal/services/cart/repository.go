package cart

import (
	"context"

	"github.com/matheusmosca/storefront/internal/domain"
)

// CartRepository é o acesso a dados do carrinho
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	SaveCart(ctx context.Context, cart *domain.Cart) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}
