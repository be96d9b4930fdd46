package catalog

import (
	"context"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

// ProductRepository é o acesso ao catálogo
type ProductRepository interface {
	ListProducts(ctx context.Context, q store.ProductQuery, p store.Page) ([]domain.Product, int64, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	ProductCategories(ctx context.Context) ([]domain.Category, error)
}
