// Package catalog expõe o catálogo de produtos: listagem paginada com
// filtros, CRUD administrativo com soft delete e categorias.
package catalog

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
	"github.com/matheusmosca/storefront/internal/telemetry"
)

// CatalogUseCase contém a lógica de negócio do catálogo
type CatalogUseCase struct {
	repository ProductRepository
	tracer     trace.Tracer
}

// NewCatalogUseCase cria uma nova instância de CatalogUseCase
func NewCatalogUseCase(repository ProductRepository, tracer trace.Tracer) *CatalogUseCase {
	return &CatalogUseCase{
		repository: repository,
		tracer:     tracer,
	}
}

// List retorna os produtos ativos, do mais novo para o mais antigo.
func (uc *CatalogUseCase) List(ctx context.Context, page, limit int, category, search string) (*ProductPage, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "list_products",
		attribute.String("category", category),
		attribute.String("search", search),
	)
	defer span.End()

	p := store.NewPage(page, limit, defaultPageSize)
	q := store.ProductQuery{
		Category:   domain.Category(category),
		Search:     strings.TrimSpace(search),
		ActiveOnly: true,
	}

	products, total, err := uc.repository.ListProducts(ctx, q, p)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return &ProductPage{
		Products:   products,
		Page:       p.Number,
		TotalPages: p.TotalPages(total),
		Total:      total,
	}, nil
}

// Get retorna o produto mesmo se inativo.
func (uc *CatalogUseCase) Get(ctx context.Context, id string) (*domain.Product, error) {
	return uc.repository.GetProduct(ctx, id)
}

func (uc *CatalogUseCase) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "create_product")
	defer span.End()

	product := &domain.Product{IsActive: true}
	in.applyTo(product)
	if strings.TrimSpace(product.Brand) == "" {
		product.Brand = domain.DefaultBrand
	}
	if err := product.Validate(); err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	if err := uc.repository.CreateProduct(ctx, product); err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	zap.L().Info("🆕 [CATALOG] product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// Update aplica os campos informados e valida o produto resultante.
func (uc *CatalogUseCase) Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "update_product", attribute.String("product_id", id))
	defer span.End()

	product, err := uc.repository.GetProduct(ctx, id)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	in.applyTo(product)
	if err := product.Validate(); err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	if err := uc.repository.UpdateProduct(ctx, product); err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	zap.L().Info("✏️ [CATALOG] product updated", zap.String("product_id", id))
	return product, nil
}

// Delete desativa o produto. Ele sai das listagens mas continua
// acessível por id, e pedidos antigos seguem válidos.
func (uc *CatalogUseCase) Delete(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "delete_product", attribute.String("product_id", id))
	defer span.End()

	product, err := uc.repository.GetProduct(ctx, id)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	product.IsActive = false
	if err := uc.repository.UpdateProduct(ctx, product); err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	zap.L().Info("🗑️ [CATALOG] product deactivated", zap.String("product_id", id))
	return product, nil
}

func (uc *CatalogUseCase) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := uc.repository.ProductCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}
