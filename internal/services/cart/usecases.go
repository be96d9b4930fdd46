// Package cart mantém o carrinho de cada usuário. Os totais são recalculados
// e persistidos a cada alteração.
package cart

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/telemetry"
)

// CartUseCase contém a lógica de negócio do carrinho
type CartUseCase struct {
	repository CartRepository
	tracer     trace.Tracer
}

// NewCartUseCase cria uma nova instância de CartUseCase
func NewCartUseCase(repository CartRepository, tracer trace.Tracer) *CartUseCase {
	return &CartUseCase{
		repository: repository,
		tracer:     tracer,
	}
}

// Get retorna o carrinho, criando um vazio na primeira leitura.
func (uc *CartUseCase) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = domain.NewCart(userID)
	if err := uc.repository.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Add coloca o produto no carrinho. Se ele já está lá a quantidade é somada
// e o preço capturado originalmente é mantido.
func (uc *CartUseCase) Add(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "add_to_cart",
		attribute.String("user_id", userID),
		attribute.String("product_id", productID),
		attribute.Int("quantity", quantity),
	)
	defer span.End()

	if quantity < 1 {
		return nil, telemetry.RecordError(span, domain.Validation("Quantity must be at least 1"))
	}

	product, err := uc.repository.GetProduct(ctx, productID)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	if !product.IsActive {
		return nil, telemetry.RecordError(span, domain.NotFound("Product not found"))
	}
	if product.Stock < quantity {
		return nil, telemetry.RecordError(span, domain.InsufficientStock(product.Name))
	}

	cart, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	cart.AddProduct(product, quantity)
	if err := uc.repository.SaveCart(ctx, cart); err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	zap.L().Debug("🛒 [CART] item added",
		zap.String("user_id", userID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return cart, nil
}

// UpdateItem troca a quantidade de um item; quantity < 1 remove o item.
func (uc *CartUseCase) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	cart, err := uc.existing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cart.SetQuantity(itemID, quantity) {
		return nil, domain.NotFound("Item not found in cart")
	}
	if err := uc.repository.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove retira o item; um item inexistente não é erro.
func (uc *CartUseCase) Remove(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	cart, err := uc.existing(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(itemID)
	if err := uc.repository.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *CartUseCase) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	if err := uc.repository.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// load retorna nil, nil quando o usuário ainda não tem carrinho.
func (uc *CartUseCase) load(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := uc.repository.GetCart(ctx, userID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return cart, nil
}

func (uc *CartUseCase) existing(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.NotFound("Cart not found")
	}
	return cart, nil
}
