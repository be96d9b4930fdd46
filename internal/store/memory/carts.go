package memory

import (
	"context"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

func (s *Store) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil, domain.NotFound("Cart not found")
	}
	return cart.Clone(), nil
}

// SaveCart grava o carrinho do usuário, criando-o se necessário. Não entra
// no journal nem espera txMu.
func (s *Store) SaveCart(ctx context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.carts[cart.UserID]; ok {
		cart.ID = existing.ID
		cart.CreatedAt = existing.CreatedAt
	}
	s.carts[cart.UserID] = cart.Clone()
	return nil
}

func (s *Store) GetCartForUpdate(ctx context.Context, tx store.Tx, userID string) (*domain.Cart, error) {
	if _, err := journal(tx); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// ClearCart esvazia o carrinho e zera os totais.
func (s *Store) ClearCart(ctx context.Context, tx store.Tx, userID string) error {
	j, err := journal(tx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return domain.NotFound("Cart not found")
	}
	previous := cart.Clone()
	cart.Clear()

	j.Record(func(context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.carts[userID] = previous
		return nil
	})
	return nil
}
