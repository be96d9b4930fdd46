package postgres

import (
	"context"
	"fmt"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

const cartColumns = "id, user_id, items, total_items, total_price, created_at, updated_at"

func scanCart(row scanner) (*domain.Cart, error) {
	var c domain.Cart
	if err := row.Scan(&c.ID, &c.UserID, &c.Items, &c.TotalItems, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if c.Items == nil {
		c.Items = []domain.CartItem{}
	}
	return &c, nil
}

func (s *Store) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := scanCart(s.db.QueryRow(ctx, "SELECT "+cartColumns+" FROM carts WHERE user_id = $1", userID))
	if err != nil {
		return nil, translate(err, "Cart")
	}
	return cart, nil
}

// SaveCart insere ou atualiza o carrinho do usuário
func (s *Store) SaveCart(ctx context.Context, cart *domain.Cart) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO carts (`+cartColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET items = EXCLUDED.items,
		    total_items = EXCLUDED.total_items,
		    total_price = EXCLUDED.total_price,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`, cart.ID, cart.UserID, cart.Items, cart.TotalItems, cart.TotalPrice, cart.CreatedAt, cart.UpdatedAt,
	).Scan(&cart.ID, &cart.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *Store) GetCartForUpdate(ctx context.Context, tx store.Tx, userID string) (*domain.Cart, error) {
	q, err := s.conn(tx)
	if err != nil {
		return nil, err
	}
	cart, err := scanCart(q.QueryRow(ctx, "SELECT "+cartColumns+" FROM carts WHERE user_id = $1 FOR UPDATE", userID))
	if err != nil {
		return nil, translate(err, "Cart")
	}
	return cart, nil
}

func (s *Store) ClearCart(ctx context.Context, tx store.Tx, userID string) error {
	q, err := s.conn(tx)
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, `
		UPDATE carts
		SET items = '[]'::jsonb, total_items = 0, total_price = 0, updated_at = NOW()
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Cart not found")
	}
	return nil
}
