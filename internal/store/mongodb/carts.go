package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

func (s *Store) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	if err := s.carts.FindOne(ctx, bson.M{"user": userID}).Decode(&cart); err != nil {
		return nil, translate(err, "Cart")
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}

// SaveCart faz upsert pelo usuário; _id e createdAt só são gravados na
// criação.
func (s *Store) SaveCart(ctx context.Context, cart *domain.Cart) error {
	update := bson.M{
		"$set": bson.M{
			"items":      cart.Items,
			"totalItems": cart.TotalItems,
			"totalPrice": cart.TotalPrice,
			"updatedAt":  cart.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":       cart.ID,
			"createdAt": cart.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved domain.Cart
	if err := s.carts.FindOneAndUpdate(ctx, bson.M{"user": cart.UserID}, update, opts).Decode(&saved); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	cart.ID = saved.ID
	cart.CreatedAt = saved.CreatedAt
	return nil
}

func (s *Store) GetCartForUpdate(ctx context.Context, tx store.Tx, userID string) (*domain.Cart, error) {
	opCtx, _, err := within(ctx, tx)
	if err != nil {
		return nil, err
	}
	return s.GetCart(opCtx, userID)
}

func (s *Store) ClearCart(ctx context.Context, tx store.Tx, userID string) error {
	opCtx, journal, err := within(ctx, tx)
	if err != nil {
		return err
	}

	previous, err := s.GetCart(opCtx, userID)
	if err != nil {
		return err
	}

	_, err = s.carts.UpdateOne(opCtx, bson.M{"user": userID}, bson.M{"$set": bson.M{
		"items":      bson.A{},
		"totalItems": 0,
		"totalPrice": 0,
		"updatedAt":  time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if journal != nil {
		journal.Record(func(ctx context.Context) error {
			_, err := s.carts.ReplaceOne(ctx, bson.M{"user": userID}, previous)
			return err
		})
	}
	return nil
}
