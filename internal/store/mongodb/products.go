package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

func containsRegex(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

func productFilter(q store.ProductQuery) bson.M {
	filter := bson.M{}
	if q.ActiveOnly {
		filter["isActive"] = true
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": containsRegex(search)},
			bson.M{"description": containsRegex(search)},
		}
	}
	return filter
}

func (s *Store) ListProducts(ctx context.Context, q store.ProductQuery, p store.Page) ([]domain.Product, int64, error) {
	filter := productFilter(q)

	total, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	cursor, err := s.products.Find(ctx, filter, findOptions(p))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, total, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, translate(err, "Product")
	}
	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.products.InsertOne(ctx, p)
	return translate(err, "Product")
}

func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.products.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("Product not found")
	}
	return nil
}

func (s *Store) ProductCategories(ctx context.Context) ([]domain.Category, error) {
	values, err := s.products.Distinct(ctx, "category", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categories := make([]domain.Category, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok {
			categories = append(categories, domain.Category(name))
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories, nil
}

func (s *Store) GetProductForUpdate(ctx context.Context, tx store.Tx, id string) (*domain.Product, error) {
	opCtx, _, err := within(ctx, tx)
	if err != nil {
		return nil, err
	}
	return s.GetProduct(opCtx, id)
}

// DecreaseStock aplica $inc negativo apenas quando stock >= quantity.
func (s *Store) DecreaseStock(ctx context.Context, tx store.Tx, id string, quantity int) error {
	opCtx, journal, err := within(ctx, tx)
	if err != nil {
		return err
	}

	res, err := s.products.UpdateOne(opCtx,
		bson.M{"_id": id, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to decrease stock: %w", err)
	}
	if res.MatchedCount == 0 {
		product, err := s.GetProduct(opCtx, id)
		if err != nil {
			return err
		}
		return domain.InsufficientStock(product.Name)
	}

	if journal != nil {
		journal.Record(func(ctx context.Context) error {
			return s.incStock(ctx, id, quantity)
		})
	}
	return nil
}

func (s *Store) IncreaseStock(ctx context.Context, tx store.Tx, id string, quantity int) error {
	opCtx, journal, err := within(ctx, tx)
	if err != nil {
		return err
	}
	if err := s.incStock(opCtx, id, quantity); err != nil {
		return err
	}
	if journal != nil {
		journal.Record(func(ctx context.Context) error {
			return s.incStock(ctx, id, -quantity)
		})
	}
	return nil
}

func (s *Store) incStock(ctx context.Context, id string, delta int) error {
	res, err := s.products.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": delta}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("Product not found")
	}
	return nil
}
