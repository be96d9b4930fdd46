package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

func (s *Store) ListProducts(ctx context.Context, q store.ProductQuery, p store.Page) ([]domain.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		if q.ActiveOnly && !product.IsActive {
			continue
		}
		if q.Category != "" && product.Category != q.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(product.Name), search) &&
			!strings.Contains(strings.ToLower(product.Description), search) {
			continue
		}
		matched = append(matched, *product)
	}

	newestFirst(matched, func(p domain.Product) (int64, string) { return p.CreatedAt.UnixNano(), p.ID })
	return paginate(matched, p), int64(len(matched)), nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, domain.NotFound("Product not found")
	}
	cp := *product
	return &cp, nil
}

func (s *Store) CreateProduct(ctx context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, exists := s.products[product.ID]; exists {
		return domain.Conflict("Product %s already exists", product.ID)
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	cp := *product
	s.products[product.ID] = &cp
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return domain.NotFound("Product not found")
	}
	product.UpdatedAt = time.Now().UTC()
	cp := *product
	s.products[product.ID] = &cp
	return nil
}

func (s *Store) ProductCategories(ctx context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[domain.Category]struct{})
	for _, product := range s.products {
		seen[product.Category] = struct{}{}
	}
	categories := make([]domain.Category, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories, nil
}

// GetProductForUpdate lê o produto dentro da transação. O lock de fluxo da
// transação já garante exclusividade.
func (s *Store) GetProductForUpdate(ctx context.Context, tx store.Tx, id string) (*domain.Product, error) {
	if _, err := journal(tx); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

// DecreaseStock decrementa o estoque somente se stock >= quantity.
func (s *Store) DecreaseStock(ctx context.Context, tx store.Tx, id string, quantity int) error {
	j, err := journal(tx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return domain.NotFound("Product not found")
	}
	if product.Stock < quantity {
		return domain.InsufficientStock(product.Name)
	}
	product.Stock -= quantity
	product.UpdatedAt = time.Now().UTC()

	j.Record(func(context.Context) error {
		return s.adjustStock(id, quantity)
	})
	return nil
}

func (s *Store) IncreaseStock(ctx context.Context, tx store.Tx, id string, quantity int) error {
	j, err := journal(tx)
	if err != nil {
		return err
	}
	if err := s.adjustStock(id, quantity); err != nil {
		return err
	}
	j.Record(func(context.Context) error {
		return s.adjustStock(id, -quantity)
	})
	return nil
}

func (s *Store) adjustStock(id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return domain.NotFound("Product not found")
	}
	product.Stock += delta
	product.UpdatedAt = time.Now().UTC()
	return nil
}
