package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

const productColumns = `id, name, description, price, category, image, brand, stock, rating,
	num_reviews, color, weight, dimensions, warranty, is_active, created_at, updated_at`

func scanProduct(row scanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Image, &p.Brand, &p.Stock, &p.Rating,
		&p.NumReviews, &p.Color, &p.Weight, &p.Dimensions, &p.Warranty, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func productFilter(q store.ProductQuery) *where {
	w := &where{}
	if q.ActiveOnly {
		w.add("is_active = TRUE")
	}
	if q.Category != "" {
		w.add("category = ?", string(q.Category))
	}
	if q.Search != "" {
		pattern := containsPattern(q.Search)
		w.add("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	return w
}

func (s *Store) ListProducts(ctx context.Context, q store.ProductQuery, p store.Page) ([]domain.Product, int64, error) {
	w := productFilter(q)

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM products"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := "SELECT " + productColumns + " FROM products" + w.String() +
		" ORDER BY created_at DESC, id DESC LIMIT " + w.next(p.Limit) + " OFFSET " + w.next(p.Offset())
	rows, err := s.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, p.Limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}
	return products, total, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err := scanProduct(row)
	if err != nil {
		return nil, translate(err, "Product")
	}
	return product, nil
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

	_, err := s.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, p.ID, p.Name, p.Description, p.Price, string(p.Category), p.Image, p.Brand, p.Stock, p.Rating,
		p.NumReviews, p.Color, p.Weight, p.Dimensions, p.Warranty, p.IsActive, p.CreatedAt, p.UpdatedAt)
	return translate(err, "Product")
}

func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5, image = $6, brand = $7,
		    stock = $8, rating = $9, num_reviews = $10, color = $11, weight = $12,
		    dimensions = $13, warranty = $14, is_active = $15, updated_at = $16
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Price, string(p.Category), p.Image, p.Brand,
		p.Stock, p.Rating, p.NumReviews, p.Color, p.Weight, p.Dimensions, p.Warranty, p.IsActive, p.UpdatedAt)
	if err != nil {
		return translate(err, "Product")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Product not found")
	}
	return nil
}

func (s *Store) ProductCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.Query(ctx, "SELECT DISTINCT category FROM products ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, domain.Category(category))
	}
	return categories, rows.Err()
}

// GetProductForUpdate obtém o produto com lock pessimista (FOR UPDATE)
func (s *Store) GetProductForUpdate(ctx context.Context, tx store.Tx, id string) (*domain.Product, error) {
	q, err := s.conn(tx)
	if err != nil {
		return nil, err
	}
	row := q.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", id)
	product, err := scanProduct(row)
	if err != nil {
		return nil, translate(err, "Product")
	}
	return product, nil
}

// DecreaseStock diminui o estoque apenas se houver quantidade suficiente
func (s *Store) DecreaseStock(ctx context.Context, tx store.Tx, id string, quantity int) error {
	q, err := s.conn(tx)
	if err != nil {
		return err
	}

	var name string
	err = q.QueryRow(ctx, `
		UPDATE products
		SET stock = stock - $2,
		    updated_at = NOW()
		WHERE id = $1
		  AND stock >= $2
		RETURNING name
	`, id, quantity).Scan(&name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to decrease stock: %w", err)
	}

	// Nenhuma linha: produto inexistente ou estoque insuficiente
	product, err := s.GetProductForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	return domain.InsufficientStock(product.Name)
}

// IncreaseStock devolve quantidade ao estoque
func (s *Store) IncreaseStock(ctx context.Context, tx store.Tx, id string, quantity int) error {
	q, err := s.conn(tx)
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, `
		UPDATE products
		SET stock = stock + $2,
		    updated_at = NOW()
		WHERE id = $1
	`, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to increase stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Product not found")
	}
	return nil
}
