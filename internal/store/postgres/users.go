package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

const userColumns = "id, name, email, password_hash, is_admin, phone, shipping_address, created_at, updated_at"

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.Phone, &u.ShippingAddress, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context, q store.UserQuery, p store.Page) ([]domain.User, int64, error) {
	w := &where{}
	if q.Search != "" {
		pattern := containsPattern(q.Search)
		w.add("(name ILIKE ? OR email ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM users"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := "SELECT " + userColumns + " FROM users" + w.String() +
		" ORDER BY created_at DESC, id DESC LIMIT " + w.next(p.Limit) + " OFFSET " + w.next(p.Offset())
	rows, err := s.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, p.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(s.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		return nil, translate(err, "User")
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", domain.NormalizeEmail(email))
	user, err := scanUser(row)
	if err != nil {
		return nil, translate(err, "User")
	}
	return user, nil
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.Email = domain.NormalizeEmail(u.Email)
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	_, err := s.db.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.IsAdmin, u.Phone, u.ShippingAddress, u.CreatedAt, u.UpdatedAt)
	return translate(err, "User")
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	u.Email = domain.NormalizeEmail(u.Email)
	u.UpdatedAt = time.Now().UTC()

	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, is_admin = $5, phone = $6,
		    shipping_address = $7, updated_at = $8
		WHERE id = $1
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.IsAdmin, u.Phone, u.ShippingAddress, u.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return domain.Conflict("Email already in use")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("User not found")
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("User not found")
	}
	if _, err := s.db.Exec(ctx, "DELETE FROM carts WHERE user_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (s *Store) UserRefs(ctx context.Context, ids []string) (map[string]domain.UserRef, error) {
	refs := make(map[string]domain.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	rows, err := s.db.Query(ctx, "SELECT id, name, email FROM users WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref domain.UserRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, err
		}
		refs[ref.ID] = ref
	}
	return refs, rows.Err()
}
