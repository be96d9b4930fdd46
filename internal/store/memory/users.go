package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

func (s *Store) ListUsers(ctx context.Context, q store.UserQuery, p store.Page) ([]domain.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(user.Name), search) &&
			!strings.Contains(strings.ToLower(user.Email), search) {
			continue
		}
		matched = append(matched, *user.Clone())
	}

	newestFirst(matched, func(u domain.User) (int64, string) { return u.CreatedAt.UnixNano(), u.ID })
	return paginate(matched, p), int64(len(matched)), nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.NotFound("User not found")
	}
	return user.Clone(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = domain.NormalizeEmail(email)
	for _, user := range s.users {
		if user.Email == email {
			return user.Clone(), nil
		}
	}
	return nil, domain.NotFound("User not found")
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = domain.NormalizeEmail(user.Email)
	if s.emailTaken(user.Email, "") {
		return domain.Conflict("User already exists")
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	s.users[user.ID] = user.Clone()
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return domain.NotFound("User not found")
	}
	user.Email = domain.NormalizeEmail(user.Email)
	if s.emailTaken(user.Email, user.ID) {
		return domain.Conflict("Email already in use")
	}
	user.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = user.Clone()
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return domain.NotFound("User not found")
	}
	delete(s.users, id)
	delete(s.carts, id)
	return nil
}

// UserRefs resolve {id, name, email} para cada id conhecido.
func (s *Store) UserRefs(ctx context.Context, ids []string) (map[string]domain.UserRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make(map[string]domain.UserRef, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			refs[id] = user.Ref()
		}
	}
	return refs, nil
}

func (s *Store) emailTaken(email, exceptID string) bool {
	for _, user := range s.users {
		if user.Email == email && user.ID != exceptID {
			return true
		}
	}
	return false
}
