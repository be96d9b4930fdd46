// Package users cuida das contas: registro e login, perfil, administração de
// usuários e as estatísticas de compra de cada conta.
package users

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/matheusmosca/storefront/internal/auth"
	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
	"github.com/matheusmosca/storefront/internal/telemetry"
)

// UserUseCase contém a lógica de negócio das contas
type UserUseCase struct {
	repository UserRepository
	orders     OrderReader
	tokens     *auth.Tokens
	tracer     trace.Tracer
}

// NewUserUseCase cria uma nova instância de UserUseCase
func NewUserUseCase(repository UserRepository, orders OrderReader, tokens *auth.Tokens, tracer trace.Tracer) *UserUseCase {
	return &UserUseCase{
		repository: repository,
		orders:     orders,
		tokens:     tokens,
		tracer:     tracer,
	}
}

// Register cria a conta e já devolve um token.
func (uc *UserUseCase) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "register_user")
	defer span.End()

	if strings.TrimSpace(req.Name) == "" {
		return nil, telemetry.RecordError(span, domain.Validation("Name is required"))
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        domain.NormalizeEmail(req.Email),
		PasswordHash: hash,
	}
	if err := uc.repository.CreateUser(ctx, user); err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	zap.L().Info("👤 [AUTH] user registered", zap.String("user_id", user.ID))
	result, err := uc.authResult(user)
	return result, telemetry.RecordError(span, err)
}

func (uc *UserUseCase) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "login_user")
	defer span.End()

	user, err := uc.repository.GetUserByEmail(ctx, req.Email)
	if err != nil && domain.KindOf(err) != domain.KindNotFound {
		return nil, telemetry.RecordError(span, err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, telemetry.RecordError(span, domain.Unauthorized("Invalid email or password"))
	}

	result, err := uc.authResult(user)
	return result, telemetry.RecordError(span, err)
}

// Profile retorna a conta do usuário autenticado.
func (uc *UserUseCase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.repository.GetUser(ctx, userID)
}

// UpdateProfile altera nome, email e senha do próprio usuário e emite um
// token novo.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, req ProfileRequest) (*AuthResult, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "update_profile", attribute.String("user_id", userID))
	defer span.End()

	user, err := uc.repository.GetUser(ctx, userID)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Email != "" {
		user.Email = domain.NormalizeEmail(req.Email)
	}
	if req.Password != "" {
		if err := uc.setPassword(user, req.Password); err != nil {
			return nil, telemetry.RecordError(span, err)
		}
	}

	if err := uc.repository.UpdateUser(ctx, user); err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	result, err := uc.authResult(user)
	return result, telemetry.RecordError(span, err)
}

// UpdatePassword troca a senha após conferir a atual.
func (uc *UserUseCase) UpdatePassword(ctx context.Context, userID, current, next string) error {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "update_password", attribute.String("user_id", userID))
	defer span.End()

	user, err := uc.repository.GetUser(ctx, userID)
	if err != nil {
		return telemetry.RecordError(span, err)
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return telemetry.RecordError(span, domain.Validation("Current password is incorrect"))
	}
	if err := uc.setPassword(user, next); err != nil {
		return telemetry.RecordError(span, err)
	}
	if err := uc.repository.UpdateUser(ctx, user); err != nil {
		return telemetry.RecordError(span, err)
	}

	zap.L().Info("🔑 [AUTH] password updated", zap.String("user_id", userID))
	return nil
}

// List pagina as contas, com busca opcional por nome ou email.
func (uc *UserUseCase) List(ctx context.Context, page, limit int, search string) (*UserPage, error) {
	p := store.NewPage(page, limit, defaultPageSize)
	users, total, err := uc.repository.ListUsers(ctx, store.UserQuery{Search: strings.TrimSpace(search)}, p)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return &UserPage{
		Users:      users,
		Page:       p.Number,
		TotalPages: p.TotalPages(total),
		Total:      total,
	}, nil
}

func (uc *UserUseCase) Get(ctx context.Context, id string) (*domain.User, error) {
	return uc.repository.GetUser(ctx, id)
}

// Update é a edição administrativa. Campos vazios mantêm o valor atual.
func (uc *UserUseCase) Update(ctx context.Context, id string, req UpdateUserRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "update_user", attribute.String("user_id", id))
	defer span.End()

	user, err := uc.repository.GetUser(ctx, id)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = domain.NormalizeEmail(req.Email)
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.ShippingAddress != nil {
		addr := *req.ShippingAddress
		user.ShippingAddress = &addr
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}

	if err := uc.repository.UpdateUser(ctx, user); err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	return user, nil
}

// Delete remove a conta, desde que ela não tenha pedidos.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "delete_user", attribute.String("user_id", id))
	defer span.End()

	if _, err := uc.repository.GetUser(ctx, id); err != nil {
		return telemetry.RecordError(span, err)
	}

	count, err := uc.orders.CountUserOrders(ctx, id)
	if err != nil {
		return telemetry.RecordError(span, err)
	}
	if count > 0 {
		return telemetry.RecordError(span, domain.Conflict("Cannot delete user with existing orders"))
	}

	if err := uc.repository.DeleteUser(ctx, id); err != nil {
		return telemetry.RecordError(span, err)
	}
	zap.L().Info("🗑️ [USERS] user deleted", zap.String("user_id", id))
	return nil
}

// Stats reúne o gasto total, os pedidos recentes e a contagem por status.
func (uc *UserUseCase) Stats(ctx context.Context, id string) (*UserStats, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "user_stats", attribute.String("user_id", id))
	defer span.End()

	user, err := uc.repository.GetUser(ctx, id)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	summary, err := uc.orders.SummarizeUserOrders(ctx, id, false)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	recent, err := uc.orders.RecentUserOrders(ctx, id, recentOrders)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	counts, err := uc.orders.UserStatusCounts(ctx, id)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	return &UserStats{
		User: AccountInfo{ID: user.ID, Name: user.Name, Email: user.Email, Joined: user.CreatedAt},
		Stats: SpendingStats{
			TotalOrders:   summary.TotalOrders,
			TotalSpent:    summary.TotalSales,
			AvgOrderValue: summary.AvgOrderValue,
		},
		RecentOrders:      recent,
		OrderStatusCounts: counts,
	}, nil
}

// Dashboard é o resumo da conta exibido ao cliente. totalSpent considera
// apenas pedidos pagos.
func (uc *UserUseCase) Dashboard(ctx context.Context, id string) (*Dashboard, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "user_dashboard", attribute.String("user_id", id))
	defer span.End()

	user, err := uc.repository.GetUser(ctx, id)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	total, err := uc.orders.CountUserOrders(ctx, id)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	open, err := uc.orders.CountUserOrders(ctx, id, domain.OrderStatusPending, domain.OrderStatusProcessing)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	paid, err := uc.orders.SummarizeUserOrders(ctx, id, true)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	recent, err := uc.orders.RecentUserOrders(ctx, id, recentOrders)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	return &Dashboard{
		User: user,
		Summary: DashboardSummary{
			TotalOrders:   total,
			PendingOrders: open,
			TotalSpent:    paid.TotalSales,
		},
		RecentOrders: recent,
	}, nil
}

// EnsureAdmin cria a conta administradora inicial se ela ainda não existe.
// Sem email ou senha não faz nada.
func (uc *UserUseCase) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	existing, err := uc.repository.GetUserByEmail(ctx, email)
	if err != nil && domain.KindOf(err) != domain.KindNotFound {
		return fmt.Errorf("looking up bootstrap admin: %w", err)
	}
	if existing != nil {
		zap.L().Debug("bootstrap admin already present", zap.String("user_id", existing.ID))
		return nil
	}

	if name == "" {
		name = "Admin"
	}
	admin := &domain.User{Name: name, Email: domain.NormalizeEmail(email), IsAdmin: true}
	if err := uc.setPassword(admin, password); err != nil {
		return err
	}
	if err := uc.repository.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("creating bootstrap admin: %w", err)
	}

	zap.L().Info("🛡️ [AUTH] bootstrap admin created", zap.String("user_id", admin.ID), zap.String("email", admin.Email))
	return nil
}

func (uc *UserUseCase) setPassword(user *domain.User, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return nil
}

func (uc *UserUseCase) authResult(user *domain.User) (*AuthResult, error) {
	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Token:   token,
	}, nil
}

func validatePassword(password string) error {
	if len(password) < auth.MinPasswordLength {
		return domain.Validation("Password must be at least %d characters", auth.MinPasswordLength)
	}
	return nil
}
