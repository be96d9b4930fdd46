// Package orders implementa o ciclo de vida dos pedidos: checkout com baixa
// de estoque, transições de status, cancelamento com devolução de estoque e
// estatísticas de vendas.
package orders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/idempotency"
	"github.com/matheusmosca/storefront/internal/store"
	"github.com/matheusmosca/storefront/internal/telemetry"
)

// OrderUseCase contém a lógica de negócio dos pedidos
type OrderUseCase struct {
	repository OrderRepository
	tracer     trace.Tracer
	metrics    *telemetry.OrderMetrics
	guard      *idempotency.Guard
}

// NewOrderUseCase cria uma nova instância de OrderUseCase. guard pode ser
// nil, e nesse caso o header Idempotency-Key é ignorado.
func NewOrderUseCase(
	repository OrderRepository,
	tracer trace.Tracer,
	metrics *telemetry.OrderMetrics,
	guard *idempotency.Guard,
) *OrderUseCase {
	if metrics == nil {
		metrics = telemetry.NoopOrderMetrics()
	}
	return &OrderUseCase{
		repository: repository,
		tracer:     tracer,
		metrics:    metrics,
		guard:      guard,
	}
}

// CreateOrder transforma o carrinho do usuário em um pedido, dentro de uma
// única transação.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "create_order", attribute.String("user_id", userID))
	defer span.End()

	order, err := uc.checkout(ctx, userID, req)
	if err != nil {
		uc.metrics.CheckoutFailed(ctx, failureReason(err))
		zap.L().Info("❌ [CHECKOUT] failed", zap.String("user_id", userID), zap.Error(err))
		return nil, telemetry.RecordError(span, err)
	}

	span.SetAttributes(attribute.String("order_id", order.ID), attribute.Float64("total_price", order.TotalPrice))
	uc.metrics.OrderCreated(ctx, order.TotalPrice)
	zap.L().Info("✅ [CHECKOUT] order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Float64("total_price", order.TotalPrice),
	)
	return order, nil
}

// CreateOrderIdempotent executa CreateOrder uma única vez por
// (usuário, chave). Uma repetição devolve o pedido original com replayed=true.
func (uc *OrderUseCase) CreateOrderIdempotent(ctx context.Context, userID, key string, req CreateOrderRequest) (*domain.Order, bool, error) {
	if key == "" || uc.guard == nil {
		order, err := uc.CreateOrder(ctx, userID, req)
		return order, false, err
	}

	var created *domain.Order
	orderID, replayed, err := uc.guard.Do(ctx, userID+":"+key, func(ctx context.Context) (string, error) {
		order, err := uc.CreateOrder(ctx, userID, req)
		if err != nil {
			return "", err
		}
		created = order
		return order.ID, nil
	})
	if err != nil {
		return nil, false, err
	}
	if !replayed {
		return created, false, nil
	}

	zap.L().Info("ℹ️ [IDEMPOTENCY] replaying checkout", zap.String("order_id", orderID), zap.String("user_id", userID))
	order, err := uc.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	return order, true, nil
}

func (uc *OrderUseCase) checkout(ctx context.Context, userID string, req CreateOrderRequest) (*domain.Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	// 1. Inicia a transação
	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	// 2. Carrinho com lock
	cart, err := uc.repository.GetCartForUpdate(ctx, tx, userID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	// 3. Confere o estoque de todos os itens antes de qualquer escrita. Os
	// produtos são travados sempre na mesma ordem.
	demand := demandByProduct(cart.Items)
	for _, line := range demand {
		product, err := uc.repository.GetProductForUpdate(ctx, tx, line.productID)
		if err != nil {
			return nil, err
		}
		if product.Stock < line.quantity {
			return nil, domain.InsufficientStock(product.Name)
		}
	}

	// 4. Cria o pedido com os preços capturados no carrinho
	order := domain.NewOrder(userID, cart.Items, req.ShippingAddress.toDomain(), req.PaymentMethod)
	if err := uc.repository.CreateOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	// 5. Baixa condicional de estoque
	for _, line := range demand {
		if err := uc.repository.DecreaseStock(ctx, tx, line.productID, line.quantity); err != nil {
			return nil, err
		}
	}

	// 6. Esvazia o carrinho
	if err := uc.repository.ClearCart(ctx, tx, userID); err != nil {
		return nil, err
	}

	// 7. Commit da transação
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("erro ao comitar pedido: %w", err)
	}
	return order, nil
}

// GetOrderByID retorna o pedido se ele pertence ao solicitante.
func (uc *OrderUseCase) GetOrderByID(ctx context.Context, orderID, requesterID string) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "get_order", attribute.String("order_id", orderID))
	defer span.End()

	order, err := uc.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	if order.UserID != requesterID {
		return nil, telemetry.RecordError(span, domain.Forbidden("Not authorized to view this order"))
	}
	return order, nil
}

// GetUserOrders lista os pedidos do usuário.
func (uc *OrderUseCase) GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderPage, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "get_user_orders", attribute.String("user_id", userID))
	defer span.End()

	p := store.NewPage(page, limit, userOrdersPageSize)
	result, err := uc.listOrders(ctx, store.OrderQuery{UserID: userID}, p)
	return result, telemetry.RecordError(span, err)
}

// GetAllOrders lista todos os pedidos, opcionalmente filtrados por status,
// com nome e email do cliente.
func (uc *OrderUseCase) GetAllOrders(ctx context.Context, page, limit int, status string) (*OrderPage, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "get_all_orders", attribute.String("status", status))
	defer span.End()

	q := store.OrderQuery{}
	if status != "" {
		s := domain.OrderStatus(status)
		if !s.Valid() {
			return nil, telemetry.RecordError(span, domain.Validation("Invalid order status %q", status))
		}
		q.Statuses = []domain.OrderStatus{s}
	}

	p := store.NewPage(page, limit, adminOrdersPageSize)
	result, err := uc.listOrders(ctx, q, p)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	if err := uc.attachCustomers(ctx, result.Orders); err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	return result, nil
}

func (uc *OrderUseCase) listOrders(ctx context.Context, q store.OrderQuery, p store.Page) (*OrderPage, error) {
	orders, total, err := uc.repository.ListOrders(ctx, q, p)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return &OrderPage{
		Orders:     orders,
		Page:       p.Number,
		TotalPages: p.TotalPages(total),
		Total:      total,
	}, nil
}

func (uc *OrderUseCase) attachCustomers(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.UserID]; !ok {
			seen[o.UserID] = struct{}{}
			ids = append(ids, o.UserID)
		}
	}

	refs, err := uc.repository.UserRefs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range orders {
		if ref, ok := refs[orders[i].UserID]; ok {
			orders[i].Customer = &ref
		}
	}
	return nil
}

// UpdateOrderToPaid registra o pagamento com o payload do provedor.
func (uc *OrderUseCase) UpdateOrderToPaid(ctx context.Context, orderID string, paymentResult map[string]any) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "update_order_to_paid", attribute.String("order_id", orderID))
	defer span.End()

	order, err := uc.mutate(ctx, orderID, func(ctx context.Context, tx store.Tx, order *domain.Order) error {
		order.MarkPaid(paymentResult)
		return nil
	})
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	zap.L().Info("💰 [ORDER] marked as paid", zap.String("order_id", orderID))
	return order, nil
}

// UpdateOrderToDelivered marca a entrega a partir de qualquer status não
// cancelado. Um pedido já entregue volta sem alteração.
func (uc *OrderUseCase) UpdateOrderToDelivered(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "update_order_to_delivered", attribute.String("order_id", orderID))
	defer span.End()

	order, err := uc.mutate(ctx, orderID, func(ctx context.Context, tx store.Tx, order *domain.Order) error {
		if !order.OrderStatus.Deliverable() {
			return domain.InvalidState("Order cannot be delivered in %s status", order.OrderStatus)
		}
		if order.OrderStatus != domain.OrderStatusDelivered {
			order.MarkDelivered()
		}
		return nil
	})
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	zap.L().Info("📦 [ORDER] delivered", zap.String("order_id", orderID))
	return order, nil
}

// UpdateOrderStatus aplica uma transição administrativa. Atenção: mudar para
// cancelled também devolve ao estoque as quantidades de todos os itens, na
// mesma transação.
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, orderID, status, notes string) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "update_order_status",
		attribute.String("order_id", orderID),
		attribute.String("status", status),
	)
	defer span.End()

	next := domain.OrderStatus(status)
	if !next.Valid() {
		return nil, telemetry.RecordError(span, domain.Validation("Invalid order status %q", status))
	}

	order, err := uc.mutate(ctx, orderID, func(ctx context.Context, tx store.Tx, order *domain.Order) error {
		current := order.OrderStatus
		switch {
		case next == current:
			order.UpdatedAt = time.Now().UTC()
		case !current.CanTransitionTo(next):
			return domain.InvalidState("Cannot change order status from %s to %s", current, next)
		case next == domain.OrderStatusDelivered:
			order.MarkDelivered()
		case next == domain.OrderStatusCancelled:
			order.Cancel(domain.CancelledByAdmin, "")
			if err := uc.restoreStock(ctx, tx, order); err != nil {
				return err
			}
		default:
			order.OrderStatus = next
			order.UpdatedAt = time.Now().UTC()
		}
		if notes != "" {
			order.Notes = notes
		}
		return nil
	})
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	if next == domain.OrderStatusCancelled {
		uc.metrics.OrderCancelled(ctx, domain.CancelledByAdmin)
	}
	zap.L().Info("🔄 [ORDER] status updated", zap.String("order_id", orderID), zap.String("status", status))
	return order, nil
}

// CancelOrder cancela um pedido do próprio usuário e devolve o estoque.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, orderID, userID, reason string) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "cancel_order",
		attribute.String("order_id", orderID),
		attribute.String("user_id", userID),
	)
	defer span.End()

	order, err := uc.mutate(ctx, orderID, func(ctx context.Context, tx store.Tx, order *domain.Order) error {
		if order.UserID != userID {
			return domain.Forbidden("Not authorized to cancel this order")
		}
		if !order.OrderStatus.CustomerCancellable() {
			return domain.InvalidState("Order cannot be cancelled in %s status", order.OrderStatus)
		}
		order.Cancel(domain.CancelledByCustomer, reason)
		return uc.restoreStock(ctx, tx, order)
	})
	if err != nil {
		zap.L().Info("❌ [CANCEL] failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, telemetry.RecordError(span, err)
	}

	uc.metrics.OrderCancelled(ctx, domain.CancelledByCustomer)
	zap.L().Info("↩️ [CANCEL] order cancelled, stock restored", zap.String("order_id", orderID))
	return order, nil
}

// mutate carrega o pedido com lock, aplica apply e grava tudo na mesma
// transação. Qualquer erro de apply desfaz a transação.
func (uc *OrderUseCase) mutate(
	ctx context.Context,
	orderID string,
	apply func(ctx context.Context, tx store.Tx, order *domain.Order) error,
) (*domain.Order, error) {
	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	order, err := uc.repository.GetOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if err := apply(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := uc.repository.UpdateOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("erro ao comitar pedido: %w", err)
	}
	return order, nil
}

func (uc *OrderUseCase) restoreStock(ctx context.Context, tx store.Tx, order *domain.Order) error {
	for _, line := range demandByOrder(order.Items) {
		if err := uc.repository.IncreaseStock(ctx, tx, line.productID, line.quantity); err != nil {
			return fmt.Errorf("restoring stock of %s: %w", line.productID, err)
		}
	}
	return nil
}

// GetOrderStats retorna o resumo de vendas e os últimos 12 meses.
func (uc *OrderUseCase) GetOrderStats(ctx context.Context) (*OrderStats, error) {
	ctx, span := telemetry.StartSpan(ctx, uc.tracer, "get_order_stats")
	defer span.End()

	summary, err := uc.repository.SummarizeOrders(ctx, store.OrderQuery{})
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	monthly, err := uc.repository.MonthlySales(ctx, store.OrderQuery{}, monthlyStatsLimit)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	if monthly == nil {
		monthly = []domain.MonthlySales{}
	}
	return &OrderStats{Summary: summary, MonthlyStats: monthly}, nil
}

// SummarizeUserOrders agrega os pedidos do usuário; paidOnly restringe aos pagos.
func (uc *OrderUseCase) SummarizeUserOrders(ctx context.Context, userID string, paidOnly bool) (domain.OrderSummary, error) {
	return uc.repository.SummarizeOrders(ctx, store.OrderQuery{UserID: userID, PaidOnly: paidOnly})
}

// RecentUserOrders retorna os n pedidos mais recentes do usuário.
func (uc *OrderUseCase) RecentUserOrders(ctx context.Context, userID string, n int) ([]domain.Order, error) {
	orders, _, err := uc.repository.ListOrders(ctx, store.OrderQuery{UserID: userID}, store.NewPage(1, n, n))
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (uc *OrderUseCase) CountUserOrders(ctx context.Context, userID string, statuses ...domain.OrderStatus) (int64, error) {
	return uc.repository.CountOrders(ctx, store.OrderQuery{UserID: userID, Statuses: statuses})
}

func (uc *OrderUseCase) UserStatusCounts(ctx context.Context, userID string) ([]domain.StatusCount, error) {
	counts, err := uc.repository.OrderStatusCounts(ctx, store.OrderQuery{UserID: userID})
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []domain.StatusCount{}
	}
	return counts, nil
}

type stockLine struct {
	productID string
	quantity  int
}

// demandByProduct soma as quantidades por produto, ordenado por id.
func demandByProduct(items []domain.CartItem) []stockLine {
	totals := make(map[string]int, len(items))
	for _, item := range items {
		totals[item.ProductID] += item.Quantity
	}
	return sortedLines(totals)
}

func demandByOrder(items []domain.OrderItem) []stockLine {
	totals := make(map[string]int, len(items))
	for _, item := range items {
		totals[item.ProductID] += item.Quantity
	}
	return sortedLines(totals)
}

func sortedLines(totals map[string]int) []stockLine {
	lines := make([]stockLine, 0, len(totals))
	for id, qty := range totals {
		lines = append(lines, stockLine{productID: id, quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].productID < lines[j].productID })
	return lines
}

func failureReason(err error) string {
	if kind := domain.KindOf(err); kind != "" {
		return string(kind)
	}
	return "internal"
}
