package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

func (s *Store) CreateOrder(ctx context.Context, tx store.Tx, order *domain.Order) error {
	j, err := journal(tx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return domain.Conflict("Order %s already exists", order.ID)
	}
	s.orders[order.ID] = order.Clone()

	j.Record(func(context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.orders, order.ID)
		return nil
	})
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, domain.NotFound("Order not found")
	}
	return order.Clone(), nil
}

func (s *Store) GetOrderForUpdate(ctx context.Context, tx store.Tx, id string) (*domain.Order, error) {
	if _, err := journal(tx); err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) UpdateOrder(ctx context.Context, tx store.Tx, order *domain.Order) error {
	j, err := journal(tx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, ok := s.orders[order.ID]
	if !ok {
		return domain.NotFound("Order not found")
	}
	stored := order.Clone()
	stored.Customer = nil
	s.orders[order.ID] = stored

	j.Record(func(context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.orders[order.ID] = previous
		return nil
	})
	return nil
}

func (s *Store) ListOrders(ctx context.Context, q store.OrderQuery, p store.Page) ([]domain.Order, int64, error) {
	matched := s.matchOrders(q)
	newestFirst(matched, func(o domain.Order) (int64, string) { return o.CreatedAt.UnixNano(), o.ID })
	return paginate(matched, p), int64(len(matched)), nil
}

func (s *Store) CountOrders(ctx context.Context, q store.OrderQuery) (int64, error) {
	return int64(len(s.matchOrders(q))), nil
}

func (s *Store) SummarizeOrders(ctx context.Context, q store.OrderQuery) (domain.OrderSummary, error) {
	matched := s.matchOrders(q)

	total := decimal.Zero
	for _, order := range matched {
		total = total.Add(decimal.NewFromFloat(order.TotalPrice))
	}

	summary := domain.OrderSummary{
		TotalOrders: int64(len(matched)),
		TotalSales:  total.InexactFloat64(),
	}
	if summary.TotalOrders > 0 {
		summary.AvgOrderValue = total.Div(decimal.NewFromInt(summary.TotalOrders)).InexactFloat64()
	}
	return summary, nil
}

// MonthlySales agrupa por ano/mês de criação; os meses mais recentes vêm
// primeiro e no máximo limit grupos são retornados.
func (s *Store) MonthlySales(ctx context.Context, q store.OrderQuery, limit int) ([]domain.MonthlySales, error) {
	type bucket struct {
		year   int
		month  time.Month
		orders int64
		sales  decimal.Decimal
	}

	buckets := make(map[[2]int]*bucket)
	for _, order := range s.matchOrders(q) {
		created := order.CreatedAt.UTC()
		key := [2]int{created.Year(), int(created.Month())}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{year: created.Year(), month: created.Month(), sales: decimal.Zero}
			buckets[key] = b
		}
		b.orders++
		b.sales = b.sales.Add(decimal.NewFromFloat(order.TotalPrice))
	}

	stats := make([]domain.MonthlySales, 0, len(buckets))
	for _, b := range buckets {
		stats = append(stats, domain.MonthlySales{
			Year:   b.year,
			Month:  int(b.month),
			Orders: b.orders,
			Sales:  b.sales.InexactFloat64(),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Year != stats[j].Year {
			return stats[i].Year > stats[j].Year
		}
		return stats[i].Month > stats[j].Month
	})
	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

func (s *Store) OrderStatusCounts(ctx context.Context, q store.OrderQuery) ([]domain.StatusCount, error) {
	counts := make(map[domain.OrderStatus]int64)
	for _, order := range s.matchOrders(q) {
		counts[order.OrderStatus]++
	}

	result := make([]domain.StatusCount, 0, len(counts))
	for status, count := range counts {
		result = append(result, domain.StatusCount{Status: status, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Status < result[j].Status })
	return result, nil
}

func (s *Store) matchOrders(q store.OrderQuery) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if q.UserID != "" && order.UserID != q.UserID {
			continue
		}
		if q.PaidOnly && !order.IsPaid {
			continue
		}
		if len(q.Statuses) > 0 && !hasStatus(q.Statuses, order.OrderStatus) {
			continue
		}
		matched = append(matched, *order.Clone())
	}
	return matched
}

func hasStatus(statuses []domain.OrderStatus, status domain.OrderStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
