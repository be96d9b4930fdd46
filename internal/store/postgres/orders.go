package postgres

import (
	"context"
	"fmt"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

const orderColumns = `id, user_id, items, shipping_address, payment_method, payment_result, payment_status,
	items_price, tax_price, shipping_price, total_price, is_paid, paid_at, is_delivered, delivered_at,
	order_status, cancelled_at, cancelled_by, cancellation_reason, notes, created_at, updated_at`

func scanOrder(row scanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Items, &o.ShippingAddress, &o.PaymentMethod, &o.PaymentResult, &o.PaymentStatus,
		&o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.TotalPrice, &o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt,
		&o.OrderStatus, &o.CancelledAt, &o.CancelledBy, &o.CancellationReason, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func orderFilter(q store.OrderQuery) *where {
	w := &where{}
	if q.UserID != "" {
		w.add("user_id = ?", q.UserID)
	}
	if q.PaidOnly {
		w.add("is_paid = TRUE")
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, 0, len(q.Statuses))
		for _, status := range q.Statuses {
			statuses = append(statuses, string(status))
		}
		w.add("order_status = ANY(?)", statuses)
	}
	return w
}

// CreateOrder cria um novo pedido dentro da transação
func (s *Store) CreateOrder(ctx context.Context, tx store.Tx, o *domain.Order) error {
	q, err := s.conn(tx)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`, o.ID, o.UserID, o.Items, o.ShippingAddress, o.PaymentMethod, o.PaymentResult, o.PaymentStatus,
		o.ItemsPrice, o.TaxPrice, o.ShippingPrice, o.TotalPrice, o.IsPaid, o.PaidAt, o.IsDelivered, o.DeliveredAt,
		string(o.OrderStatus), o.CancelledAt, o.CancelledBy, o.CancellationReason, o.Notes, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return translate(err, "Order")
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := scanOrder(s.db.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		return nil, translate(err, "Order")
	}
	return order, nil
}

func (s *Store) GetOrderForUpdate(ctx context.Context, tx store.Tx, id string) (*domain.Order, error) {
	q, err := s.conn(tx)
	if err != nil {
		return nil, err
	}
	order, err := scanOrder(q.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		return nil, translate(err, "Order")
	}
	return order, nil
}

// UpdateOrder grava os campos mutáveis do pedido
func (s *Store) UpdateOrder(ctx context.Context, tx store.Tx, o *domain.Order) error {
	q, err := s.conn(tx)
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, `
		UPDATE orders
		SET payment_result = $2, payment_status = $3, is_paid = $4, paid_at = $5,
		    is_delivered = $6, delivered_at = $7, order_status = $8, cancelled_at = $9,
		    cancelled_by = $10, cancellation_reason = $11, notes = $12, updated_at = $13
		WHERE id = $1
	`, o.ID, o.PaymentResult, o.PaymentStatus, o.IsPaid, o.PaidAt,
		o.IsDelivered, o.DeliveredAt, string(o.OrderStatus), o.CancelledAt,
		o.CancelledBy, o.CancellationReason, o.Notes, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Order not found")
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, q store.OrderQuery, p store.Page) ([]domain.Order, int64, error) {
	w := orderFilter(q)

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := "SELECT " + orderColumns + " FROM orders" + w.String() +
		" ORDER BY created_at DESC, id DESC LIMIT " + w.next(p.Limit) + " OFFSET " + w.next(p.Offset())
	rows, err := s.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, p.Limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, total, rows.Err()
}

func (s *Store) CountOrders(ctx context.Context, q store.OrderQuery) (int64, error) {
	w := orderFilter(q)
	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders"+w.String(), w.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

func (s *Store) SummarizeOrders(ctx context.Context, q store.OrderQuery) (domain.OrderSummary, error) {
	w := orderFilter(q)
	var summary domain.OrderSummary
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_price), 0), COALESCE(AVG(total_price), 0)
		FROM orders`+w.String(), w.args...,
	).Scan(&summary.TotalOrders, &summary.TotalSales, &summary.AvgOrderValue)
	if err != nil {
		return domain.OrderSummary{}, fmt.Errorf("failed to summarize orders: %w", err)
	}
	return summary, nil
}

func (s *Store) MonthlySales(ctx context.Context, q store.OrderQuery, limit int) ([]domain.MonthlySales, error) {
	w := orderFilter(q)
	query := `
		SELECT EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC')::int AS year,
		       EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month,
		       COUNT(*),
		       COALESCE(SUM(total_price), 0)
		FROM orders` + w.String() + `
		GROUP BY year, month
		ORDER BY year DESC, month DESC
		LIMIT ` + w.next(limit)

	rows, err := s.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly sales: %w", err)
	}
	defer rows.Close()

	stats := []domain.MonthlySales{}
	for rows.Next() {
		var m domain.MonthlySales
		if err := rows.Scan(&m.Year, &m.Month, &m.Orders, &m.Sales); err != nil {
			return nil, err
		}
		stats = append(stats, m)
	}
	return stats, rows.Err()
}

func (s *Store) OrderStatusCounts(ctx context.Context, q store.OrderQuery) ([]domain.StatusCount, error) {
	w := orderFilter(q)
	rows, err := s.db.Query(ctx,
		"SELECT order_status, COUNT(*) FROM orders"+w.String()+" GROUP BY order_status ORDER BY order_status",
		w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count order statuses: %w", err)
	}
	defer rows.Close()

	counts := []domain.StatusCount{}
	for rows.Next() {
		var c domain.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
