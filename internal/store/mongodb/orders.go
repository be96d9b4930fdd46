package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

func orderFilter(q store.OrderQuery) bson.M {
	filter := bson.M{}
	if q.UserID != "" {
		filter["user"] = q.UserID
	}
	if q.PaidOnly {
		filter["isPaid"] = true
	}
	if len(q.Statuses) > 0 {
		filter["orderStatus"] = bson.M{"$in": q.Statuses}
	}
	return filter
}

func (s *Store) CreateOrder(ctx context.Context, tx store.Tx, order *domain.Order) error {
	opCtx, journal, err := within(ctx, tx)
	if err != nil {
		return err
	}
	if _, err := s.orders.InsertOne(opCtx, order); err != nil {
		return translate(err, "Order")
	}
	if journal != nil {
		journal.Record(func(ctx context.Context) error {
			_, err := s.orders.DeleteOne(ctx, bson.M{"_id": order.ID})
			return err
		})
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, translate(err, "Order")
	}
	return &order, nil
}

func (s *Store) GetOrderForUpdate(ctx context.Context, tx store.Tx, id string) (*domain.Order, error) {
	opCtx, _, err := within(ctx, tx)
	if err != nil {
		return nil, err
	}
	return s.GetOrder(opCtx, id)
}

func (s *Store) UpdateOrder(ctx context.Context, tx store.Tx, order *domain.Order) error {
	opCtx, journal, err := within(ctx, tx)
	if err != nil {
		return err
	}

	var previous *domain.Order
	if journal != nil {
		if previous, err = s.GetOrder(opCtx, order.ID); err != nil {
			return err
		}
	}

	res, err := s.orders.ReplaceOne(opCtx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("Order not found")
	}

	if journal != nil {
		journal.Record(func(ctx context.Context) error {
			_, err := s.orders.ReplaceOne(ctx, bson.M{"_id": previous.ID}, previous)
			return err
		})
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, q store.OrderQuery, p store.Page) ([]domain.Order, int64, error) {
	filter := orderFilter(q)

	total, err := s.orders.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	cursor, err := s.orders.Find(ctx, filter, findOptions(p))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, total, nil
}

func (s *Store) CountOrders(ctx context.Context, q store.OrderQuery) (int64, error) {
	total, err := s.orders.CountDocuments(ctx, orderFilter(q))
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

func (s *Store) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cursor, err := s.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to aggregate orders: %w", err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode aggregation: %w", err)
	}
	return nil
}

func (s *Store) SummarizeOrders(ctx context.Context, q store.OrderQuery) (domain.OrderSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: orderFilter(q)}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalOrders":   bson.M{"$sum": 1},
			"totalSales":    bson.M{"$sum": "$totalPrice"},
			"avgOrderValue": bson.M{"$avg": "$totalPrice"},
		}}},
	}

	var rows []struct {
		TotalOrders   int64   `bson:"totalOrders"`
		TotalSales    float64 `bson:"totalSales"`
		AvgOrderValue float64 `bson:"avgOrderValue"`
	}
	if err := s.aggregate(ctx, pipeline, &rows); err != nil {
		return domain.OrderSummary{}, err
	}
	if len(rows) == 0 {
		return domain.OrderSummary{}, nil
	}
	return domain.OrderSummary{
		TotalOrders:   rows[0].TotalOrders,
		TotalSales:    rows[0].TotalSales,
		AvgOrderValue: rows[0].AvgOrderValue,
	}, nil
}

func (s *Store) MonthlySales(ctx context.Context, q store.OrderQuery, limit int) ([]domain.MonthlySales, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: orderFilter(q)}},
		{{Key: "$group", Value: bson.M{
			"_id":    bson.M{"year": bson.M{"$year": "$createdAt"}, "month": bson.M{"$month": "$createdAt"}},
			"orders": bson.M{"$sum": 1},
			"sales":  bson.M{"$sum": "$totalPrice"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: -1}, {Key: "_id.month", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	var rows []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Orders int64   `bson:"orders"`
		Sales  float64 `bson:"sales"`
	}
	if err := s.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}

	stats := make([]domain.MonthlySales, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, domain.MonthlySales{Year: row.ID.Year, Month: row.ID.Month, Orders: row.Orders, Sales: row.Sales})
	}
	return stats, nil
}

func (s *Store) OrderStatusCounts(ctx context.Context, q store.OrderQuery) ([]domain.StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: orderFilter(q)}},
		{{Key: "$group", Value: bson.M{"_id": "$orderStatus", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	var rows []struct {
		Status domain.OrderStatus `bson:"_id"`
		Count  int64              `bson:"count"`
	}
	if err := s.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}

	counts := make([]domain.StatusCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, domain.StatusCount{Status: row.Status, Count: row.Count})
	}
	return counts, nil
}
