package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

func TestProductFilter(t *testing.T) {
	filter := productFilter(store.ProductQuery{Category: domain.CategoryBooks, Search: "c++", ActiveOnly: true})

	assert.Equal(t, true, filter["isActive"])
	assert.Equal(t, domain.CategoryBooks, filter["category"])
	assert.Equal(t, bson.A{
		bson.M{"name": bson.M{"$regex": `c\+\+`, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": `c\+\+`, "$options": "i"}},
	}, filter["$or"])
}

func TestProductFilter_Empty(t *testing.T) {
	assert.Empty(t, productFilter(store.ProductQuery{Search: "   "}))
}

func TestOrderFilter(t *testing.T) {
	statuses := []domain.OrderStatus{domain.OrderStatusPending}
	filter := orderFilter(store.OrderQuery{UserID: "u1", Statuses: statuses, PaidOnly: true})

	assert.Equal(t, bson.M{
		"user":        "u1",
		"isPaid":      true,
		"orderStatus": bson.M{"$in": statuses},
	}, filter)
}

func TestWithin_RejectsForeignTx(t *testing.T) {
	_, _, err := within(context.Background(), fakeTx{})
	assert.Error(t, err)
}

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }
