package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddProductAccumulatesAndKeepsCapturedPrice(t *testing.T) {
	// Arrange
	cart := NewCart("user-1")
	product := &Product{ID: "p1", Name: "Lamp", Image: "lamp.png", Price: 40}

	// Act
	cart.AddProduct(product, 2)
	product.Price = 55
	cart.AddProduct(product, 3)

	// Assert
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 40.0, cart.Items[0].Price)
	assert.Equal(t, 5, cart.TotalItems)
	assert.Equal(t, 200.0, cart.TotalPrice)
}

func TestCart_SetQuantity(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddProduct(&Product{ID: "p1", Price: 10}, 1)
	cart.AddProduct(&Product{ID: "p2", Price: 5}, 1)
	itemID := cart.Items[0].ID

	assert.True(t, cart.SetQuantity(itemID, 4))
	assert.Equal(t, 45.0, cart.TotalPrice)

	assert.True(t, cart.SetQuantity(itemID, 0))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].ProductID)
	assert.Equal(t, 1, cart.TotalItems)

	assert.False(t, cart.SetQuantity("missing", 3))
}

func TestCart_RemoveAndClear(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddProduct(&Product{ID: "p1", Price: 10}, 2)

	cart.RemoveItem("missing")
	assert.Len(t, cart.Items, 1)

	cart.RemoveItem(cart.Items[0].ID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice)

	cart.AddProduct(&Product{ID: "p1", Price: 10}, 2)
	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.TotalItems)
	assert.NotNil(t, cart.Items)
}

func TestNewOrder_CopiesItems(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddProduct(&Product{ID: "p1", Name: "Desk", Price: 300}, 1)

	order := NewOrder("user-1", cart.Items, Address{City: "Kathmandu"}, "cod")
	cart.Items[0].Price = 1
	cart.Items[0].Name = "changed"

	assert.Equal(t, 300.0, order.Items[0].Price)
	assert.Equal(t, "Desk", order.Items[0].Name)
	assert.Equal(t, OrderStatusPending, order.OrderStatus)
	assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
	assert.False(t, order.IsPaid)
	assert.False(t, order.IsDelivered)
	assert.InDelta(t, 453.0, order.TotalPrice, 1e-9)
}

func TestOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.False(t, OrderStatus("lost").Valid())
	assert.True(t, OrderStatusPending.CustomerCancellable())
	assert.True(t, OrderStatusProcessing.CustomerCancellable())
	assert.False(t, OrderStatusShipped.CustomerCancellable())
}

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("loading: %w", InsufficientStock("Lamp"))

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindInsufficientStock, KindOf(err))
	assert.Equal(t, "loading: Insufficient stock for Lamp", err.Error())
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
}

func TestProduct_Validate(t *testing.T) {
	valid := Product{Name: "Lamp", Description: "Desk lamp", Price: 10, Category: CategoryHome, Image: "x.png"}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Category = "Toys"
	assert.ErrorIs(t, bad.Validate(), ErrValidation)

	bad = valid
	bad.Stock = -1
	assert.ErrorIs(t, bad.Validate(), ErrValidation)

	bad = valid
	bad.Price = -0.5
	assert.ErrorIs(t, bad.Validate(), ErrValidation)
}
