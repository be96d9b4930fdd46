package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestPriceItems_BelowFreeShipping(t *testing.T) {
	// Arrange
	items := []OrderItem{{ProductID: "a", Name: "A", Price: 300, Quantity: 1}}

	// Act
	pricing := PriceItems(items)

	// Assert
	assert.Equal(t, 300.0, pricing.ItemsPrice)
	assert.InDelta(t, 54.0, pricing.TaxPrice, 1e-9)
	assert.Equal(t, 99.0, pricing.ShippingPrice)
	assert.InDelta(t, 453.0, pricing.TotalPrice, 1e-9)
}

func TestPriceItems_AboveFreeShipping(t *testing.T) {
	items := []OrderItem{{ProductID: "b", Name: "B", Price: 600, Quantity: 1}}

	pricing := PriceItems(items)

	assert.Equal(t, 600.0, pricing.ItemsPrice)
	assert.InDelta(t, 108.0, pricing.TaxPrice, 1e-9)
	assert.Equal(t, 0.0, pricing.ShippingPrice)
	assert.InDelta(t, 708.0, pricing.TotalPrice, 1e-9)
}

func TestPriceItems_ExactlyAtThresholdPaysShipping(t *testing.T) {
	items := []OrderItem{{Price: 250, Quantity: 2}}

	pricing := PriceItems(items)

	assert.Equal(t, 500.0, pricing.ItemsPrice)
	assert.Equal(t, 99.0, pricing.ShippingPrice)
}

func TestPriceItems_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "lines")
		items := make([]OrderItem, 0, n)
		expected := 0.0
		for i := 0; i < n; i++ {
			cents := rapid.IntRange(0, 100000).Draw(t, "cents")
			qty := rapid.IntRange(1, 20).Draw(t, "qty")
			price := float64(cents) / 100
			items = append(items, OrderItem{Price: price, Quantity: qty})
			expected += price * float64(qty)
		}

		pricing := PriceItems(items)

		if math.Abs(pricing.ItemsPrice-expected) > 1e-6 {
			t.Fatalf("itemsPrice = %v, want %v", pricing.ItemsPrice, expected)
		}
		if math.Abs(pricing.TaxPrice-pricing.ItemsPrice*0.18) > 1e-6 {
			t.Fatalf("taxPrice = %v, want %v", pricing.TaxPrice, pricing.ItemsPrice*0.18)
		}
		wantShipping := 99.0
		if pricing.ItemsPrice > 500 {
			wantShipping = 0
		}
		if pricing.ShippingPrice != wantShipping {
			t.Fatalf("shippingPrice = %v, want %v", pricing.ShippingPrice, wantShipping)
		}
		sum := pricing.ItemsPrice + pricing.TaxPrice + pricing.ShippingPrice
		if math.Abs(pricing.TotalPrice-sum) > 1e-6 {
			t.Fatalf("totalPrice = %v, want %v", pricing.TotalPrice, sum)
		}
	})
}
