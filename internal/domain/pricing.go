package domain

import "github.com/shopspring/decimal"

var (
	TaxRate               = decimal.RequireFromString("0.18")
	FreeShippingThreshold = decimal.NewFromInt(500)
	ShippingFee           = decimal.NewFromInt(99)
)

// Pricing guarda os valores fixados no pedido durante o checkout.
type Pricing struct {
	ItemsPrice    float64
	TaxPrice      float64
	ShippingPrice float64
	TotalPrice    float64
}

// PriceItems calcula os valores do pedido a partir dos preços capturados.
// O frete só é zerado quando o subtotal passa estritamente do limite.
func PriceItems(items []OrderItem) Pricing {
	itemsPrice := decimal.Zero
	for _, item := range items {
		itemsPrice = itemsPrice.Add(lineTotal(item.Price, item.Quantity))
	}

	taxPrice := itemsPrice.Mul(TaxRate)
	shippingPrice := ShippingFee
	if itemsPrice.GreaterThan(FreeShippingThreshold) {
		shippingPrice = decimal.Zero
	}
	total := itemsPrice.Add(taxPrice).Add(shippingPrice)

	return Pricing{
		ItemsPrice:    itemsPrice.InexactFloat64(),
		TaxPrice:      taxPrice.InexactFloat64(),
		ShippingPrice: shippingPrice.InexactFloat64(),
		TotalPrice:    total.InexactFloat64(),
	}
}

func lineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}
