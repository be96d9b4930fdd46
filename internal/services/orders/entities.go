package orders

import "github.com/matheusmosca/storefront/internal/domain"

const (
	userOrdersPageSize  = 10
	adminOrdersPageSize = 20
	monthlyStatsLimit   = 12
)

// ShippingAddressRequest é o endereço enviado no checkout
type ShippingAddressRequest struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

func (r ShippingAddressRequest) toDomain() domain.Address {
	return domain.Address{
		Address:    r.Address,
		City:       r.City,
		PostalCode: r.PostalCode,
		Country:    r.Country,
	}
}

// CreateOrderRequest representa o payload de POST /api/orders
type CreateOrderRequest struct {
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
}

func (r CreateOrderRequest) validate() error {
	a := r.ShippingAddress
	if a.Address == "" || a.City == "" || a.PostalCode == "" || a.Country == "" {
		return domain.Validation("Shipping address is incomplete")
	}
	if r.PaymentMethod == "" {
		return domain.Validation("Payment method is required")
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// OrderPage é uma página de pedidos, do mais novo para o mais antigo
type OrderPage struct {
	Orders     []domain.Order `json:"orders"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	Total      int64          `json:"total"`
}

// OrderStats são as estatísticas de vendas do painel administrativo
type OrderStats struct {
	Summary      domain.OrderSummary   `json:"summary"`
	MonthlyStats []domain.MonthlySales `json:"monthlyStats"`
}
