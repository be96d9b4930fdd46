package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus é o status de atendimento do pedido.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

const (
	CancelledByCustomer = "customer"
	CancelledByAdmin    = "admin"
)

// orderTransitions lista os status alcançáveis a partir de cada status.
// delivered e cancelled são terminais.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo indica se um admin pode mover o pedido de s para next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CustomerCancellable indica se o dono ainda pode cancelar.
func (s OrderStatus) CustomerCancellable() bool {
	switch s {
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return true
}

// Deliverable indica se o pedido ainda pode ser marcado como entregue.
func (s OrderStatus) Deliverable() bool {
	return s != OrderStatusCancelled
}

// Address é o endereço de entrega.
type Address struct {
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Country    string `json:"country" bson:"country"`
}

// OrderItem é uma cópia da linha do carrinho; edições posteriores do catálogo
// não a alteram.
type OrderItem struct {
	ProductID string  `json:"product" bson:"product"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
	Image     string  `json:"image" bson:"image"`
}

// UserRef é o resumo do cliente anexado à listagem administrativa.
type UserRef struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

// Order é um checkout concluído: preços fixos, status de pagamento e
// entrega mutáveis.
type Order struct {
	ID                 string         `json:"id" bson:"_id"`
	UserID             string         `json:"user" bson:"user"`
	Customer           *UserRef       `json:"customer,omitempty" bson:"-"`
	Items              []OrderItem    `json:"orderItems" bson:"orderItems"`
	ShippingAddress    Address        `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod      string         `json:"paymentMethod" bson:"paymentMethod"`
	PaymentResult      map[string]any `json:"paymentResult,omitempty" bson:"paymentResult,omitempty"`
	PaymentStatus      string         `json:"paymentStatus" bson:"paymentStatus"`
	ItemsPrice         float64        `json:"itemsPrice" bson:"itemsPrice"`
	TaxPrice           float64        `json:"taxPrice" bson:"taxPrice"`
	ShippingPrice      float64        `json:"shippingPrice" bson:"shippingPrice"`
	TotalPrice         float64        `json:"totalPrice" bson:"totalPrice"`
	IsPaid             bool           `json:"isPaid" bson:"isPaid"`
	PaidAt             *time.Time     `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	IsDelivered        bool           `json:"isDelivered" bson:"isDelivered"`
	DeliveredAt        *time.Time     `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	OrderStatus        OrderStatus    `json:"orderStatus" bson:"orderStatus"`
	CancelledAt        *time.Time     `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CancelledBy        string         `json:"cancelledBy,omitempty" bson:"cancelledBy,omitempty"`
	CancellationReason string         `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	Notes              string         `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt          time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// NewOrder cria um novo pedido pendente a partir do carrinho, copiando os
// itens e usando os preços capturados.
func NewOrder(userID string, cartItems []CartItem, shipping Address, paymentMethod string) *Order {
	items := make([]OrderItem, 0, len(cartItems))
	for _, line := range cartItems {
		items = append(items, OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Image:     line.Image,
		})
	}

	pricing := PriceItems(items)
	now := time.Now().UTC()

	return &Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: shipping,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   PaymentStatusPending,
		ItemsPrice:      pricing.ItemsPrice,
		TaxPrice:        pricing.TaxPrice,
		ShippingPrice:   pricing.ShippingPrice,
		TotalPrice:      pricing.TotalPrice,
		OrderStatus:     OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// MarkPaid registra o pagamento concluído.
func (o *Order) MarkPaid(result map[string]any) {
	now := time.Now().UTC()
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentStatus = PaymentStatusCompleted
	o.PaymentResult = result
	o.UpdatedAt = now
}

// MarkDelivered registra a entrega.
func (o *Order) MarkDelivered() {
	now := time.Now().UTC()
	o.IsDelivered = true
	o.DeliveredAt = &now
	o.OrderStatus = OrderStatusDelivered
	o.UpdatedAt = now
}

// Cancel preenche os dados de cancelamento.
func (o *Order) Cancel(by, reason string) {
	now := time.Now().UTC()
	o.OrderStatus = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelledBy = by
	if reason != "" {
		o.CancellationReason = reason
	}
	o.UpdatedAt = now
}

// Clone retorna uma cópia profunda.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Items = append([]OrderItem(nil), o.Items...)
	if o.PaymentResult != nil {
		cp.PaymentResult = make(map[string]any, len(o.PaymentResult))
		for k, v := range o.PaymentResult {
			cp.PaymentResult[k] = v
		}
	}
	if o.Customer != nil {
		ref := *o.Customer
		cp.Customer = &ref
	}
	return &cp
}
