package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem é uma linha do carrinho. Preço, nome e imagem são capturados ao
// adicionar o produto e nunca relidos do catálogo.
type CartItem struct {
	ID        string  `json:"id" bson:"id"`
	ProductID string  `json:"product" bson:"product"`
	Name      string  `json:"name" bson:"name"`
	Image     string  `json:"image" bson:"image"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// Cart representa o carrinho de um usuário antes do checkout.
type Cart struct {
	ID         string     `json:"id" bson:"_id"`
	UserID     string     `json:"user" bson:"user"`
	Items      []CartItem `json:"items" bson:"items"`
	TotalItems int        `json:"totalItems" bson:"totalItems"`
	TotalPrice float64    `json:"totalPrice" bson:"totalPrice"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// NewCart cria um novo carrinho vazio para userID.
func NewCart(userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddProduct soma a quantidade na linha existente do produto ou adiciona uma
// nova linha com uma cópia dos dados do produto.
func (c *Cart) AddProduct(p *Product, quantity int) {
	for i := range c.Items {
		if c.Items[i].ProductID == p.ID {
			c.Items[i].Quantity += quantity
			c.Recalculate()
			return
		}
	}

	c.Items = append(c.Items, CartItem{
		ID:        uuid.New().String(),
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.Image,
		Price:     p.Price,
		Quantity:  quantity,
	})
	c.Recalculate()
}

// SetQuantity troca a quantidade de uma linha e a remove quando quantity < 1.
// Retorna false se a linha não existe.
func (c *Cart) SetQuantity(itemID string, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ID != itemID {
			continue
		}
		if quantity < 1 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = quantity
		}
		c.Recalculate()
		return true
	}
	return false
}

// RemoveItem remove a linha, se existir.
func (c *Cart) RemoveItem(itemID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.Recalculate()
}

// Clear esvazia o carrinho.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Recalculate()
}

// Recalculate atualiza os totais derivados e o updatedAt.
func (c *Cart) Recalculate() {
	totalItems := 0
	totalPrice := decimal.Zero
	for _, item := range c.Items {
		totalItems += item.Quantity
		totalPrice = totalPrice.Add(lineTotal(item.Price, item.Quantity))
	}
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	c.TotalItems = totalItems
	c.TotalPrice = totalPrice.InexactFloat64()
	c.UpdatedAt = time.Now().UTC()
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Clone retorna uma cópia profunda.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Items = append([]CartItem(nil), c.Items...)
	if cp.Items == nil {
		cp.Items = []CartItem{}
	}
	return &cp
}
