package cart

// AddItemRequest representa o payload de POST /api/cart
type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

// quantity assume 1 quando o campo não é enviado.
func (r AddItemRequest) quantity() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}
