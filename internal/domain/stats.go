package domain

// OrderSummary agrega contagem, soma e média de totalPrice.
type OrderSummary struct {
	TotalOrders   int64   `json:"totalOrders"`
	TotalSales    float64 `json:"totalSales"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

// MonthlySales agrupa os pedidos criados em um mês.
type MonthlySales struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Orders int64   `json:"orders"`
	Sales  float64 `json:"sales"`
}

// StatusCount é a quantidade de pedidos em um status.
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}
