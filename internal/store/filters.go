package store

import "github.com/matheusmosca/storefront/internal/domain"

const MaxPageLimit = 100

// Page é uma requisição de página, começando em 1.
type Page struct {
	Number int
	Limit  int
}

// NewPage cria uma nova página com número >= 1 e limit entre 1 e
// MaxPageLimit; def é usado quando limit não é positivo.
func NewPage(number, limit, def int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages retorna ceil(total/limit).
func (p Page) TotalPages(total int64) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

type ProductQuery struct {
	Category   domain.Category
	Search     string
	ActiveOnly bool
}

type OrderQuery struct {
	UserID   string
	Statuses []domain.OrderStatus
	PaidOnly bool
}

type UserQuery struct {
	Search string
}
