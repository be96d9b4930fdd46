package catalog

import "github.com/matheusmosca/storefront/internal/domain"

const defaultPageSize = 12

// ProductInput é o payload de criação e edição. Campos ausentes mantêm o
// valor atual (ou o padrão, na criação).
type ProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	Brand       *string  `json:"brand"`
	Stock       *int     `json:"stock"`
	Rating      *float64 `json:"rating"`
	NumReviews  *int     `json:"numReviews"`
	Color       *string  `json:"color"`
	Weight      *string  `json:"weight"`
	Dimensions  *string  `json:"dimensions"`
	Warranty    *string  `json:"warranty"`
	IsActive    *bool    `json:"isActive"`
}

func (in ProductInput) applyTo(p *domain.Product) {
	setIf(&p.Name, in.Name)
	setIf(&p.Description, in.Description)
	setIf(&p.Price, in.Price)
	if in.Category != nil {
		p.Category = domain.Category(*in.Category)
	}
	setIf(&p.Image, in.Image)
	setIf(&p.Brand, in.Brand)
	setIf(&p.Stock, in.Stock)
	setIf(&p.Rating, in.Rating)
	setIf(&p.NumReviews, in.NumReviews)
	setIf(&p.Color, in.Color)
	setIf(&p.Weight, in.Weight)
	setIf(&p.Dimensions, in.Dimensions)
	setIf(&p.Warranty, in.Warranty)
	setIf(&p.IsActive, in.IsActive)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ProductPage é uma página do catálogo
type ProductPage struct {
	Products   []domain.Product `json:"products"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Total      int64            `json:"total"`
}
