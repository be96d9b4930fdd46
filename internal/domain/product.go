package domain

import (
	"strings"
	"time"
)

// Category é uma das categorias fixas do catálogo.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryHome        Category = "Home"
	CategoryBooks       Category = "Books"
	CategoryAccessories Category = "Accessories"
	CategoryFootwear    Category = "Footwear"
)

var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryHome,
	CategoryBooks,
	CategoryAccessories,
	CategoryFootwear,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

const DefaultBrand = "Generic"

// Product é um item do catálogo. O estoque só muda no checkout, no
// cancelamento ou por edição do admin.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Category    Category  `json:"category" bson:"category"`
	Image       string    `json:"image" bson:"image"`
	Brand       string    `json:"brand" bson:"brand"`
	Stock       int       `json:"stock" bson:"stock"`
	Rating      float64   `json:"rating" bson:"rating"`
	NumReviews  int       `json:"numReviews" bson:"numReviews"`
	Color       string    `json:"color,omitempty" bson:"color,omitempty"`
	Weight      string    `json:"weight,omitempty" bson:"weight,omitempty"`
	Dimensions  string    `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Warranty    string    `json:"warranty,omitempty" bson:"warranty,omitempty"`
	IsActive    bool      `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Validate verifica as restrições do produto.
func (p *Product) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return Validation("Product name is required")
	case strings.TrimSpace(p.Description) == "":
		return Validation("Product description is required")
	case p.Price < 0:
		return Validation("Product price must be >= 0")
	case !p.Category.Valid():
		return Validation("Invalid category %q", p.Category)
	case strings.TrimSpace(p.Image) == "":
		return Validation("Product image is required")
	case p.Stock < 0:
		return Validation("Product stock must be >= 0")
	case p.Rating < 0 || p.Rating > 5:
		return Validation("Product rating must be between 0 and 5")
	case p.NumReviews < 0:
		return Validation("Product numReviews must be >= 0")
	}
	return nil
}
