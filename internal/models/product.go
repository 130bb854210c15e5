package models

import (
	"github.com/shopspring/decimal"
)

// MaxPrice is the exclusive upper bound of a decimal(10,2) price.
var MaxPrice = decimal.New(1, 8)

// Product represents a product in the store.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"type:varchar(63);not null"`
	Stock       int             `gorm:"not null;check:stock >= 0"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description string          `gorm:"type:text;not null"`
	Category    string          `gorm:"type:varchar(63);not null;index"`
}

func (p *Product) TableName() string {
	return "products"
}

// NewProduct builds a product that has not been stored yet.
func NewProduct(name string, stock int, price decimal.Decimal, description, category string) *Product {
	return &Product{
		Name:        name,
		Stock:       stock,
		Price:       price,
		Description: description,
		Category:    category,
	}
}

// ProductResponse is the JSON shape of a product.
type ProductResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Stock       int     `json:"stock"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

// Serialize maps the product to its response shape.
func (p *Product) Serialize() ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Stock:       p.Stock,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		Category:    p.Category,
	}
}

// SerializeAll maps a list of products, never returning nil.
func SerializeAll(products []Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i := range products {
		res[i] = products[i].Serialize()
	}
	return res
}

// ProductPayload is the request body accepted on create and update.
// Pointer fields tell a missing key apart from a zero value.
type ProductPayload struct {
	ID          *uint            `json:"id"`
	Name        *string          `json:"name"        validate:"required,max=63"`
	Stock       *int             `json:"stock"       validate:"required,gte=0"`
	Price       *decimal.Decimal `json:"price"       validate:"required,gte=0"`
	Description *string          `json:"description" validate:"required"`
	Category    *string          `json:"category"    validate:"required,max=63"`
}
