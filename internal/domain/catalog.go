package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a product category.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	ProductsCnt int    `json:"products_count,omitempty"`
}

// Product is a listed item sold by a seller.
type Product struct {
	ID          int64           `json:"id"`
	UniqueID    string          `json:"unique_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit,omitempty"`
	Stock       int             `json:"stock"`
	CategoryID  int64           `json:"category_id,omitempty"`
	Category    *Category       `json:"category,omitempty"`
	SellerID    int64           `json:"seller_id,omitempty"`
	Image       string          `json:"image,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// InStock reports whether at least qty units are available.
func (p *Product) InStock(qty int) bool {
	return p.IsActive && p.Stock >= qty
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,min=2,max=255"`
	Description string          `json:"description,omitempty" validate:"max=5000"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Unit        string          `json:"unit" validate:"required,max=32"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  int64           `json:"category_id" validate:"required,gt=0"`
	IsActive    bool            `json:"is_active"`
}
