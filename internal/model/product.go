package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalogue product.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Category    string          `json:"category" db:"category"`
	SubCategory string          `json:"subCategory,omitempty" db:"sub_category"`
	Brand       string          `json:"brand,omitempty" db:"brand"`
	ProductType string          `json:"productType,omitempty" db:"product_type"`
	Material    string          `json:"material,omitempty" db:"material"`
	Color       string          `json:"color,omitempty" db:"color"`
	Sizes       []string        `json:"sizes,omitempty" db:"sizes"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Discount    decimal.Decimal `json:"discount" db:"discount"`
	FinalPrice  decimal.Decimal `json:"finalPrice" db:"final_price"`
	Stock       int             `json:"stock" db:"stock"`
	Keywords    []string        `json:"keywords,omitempty" db:"keywords"`
	Tags        []string        `json:"tags,omitempty" db:"tags"`
	Images      []string        `json:"images" db:"images"`
	IsFeatured  bool            `json:"isFeatured" db:"is_featured"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// ComputeFinalPrice derives the selling price from the list price and a
// percentage discount. The stored final price is never authoritative on its
// own; it is recomputed from these two values on every write.
func ComputeFinalPrice(price, discount decimal.Decimal) decimal.Decimal {
	if discount.IsZero() {
		return price
	}
	hundred := decimal.NewFromInt(100)
	return price.Sub(price.Mul(discount).Div(hundred)).Round(2)
}

// RecomputeFinalPrice refreshes the derived FinalPrice field in place.
func (p *Product) RecomputeFinalPrice() {
	p.FinalPrice = ComputeFinalPrice(p.Price, p.Discount)
}

// ProductRequest represents the request payload for creating a product.
// Images arrive separately as multipart file parts.
type ProductRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	Brand       string          `json:"brand"`
	ProductType string          `json:"productType"`
	Material    string          `json:"material"`
	Color       string          `json:"color"`
	Sizes       []string        `json:"sizes"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	Stock       int             `json:"stock"`
	Keywords    []string        `json:"keywords"`
	Tags        []string        `json:"tags"`
}

// ProductSearch holds the supported catalogue search filters.
type ProductSearch struct {
	Query       string
	Category    string
	SubCategory string
}
