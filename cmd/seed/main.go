// Command seed populates the catalogue with sample products for local
// development.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"aroha/internal/config"
	"aroha/internal/model"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const sampleProductCount = 50

var categories = []string{"Clothing", "Footwear", "Accessories"}

var subCategories = map[string][]string{
	"Clothing":    {"Shirts", "Pants", "Dresses"},
	"Footwear":    {"Sneakers", "Sandals"},
	"Accessories": {"Bags", "Belts"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	query := `
		INSERT INTO products (
			id, name, category, sub_category, brand, product_type, material, color,
			sizes, price, discount, final_price, stock, keywords, tags, images,
			is_featured, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	for i := 0; i < sampleProductCount; i++ {
		p := sampleProduct()
		_, err := conn.Exec(ctx, query,
			p.ID, p.Name, p.Category, p.SubCategory, p.Brand, p.ProductType, p.Material, p.Color,
			p.Sizes, p.Price, p.Discount, p.FinalPrice, p.Stock, p.Keywords, p.Tags, p.Images,
			p.IsFeatured, p.IsActive, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.Name, err)
		}
	}

	fmt.Printf("Seeded %d products\n", sampleProductCount)
	return nil
}

func sampleProduct() model.Product {
	category := gofakeit.RandomString(categories)
	price := decimal.NewFromFloat(gofakeit.Price(100, 5000)).Round(2)
	discount := decimal.NewFromInt(int64(gofakeit.Number(0, 60)))

	now := time.Now()
	p := model.Product{
		ID:          uuid.New(),
		Name:        gofakeit.ProductName(),
		Category:    category,
		SubCategory: gofakeit.RandomString(subCategories[category]),
		Brand:       gofakeit.Company(),
		ProductType: gofakeit.RandomString([]string{"Cotton", "Polyester", "Leather", "Denim"}),
		Material:    gofakeit.RandomString([]string{"Cotton", "Wool", "Silk", "Synthetic"}),
		Color:       gofakeit.Color(),
		Sizes:       []string{"S", "M", "L", "XL"},
		Price:       price,
		Discount:    discount,
		Stock:       gofakeit.Number(0, 200),
		Keywords:    []string{gofakeit.ProductCategory(), gofakeit.Adjective()},
		Tags:        []string{gofakeit.RandomString([]string{"new arrival", "summer", "sale", "featured"})},
		Images:      []string{},
		IsFeatured:  gofakeit.Bool(),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.RecomputeFinalPrice()
	return p
}
