package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aroha/internal/imagestore"
	"aroha/internal/model"
	"aroha/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxProductImages caps the number of image files accepted per product.
const maxProductImages = 5

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	images      imagestore.Store
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	images imagestore.Store,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		images:      images,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// Create adds a product with its images. The final price is derived from
// price and discount here and on every later write; the stored value is
// never trusted on its own.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest, images []ImageUpload) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	if len(images) > maxProductImages {
		images = images[:maxProductImages]
	}

	now := time.Now()
	product := &model.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Brand:       req.Brand,
		ProductType: req.ProductType,
		Material:    req.Material,
		Color:       req.Color,
		Sizes:       req.Sizes,
		Price:       req.Price,
		Discount:    req.Discount,
		Stock:       req.Stock,
		Keywords:    req.Keywords,
		Tags:        req.Tags,
		Images:      []string{},
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	product.RecomputeFinalPrice()

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// Image filenames are keyed by the product ID so uploads can be traced
	// back and cleaned up on delete.
	filenames := make([]string, 0, len(images))
	for i, img := range images {
		filename := fmt.Sprintf("%s-%d%s", product.ID, i+1, img.Ext)
		if err := s.images.Save(ctx, filename, img.Reader); err != nil {
			s.logger.Error().
				Err(err).
				Str("product_id", product.ID.String()).
				Str("file", filename).
				Msg("failed to store product image")
			return nil, fmt.Errorf("failed to store product image: %w", err)
		}
		filenames = append(filenames, filename)
	}

	if len(filenames) > 0 {
		if err := s.productRepo.UpdateImages(ctx, product.ID, filenames); err != nil {
			return nil, fmt.Errorf("failed to record product images: %w", err)
		}
		product.Images = filenames
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Int("image_count", len(filenames)).
		Msg("product created")

	return product, nil
}

// GetAll retrieves all active products.
func (s *productService) GetAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// Search retrieves products matching the given filters.
func (s *productService) Search(ctx context.Context, filters model.ProductSearch) ([]model.Product, error) {
	products, err := s.productRepo.Search(ctx, filters)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("query", filters.Query).
			Str("category", filters.Category).
			Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if id == uuid.Nil {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id.String()).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Delete removes a product and its stored images.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if deleted == nil {
		return model.ErrProductNotFound
	}

	for _, filename := range deleted.Images {
		if err := s.images.Delete(ctx, filename); err != nil {
			// The catalogue row is already gone; an orphan file is not worth
			// failing the request over.
			s.logger.Warn().
				Err(err).
				Str("product_id", id.String()).
				Str("file", filename).
				Msg("failed to delete product image")
		}
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")

	return nil
}

func validateProductRequest(req *model.ProductRequest) error {
	if req == nil {
		return model.MissingField("body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return model.MissingField("name")
	}
	if strings.TrimSpace(req.Category) == "" {
		return model.MissingField("category")
	}
	if req.Price.LessThanOrEqual(decimal.Zero) {
		return model.MissingField("price")
	}
	if req.Discount.IsNegative() || req.Discount.GreaterThan(decimal.NewFromInt(100)) {
		return model.ErrInvalidDiscount
	}
	return nil
}
