package service

import (
	"context"
	"fmt"

	"aroha/internal/model"
	"aroha/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves the user's cart with product references resolved.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if cart == nil {
		// No cart yet: an empty selection, not an error.
		return &model.CartResponse{
			Items:    []model.CartItem{},
			Products: []model.Product{},
		}, nil
	}

	return s.resolveCart(ctx, cart)
}

// AddItem merges a quantity delta into the cart line for a product. The
// quantity is a delta, never an absolute value: adding a product already in
// the cart increments its existing line.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) (*model.CartResponse, error) {
	if req == nil || req.ProductID == uuid.Nil {
		return nil, model.MissingField("productId")
	}

	if req.Quantity < 1 {
		s.logger.Warn().
			Str("user_id", userID.String()).
			Str("product_id", req.ProductID.String()).
			Int("quantity", req.Quantity).
			Msg("invalid quantity delta")
		return nil, model.ErrInvalidQuantity
	}

	if err := s.productRepo.ValidateProductsExist(ctx, []uuid.UUID{req.ProductID}); err != nil {
		s.logger.Warn().
			Str("product_id", req.ProductID.String()).
			Err(err).
			Msg("product validation failed")
		return nil, err
	}

	if err := s.cartRepo.AddItem(ctx, userID, req.ProductID, req.Quantity); err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", req.ProductID.String()).
			Msg("failed to add cart item")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("product_id", req.ProductID.String()).
		Int("quantity_delta", req.Quantity).
		Msg("cart item added")

	return s.GetCart(ctx, userID)
}

// SetQuantity sets a cart line to an absolute quantity.
func (s *cartService) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.CartResponse, error) {
	if productID == uuid.Nil {
		return nil, model.MissingField("productId")
	}

	if quantity < 1 {
		s.logger.Warn().
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Int("quantity", quantity).
			Msg("invalid absolute quantity")
		return nil, model.ErrInvalidQuantity
	}

	found, err := s.cartRepo.SetItemQuantity(ctx, userID, productID, quantity)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to set cart item quantity")
		return nil, fmt.Errorf("failed to set cart item quantity: %w", err)
	}

	if !found {
		return nil, model.ErrCartItemNotFound
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem drops a line from the cart entirely. Removing a product that is
// not in the cart is a no-op; a user without a cart gets a not-found error.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*model.CartResponse, error) {
	if productID == uuid.Nil {
		return nil, model.MissingField("productId")
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if cart == nil {
		return nil, model.ErrCartNotFound
	}

	removed, err := s.cartRepo.RemoveItem(ctx, userID, productID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to remove cart item")
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	if !removed {
		s.logger.Debug().
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("remove of absent cart line is a no-op")
	}

	return s.GetCart(ctx, userID)
}

// resolveCart joins product records into the cart's line items.
func (s *cartService) resolveCart(ctx context.Context, cart *model.Cart) (*model.CartResponse, error) {
	productIDs := make([]uuid.UUID, len(cart.Items))
	for i, item := range cart.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	items := cart.Items
	if items == nil {
		items = []model.CartItem{}
	}

	return &model.CartResponse{
		Items:    items,
		Products: products,
	}, nil
}
