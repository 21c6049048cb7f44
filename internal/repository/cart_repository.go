package repository

import (
	"context"
	"errors"
	"fmt"

	"aroha/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetByUserID retrieves a user's cart with its line items.
func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cartQuery := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, cartQuery, userID).Scan(
		&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("user_id", userID.String()).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `
		SELECT cart_id, product_id, quantity, created_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at, product_id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// AddItem lazily creates the user's cart and merges the quantity delta into
// the matching line. The unique (cart_id, product_id) constraint plus the
// upsert guarantee a single line per product.
func (r *cartRepository) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	ensureCart := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, ensureCart, uuid.New(), userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to ensure cart")
		return fmt.Errorf("failed to ensure cart: %w", err)
	}

	mergeItem := `
		INSERT INTO cart_items (cart_id, product_id, quantity, created_at)
		SELECT c.id, $2, $3, NOW()
		FROM carts c
		WHERE c.user_id = $1
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	if _, err := r.pool.Exec(ctx, mergeItem, userID, productID, quantity); err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to merge cart item")
		return fmt.Errorf("failed to merge cart item: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID.String()).
		Str("product_id", productID.String()).
		Int("quantity_delta", quantity).
		Msg("cart item merged")

	return nil
}

// SetItemQuantity sets a line to an absolute quantity.
func (r *cartRepository) SetItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (bool, error) {
	query := `
		UPDATE cart_items ci
		SET quantity = $3
		FROM carts c
		WHERE c.user_id = $1 AND ci.cart_id = c.id AND ci.product_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, userID, productID, quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to set cart item quantity")
		return false, fmt.Errorf("failed to set cart item quantity: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RemoveItem drops the line for productID from the user's cart.
func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	query := `
		DELETE FROM cart_items ci
		USING carts c
		WHERE c.user_id = $1 AND ci.cart_id = c.id AND ci.product_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, userID, productID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to remove cart item")
		return false, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RemoveItemsTx drops the lines for the given products within a transaction.
// Used by checkout so order creation and cart removal commit together.
func (r *cartRepository) RemoveItemsTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}

	query := `
		DELETE FROM cart_items ci
		USING carts c
		WHERE c.user_id = $1 AND ci.cart_id = c.id AND ci.product_id = ANY($2)
	`

	_, err := tx.Exec(ctx, query, userID, productIDs)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Int("count", len(productIDs)).
			Msg("failed to remove ordered cart items")
		return fmt.Errorf("failed to remove ordered cart items: %w", err)
	}

	return nil
}
