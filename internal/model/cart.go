package model

import (
	"time"

	"github.com/google/uuid"
)

// Cart holds a user's current selection. There is at most one cart per user;
// it is created lazily on the first add and persists even when emptied.
type Cart struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"userId" db:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// CartItem is a single line in a cart. A cart holds at most one line per
// product; adding an existing product merges into the line's quantity.
type CartItem struct {
	CartID    uuid.UUID `json:"-" db:"cart_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// AddCartItemRequest represents the request payload for adding to the cart.
// Quantity is a delta: adding a product already in the cart increments the
// existing line.
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// SetCartQuantityRequest represents the request payload for setting a cart
// line to an absolute quantity.
type SetCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse represents a cart with product references resolved.
type CartResponse struct {
	Items    []CartItem `json:"items"`
	Products []Product  `json:"products"`
}
