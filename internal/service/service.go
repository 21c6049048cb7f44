package service

import (
	"context"
	"io"

	"aroha/internal/model"

	"github.com/google/uuid"
)

// ImageUpload is one image file received with a product creation request.
type ImageUpload struct {
	Ext    string // filename extension including the dot, e.g. ".jpg"
	Reader io.Reader
}

// ProductService defines operations for catalogue management.
type ProductService interface {
	// Create adds a product with its images. Image files are stored as
	// "<productID>-<n><ext>" and the filenames recorded on the product.
	Create(ctx context.Context, req *model.ProductRequest, images []ImageUpload) (*model.Product, error)

	// GetAll retrieves all active products.
	GetAll(ctx context.Context) ([]model.Product, error)

	// Search retrieves products matching the given filters.
	Search(ctx context.Context, filters model.ProductSearch) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Delete removes a product and its stored images.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserService defines operations for accounts and sessions.
type UserService interface {
	// Signup creates an account and issues a login session.
	Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error)

	// Login verifies credentials and issues a login session.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// ForgotPassword issues a recovery code for the given mobile.
	ForgotPassword(ctx context.Context, mobile string) (string, error)

	// UpdateProfile updates the authenticated user's profile fields.
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.ProfileUpdateRequest) (*model.User, error)

	// Authenticate resolves a bearer token to a live session.
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

// CartService defines operations for cart management. The acting user comes
// from the authenticated session.
type CartService interface {
	// GetCart retrieves the user's cart with product references resolved.
	// A user with no cart gets an empty response, not an error.
	GetCart(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error)

	// AddItem merges a quantity delta into the cart line for a product,
	// creating the cart and the line as needed.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) (*model.CartResponse, error)

	// SetQuantity sets a cart line to an absolute quantity.
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.CartResponse, error)

	// RemoveItem drops a line from the cart entirely.
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*model.CartResponse, error)
}

// OrderService defines operations for checkout and the order lifecycle.
type OrderService interface {
	// Checkout converts the selected cart lines into a new order and removes
	// exactly those lines from the cart, atomically.
	Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order with items, products and status history.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// GetByUser retrieves a user's orders, newest first. A user with no
	// orders gets an empty slice, not an error.
	GetByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderResponse, error)

	// GetAll retrieves all orders, newest first (seller view).
	GetAll(ctx context.Context) ([]model.OrderResponse, error)

	// UpdateStatus transitions an order to a new status, appending to its
	// status history.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.OrderResponse, error)
}
