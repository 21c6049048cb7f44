package repository

import (
	"context"

	"aroha/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// UpdateImages replaces the stored image filename list for a product.
	UpdateImages(ctx context.Context, id uuid.UUID, images []string) error

	// GetAll retrieves all active products.
	GetAll(ctx context.Context) ([]model.Product, error)

	// Search retrieves products matching the given filters.
	Search(ctx context.Context, filters model.ProductSearch) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)

	// ValidateProductsExist checks that every provided product ID exists.
	ValidateProductsExist(ctx context.Context, ids []uuid.UUID) error

	// Delete removes a product, returning the deleted record or nil when
	// absent. The caller is responsible for cleaning up stored images.
	Delete(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// UserRepository defines the interface for account and session data access.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// GetByMobile retrieves a user by mobile number. Returns nil when absent.
	GetByMobile(ctx context.Context, mobile string) (*model.User, error)

	// GetByID retrieves a user by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// Update persists changes to an existing user's mutable fields.
	Update(ctx context.Context, user *model.User) error

	// SetRecoveryCode stores a recovery code for the given mobile. Returns
	// false when no such user exists.
	SetRecoveryCode(ctx context.Context, mobile, code string) (bool, error)

	// CreateSession inserts a new login session.
	CreateSession(ctx context.Context, session *model.Session) error

	// GetSession retrieves a session by token. Returns nil when absent.
	GetSession(ctx context.Context, token string) (*model.Session, error)
}

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// GetByUserID retrieves a user's cart with its line items. Returns nil
	// when the user has no cart yet.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// AddItem lazily creates the user's cart and merges the given quantity
	// delta into the line for productID, appending a new line when absent.
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error

	// SetItemQuantity sets a line to an absolute quantity. Returns false when
	// the cart or line does not exist.
	SetItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (bool, error)

	// RemoveItem drops the line for productID. Returns false when the line
	// was not present.
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	// RemoveItemsTx drops the lines for the given products within the
	// provided transaction.
	RemoveItemsTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, productIDs []uuid.UUID) error
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// SetStatus updates an order's current status within the provided
	// transaction. Returns false when the order does not exist.
	SetStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.OrderStatus) (bool, error)

	// AppendStatusHistory appends one entry to an order's status history
	// within the provided transaction. History rows are never updated or
	// deleted.
	AppendStatusHistory(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, change model.StatusChange) error

	// GetByID retrieves an order by its ID along with its items. Returns nil
	// order when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// GetStatusHistory retrieves an order's status history in chronological order.
	GetStatusHistory(ctx context.Context, orderID uuid.UUID) ([]model.StatusChange, error)

	// GetByUserID retrieves a user's orders, newest first.
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// GetAll retrieves all orders, newest first.
	GetAll(ctx context.Context) ([]model.Order, error)

	// GetItemsByOrderIDs retrieves the items of multiple orders keyed by order ID.
	GetItemsByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error)
}
