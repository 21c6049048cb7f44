package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the closed set of stages an order moves through.
type OrderStatus string

const (
	StatusPending           OrderStatus = "Pending"
	StatusUnderConfirmation OrderStatus = "Under Confirmation"
	StatusProcessing        OrderStatus = "Processing"
	StatusPacking           OrderStatus = "Packing"
	StatusDelivered         OrderStatus = "Delivered"
)

// knownStatuses lists every accepted status value.
var knownStatuses = map[OrderStatus]bool{
	StatusPending:           true,
	StatusUnderConfirmation: true,
	StatusProcessing:        true,
	StatusPacking:           true,
	StatusDelivered:         true,
}

// ParseOrderStatus validates a raw status string against the known set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !knownStatuses[status] {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered
}

// Order represents a placed order. Only Status and its history change after
// creation; line items and delivery details are fixed at checkout.
type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	UserID          uuid.UUID   `json:"userId" db:"user_id"`
	CustomerName    string      `json:"customerName" db:"customer_name"`
	CustomerMobile  string      `json:"customerMobile" db:"customer_mobile"`
	DeliveryAddress string      `json:"deliveryAddress" db:"delivery_address"`
	Status          OrderStatus `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
}

// OrderItem represents a line item in an order. Quantity is a snapshot taken
// at checkout; product data (including price) is resolved live at read time.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// StatusChange is one entry in an order's append-only status history.
type StatusChange struct {
	Status    OrderStatus `json:"status" db:"status"`
	UpdatedAt time.Time   `json:"updatedAt" db:"updated_at"`
}

// CheckoutItem is a single line selected for checkout.
type CheckoutItem struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// CheckoutRequest represents the request payload for converting cart lines
// into a new order. Items carry the client-side selection; lines not listed
// here stay in the cart.
type CheckoutRequest struct {
	Items           []CheckoutItem `json:"items"`
	CustomerName    string         `json:"customerName"`
	CustomerMobile  string         `json:"customerMobile"`
	DeliveryAddress string         `json:"deliveryAddress"`
}

// StatusUpdateRequest represents the request payload for a status transition.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// OrderResponse represents an order with product references resolved.
type OrderResponse struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"userId"`
	CustomerName    string         `json:"customerName"`
	CustomerMobile  string         `json:"customerMobile"`
	DeliveryAddress string         `json:"deliveryAddress"`
	Status          OrderStatus    `json:"status"`
	StatusHistory   []StatusChange `json:"statusHistory"`
	Items           []OrderItem    `json:"items"`
	Products        []Product      `json:"products"`
	CreatedAt       time.Time      `json:"createdAt"`
}
