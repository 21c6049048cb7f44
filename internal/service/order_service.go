package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aroha/internal/model"
	"aroha/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Checkout converts the selected cart lines into a new order and removes
// exactly those lines from the cart. Order creation and cart removal happen
// in one transaction: either the order exists and the lines are gone, or
// neither. Lines not listed in the request stay in the cart untouched.
//
// There is no idempotency key: resubmitting an identical request creates a
// second, distinct order.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	items, err := s.validateCheckoutRequest(req)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	if err := s.productRepo.ValidateProductsExist(ctx, productIDs); err != nil {
		s.logger.Warn().
			Int("product_count", len(productIDs)).
			Err(err).
			Msg("product validation failed")
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		CustomerName:    req.CustomerName,
		CustomerMobile:  req.CustomerMobile,
		DeliveryAddress: req.DeliveryAddress,
		Status:          model.StatusPending,
		CreatedAt:       now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	seed := model.StatusChange{Status: model.StatusPending, UpdatedAt: now}
	if err = s.orderRepo.AppendStatusHistory(ctx, tx, order.ID, seed); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to seed status history")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.cartRepo.RemoveItemsTx(ctx, tx, userID, productIDs); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to remove ordered lines from cart")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Int("item_count", len(orderItems)).
		Msg("order created successfully")

	return &model.OrderResponse{
		ID:              order.ID,
		UserID:          order.UserID,
		CustomerName:    order.CustomerName,
		CustomerMobile:  order.CustomerMobile,
		DeliveryAddress: order.DeliveryAddress,
		Status:          order.Status,
		StatusHistory:   []model.StatusChange{seed},
		Items:           orderItems,
		Products:        products,
		CreatedAt:       order.CreatedAt,
	}, nil
}

// GetByID retrieves an order with items, products and status history.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return s.resolveOrder(ctx, order, items)
}

// GetByUser retrieves a user's orders, newest first.
func (s *orderService) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderResponse, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get user orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	return s.resolveOrders(ctx, orders)
}

// GetAll retrieves all orders, newest first.
func (s *orderService) GetAll(ctx context.Context) ([]model.OrderResponse, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	return s.resolveOrders(ctx, orders)
}

// UpdateStatus transitions an order to a new status and appends to its
// history. Unknown statuses are rejected; Delivered is terminal. Backward
// moves between non-terminal stages are allowed.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.OrderResponse, error) {
	if strings.TrimSpace(status) == "" {
		return nil, model.MissingField("status")
	}

	newStatus, err := model.ParseOrderStatus(status)
	if err != nil {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("status", status).
			Msg("unknown order status")
		return nil, err
	}

	order, items, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", orderID.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	if order.Status.Terminal() {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(order.Status)).
			Str("to", string(newStatus)).
			Msg("rejected transition out of terminal status")
		return nil, model.ErrDeliveredFinal
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var found bool
	if found, err = s.orderRepo.SetStatus(ctx, tx, orderID, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if !found {
		err = model.ErrOrderNotFound
		return nil, err
	}

	change := model.StatusChange{Status: newStatus, UpdatedAt: time.Now()}
	if err = s.orderRepo.AppendStatusHistory(ctx, tx, orderID, change); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("from", string(order.Status)).
		Str("to", string(newStatus)).
		Msg("order status updated")

	order.Status = newStatus
	return s.resolveOrder(ctx, order, items)
}

// validateCheckoutRequest checks required fields and applies the quantity
// default of 1 to omitted or non-positive quantities.
func (s *orderService) validateCheckoutRequest(req *model.CheckoutRequest) ([]model.CheckoutItem, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, model.ErrEmptyOrder
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, model.MissingField("customerName")
	}
	if strings.TrimSpace(req.CustomerMobile) == "" {
		return nil, model.MissingField("customerMobile")
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		return nil, model.MissingField("deliveryAddress")
	}

	items := make([]model.CheckoutItem, len(req.Items))
	for i, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return nil, model.MissingField("productId")
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		items[i] = item
	}

	return items, nil
}

// resolveOrder joins product records and status history into a response.
func (s *orderService) resolveOrder(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.OrderResponse, error) {
	productIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	history, err := s.orderRepo.GetStatusHistory(ctx, order.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to retrieve status history")
		return nil, fmt.Errorf("failed to retrieve status history: %w", err)
	}

	return &model.OrderResponse{
		ID:              order.ID,
		UserID:          order.UserID,
		CustomerName:    order.CustomerName,
		CustomerMobile:  order.CustomerMobile,
		DeliveryAddress: order.DeliveryAddress,
		Status:          order.Status,
		StatusHistory:   history,
		Items:           items,
		Products:        products,
		CreatedAt:       order.CreatedAt,
	}, nil
}

// resolveOrders joins items, products and histories for a list of orders.
func (s *orderService) resolveOrders(ctx context.Context, orders []model.Order) ([]model.OrderResponse, error) {
	responses := make([]model.OrderResponse, 0, len(orders))
	if len(orders) == 0 {
		return responses, nil
	}

	orderIDs := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
	}

	itemsByOrder, err := s.orderRepo.GetItemsByOrderIDs(ctx, orderIDs)
	if err != nil {
		s.logger.Error().Err(err).Int("order_count", len(orders)).Msg("failed to retrieve order items")
		return nil, fmt.Errorf("failed to retrieve order items: %w", err)
	}

	for i := range orders {
		resp, err := s.resolveOrder(ctx, &orders[i], itemsByOrder[orders[i].ID])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}

	return responses, nil
}
