package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"aroha/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) SetItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) RemoveItemsTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, productIDs []uuid.UUID) error {
	args := m.Called(ctx, tx, userID, productIDs)
	return args.Error(0)
}

func testCart(userID uuid.UUID, items ...model.CartItem) *model.Cart {
	now := time.Now()
	return &model.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCartService_GetCart_NoCartReturnsEmpty(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)

	svc := NewCartService(mockCartRepo, mockProductRepo, logger)

	mockCartRepo.On("GetByUserID", ctx, userID).Return(nil, nil)

	resp, err := svc.GetCart(ctx, userID)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Empty(t, resp.Items)
	assert.Empty(t, resp.Products)

	mockProductRepo.AssertNotCalled(t, "GetByIDs")
}

func TestCartService_GetCart_ResolvesProducts(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()
	cart := testCart(userID, model.CartItem{ProductID: productID, Quantity: 2})
	products := []model.Product{{ID: productID, Name: "Product A", Category: "Cat1"}}

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)

	svc := NewCartService(mockCartRepo, mockProductRepo, logger)

	mockCartRepo.On("GetByUserID", ctx, userID).Return(cart, nil)
	mockProductRepo.On("GetByIDs", ctx, []uuid.UUID{productID}).Return(products, nil)

	resp, err := svc.GetCart(ctx, userID)

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, products, resp.Products)
}

func TestCartService_AddItem_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	// The merged quantity comes back from the repository; the service only
	// passes the delta down.
	cart := testCart(userID, model.CartItem{ProductID: productID, Quantity: 5})

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)

	svc := NewCartService(mockCartRepo, mockProductRepo, logger)

	mockProductRepo.On("ValidateProductsExist", ctx, []uuid.UUID{productID}).Return(nil)
	mockCartRepo.On("AddItem", ctx, userID, productID, 2).Return(nil)
	mockCartRepo.On("GetByUserID", ctx, userID).Return(cart, nil)
	mockProductRepo.On("GetByIDs", ctx, []uuid.UUID{productID}).Return([]model.Product{{ID: productID}}, nil)

	resp, err := svc.AddItem(ctx, userID, &model.AddCartItemRequest{ProductID: productID, Quantity: 2})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)

	mockCartRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
}

func TestCartService_AddItem_ValidationErrors(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	tests := []struct {
		name        string
		req         *model.AddCartItemRequest
		expectedErr error
	}{
		{
			name:        "Nil request",
			req:         nil,
			expectedErr: nil, // MISSING_FIELD
		},
		{
			name:        "Nil product ID",
			req:         &model.AddCartItemRequest{ProductID: uuid.Nil, Quantity: 1},
			expectedErr: nil, // MISSING_FIELD
		},
		{
			name:        "Zero quantity",
			req:         &model.AddCartItemRequest{ProductID: productID, Quantity: 0},
			expectedErr: model.ErrInvalidQuantity,
		},
		{
			name:        "Negative quantity",
			req:         &model.AddCartItemRequest{ProductID: productID, Quantity: -3},
			expectedErr: model.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCartRepo := new(MockCartRepository)
			mockProductRepo := new(MockProductRepository)

			svc := NewCartService(mockCartRepo, mockProductRepo, logger)

			resp, err := svc.AddItem(ctx, userID, tt.req)

			require.Error(t, err)
			assert.Nil(t, resp)
			if tt.expectedErr != nil {
				assert.Equal(t, tt.expectedErr, err)
			}

			mockCartRepo.AssertNotCalled(t, "AddItem")
		})
	}
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)

	svc := NewCartService(mockCartRepo, mockProductRepo, logger)

	mockProductRepo.On("ValidateProductsExist", ctx, []uuid.UUID{productID}).Return(model.ErrProductNotFound)

	resp, err := svc.AddItem(ctx, userID, &model.AddCartItemRequest{ProductID: productID, Quantity: 1})

	require.Error(t, err)
	assert.Equal(t, model.ErrProductNotFound, err)
	assert.Nil(t, resp)

	mockCartRepo.AssertNotCalled(t, "AddItem")
}

func TestCartService_SetQuantity_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()
	cart := testCart(userID, model.CartItem{ProductID: productID, Quantity: 4})

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)

	svc := NewCartService(mockCartRepo, mockProductRepo, logger)

	mockCartRepo.On("SetItemQuantity", ctx, userID, productID, 4).Return(true, nil)
	mockCartRepo.On("GetByUserID", ctx, userID).Return(cart, nil)
	mockProductRepo.On("GetByIDs", ctx, []uuid.UUID{productID}).Return([]model.Product{{ID: productID}}, nil)

	resp, err := svc.SetQuantity(ctx, userID, productID, 4)

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 4, resp.Items[0].Quantity)

	mockCartRepo.AssertExpectations(t)
}

func TestCartService_SetQuantity_InvalidQuantity(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)

	svc := NewCartService(mockCartRepo, mockProductRepo, logger)

	for _, quantity := range []int{0, -1} {
		resp, err := svc.SetQuantity(ctx, userID, productID, quantity)

		require.Error(t, err)
		assert.Equal(t, model.ErrInvalidQuantity, err)
		assert.Nil(t, resp)
	}

	mockCartRepo.AssertNotCalled(t, "SetItemQuantity")
}

func TestCartService_SetQuantity_LineNotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)

	svc := NewCartService(mockCartRepo, mockProductRepo, logger)

	mockCartRepo.On("SetItemQuantity", ctx, userID, productID, 3).Return(false, nil)

	resp, err := svc.SetQuantity(ctx, userID, productID, 3)

	require.Error(t, err)
	assert.Equal(t, model.ErrCartItemNotFound, err)
	assert.Nil(t, resp)
}

func TestCartService_RemoveItem_NoCart(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)

	svc := NewCartService(mockCartRepo, mockProductRepo, logger)

	mockCartRepo.On("GetByUserID", ctx, userID).Return(nil, nil)

	resp, err := svc.RemoveItem(ctx, userID, productID)

	require.Error(t, err)
	assert.Equal(t, model.ErrCartNotFound, err)
	assert.Nil(t, resp)

	mockCartRepo.AssertNotCalled(t, "RemoveItem")
}

func TestCartService_RemoveItem_AbsentLineIsNoOp(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	inCart := uuid.New()
	notInCart := uuid.New()
	cart := testCart(userID, model.CartItem{ProductID: inCart, Quantity: 1})

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)

	svc := NewCartService(mockCartRepo, mockProductRepo, logger)

	mockCartRepo.On("GetByUserID", ctx, userID).Return(cart, nil)
	mockCartRepo.On("RemoveItem", ctx, userID, notInCart).Return(false, nil)
	mockProductRepo.On("GetByIDs", ctx, []uuid.UUID{inCart}).Return([]model.Product{{ID: inCart}}, nil)

	resp, err := svc.RemoveItem(ctx, userID, notInCart)

	// Removing a line that is not there succeeds and leaves the cart as-is.
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, inCart, resp.Items[0].ProductID)
}

func TestCartService_RemoveItem_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	remaining := testCart(userID)

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)

	svc := NewCartService(mockCartRepo, mockProductRepo, logger)

	mockCartRepo.On("GetByUserID", ctx, userID).Return(remaining, nil)
	mockCartRepo.On("RemoveItem", ctx, userID, productID).Return(true, nil)
	mockProductRepo.On("GetByIDs", ctx, []uuid.UUID{}).Return([]model.Product{}, nil)

	resp, err := svc.RemoveItem(ctx, userID, productID)

	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	mockCartRepo.AssertExpectations(t)
}

func TestCartService_RemoveItem_RepositoryError(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()
	cart := testCart(userID, model.CartItem{ProductID: productID, Quantity: 1})

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)

	svc := NewCartService(mockCartRepo, mockProductRepo, logger)

	mockCartRepo.On("GetByUserID", ctx, userID).Return(cart, nil)
	mockCartRepo.On("RemoveItem", ctx, userID, productID).Return(false, errors.New("database error"))

	resp, err := svc.RemoveItem(ctx, userID, productID)

	require.Error(t, err)
	assert.Nil(t, resp)
}
