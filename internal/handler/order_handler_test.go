package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aroha/internal/middleware"
	"aroha/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetAll(ctx context.Context) ([]model.OrderResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.OrderResponse, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

// authedRequest builds a request carrying an authenticated user ID, the way
// the session middleware would.
func authedRequest(method, path string, body []byte, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestOrderHandler_Checkout(t *testing.T) {
	logger := zerolog.Nop()

	userID := uuid.New()
	orderID := uuid.New()
	productID := uuid.New()

	testResponse := &model.OrderResponse{
		ID:     orderID,
		UserID: userID,
		Status: model.StatusPending,
		Items: []model.OrderItem{
			{ID: uuid.New(), OrderID: orderID, ProductID: productID, Quantity: 2},
		},
		CreatedAt: time.Now(),
	}

	validBody := &model.CheckoutRequest{
		Items:           []model.CheckoutItem{{ProductID: productID, Quantity: 2}},
		CustomerName:    "Asha Rao",
		CustomerMobile:  "9876543210",
		DeliveryAddress: "12 MG Road",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockReturn     *model.OrderResponse
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{
			name:           "Success",
			requestBody:    validBody,
			mockReturn:     testResponse,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Empty order",
			requestBody:    &model.CheckoutRequest{},
			mockError:      model.ErrEmptyOrder,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeEmptyOrder,
			expectService:  true,
		},
		{
			name:           "Product not found",
			requestBody:    validBody,
			mockError:      model.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeProductNotFound,
			expectService:  true,
		},
		{
			name:           "Missing field",
			requestBody:    validBody,
			mockError:      model.MissingField("customerName"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeMissingField,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
			expectService:  false,
		},
		{
			name:           "Service internal error",
			requestBody:    validBody,
			mockError:      errors.New("database connection failed"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				var err error
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			if tt.expectService {
				mockService.On("Checkout", mock.Anything, userID, mock.AnythingOfType("*model.CheckoutRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := authedRequest(http.MethodPost, "/api/orders", body, userID)
			w := httptest.NewRecorder()

			handler.Checkout(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				resp := decodeError(t, w)
				assert.False(t, resp.Success)
				assert.Equal(t, tt.expectedCode, resp.Error)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestOrderHandler_Checkout_RequiresSession(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService, logger)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{}"))
	w := httptest.NewRecorder()

	handler.Checkout(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Checkout")
}

func TestOrderHandler_GetOwn(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()

	t.Run("Empty history returns empty list", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		mockService.On("GetByUser", mock.Anything, userID).Return([]model.OrderResponse{}, nil)

		req := authedRequest(http.MethodGet, "/api/orders", nil, userID)
		w := httptest.NewRecorder()

		handler.GetOwn(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("Orders returned newest first as provided", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		orders := []model.OrderResponse{
			{ID: uuid.New(), UserID: userID, Status: model.StatusProcessing},
			{ID: uuid.New(), UserID: userID, Status: model.StatusPending},
		}
		mockService.On("GetByUser", mock.Anything, userID).Return(orders, nil)

		req := authedRequest(http.MethodGet, "/api/orders", nil, userID)
		w := httptest.NewRecorder()

		handler.GetOwn(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var got []model.OrderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		require.Len(t, got, 2)
		assert.Equal(t, orders[0].ID, got[0].ID)
	})
}

func TestOrderHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()

	userID := uuid.New()
	orderID := uuid.New()

	ownOrder := &model.OrderResponse{ID: orderID, UserID: userID, Status: model.StatusPending}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		mockService.On("GetByID", mock.Anything, orderID).Return(ownOrder, nil)

		req := authedRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil, userID)
		req.SetPathValue("id", orderID.String())
		w := httptest.NewRecorder()

		handler.GetByID(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Another user's order reports not found", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		otherOrder := &model.OrderResponse{ID: orderID, UserID: uuid.New(), Status: model.StatusPending}
		mockService.On("GetByID", mock.Anything, orderID).Return(otherOrder, nil)

		req := authedRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil, userID)
		req.SetPathValue("id", orderID.String())
		w := httptest.NewRecorder()

		handler.GetByID(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, model.ErrCodeOrderNotFound, resp.Error)
	})

	t.Run("Unknown order", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		mockService.On("GetByID", mock.Anything, orderID).Return(nil, model.ErrOrderNotFound)

		req := authedRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil, userID)
		req.SetPathValue("id", orderID.String())
		w := httptest.NewRecorder()

		handler.GetByID(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid UUID", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		req := authedRequest(http.MethodGet, "/api/orders/not-a-uuid", nil, userID)
		req.SetPathValue("id", "not-a-uuid")
		w := httptest.NewRecorder()

		handler.GetByID(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "GetByID")
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	logger := zerolog.Nop()

	orderID := uuid.New()

	tests := []struct {
		name           string
		body           string
		mockReturn     *model.OrderResponse
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{
			name:           "Success",
			body:           `{"status":"Processing"}`,
			mockReturn:     &model.OrderResponse{ID: orderID, Status: model.StatusProcessing},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Unknown status",
			body:           `{"status":"Shipped"}`,
			mockError:      model.ErrInvalidStatus,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidStatus,
			expectService:  true,
		},
		{
			name:           "Delivered is terminal",
			body:           `{"status":"Pending"}`,
			mockError:      model.ErrDeliveredFinal,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeDeliveredFinal,
			expectService:  true,
		},
		{
			name:           "Order not found",
			body:           `{"status":"Processing"}`,
			mockError:      model.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeOrderNotFound,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			body:           "not json",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			if tt.expectService {
				mockService.On("UpdateStatus", mock.Anything, orderID, mock.AnythingOfType("string")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPut, "/api/orders/"+orderID.String()+"/status", bytes.NewBufferString(tt.body))
			req.SetPathValue("id", orderID.String())
			w := httptest.NewRecorder()

			handler.UpdateStatus(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				resp := decodeError(t, w)
				assert.False(t, resp.Success)
				assert.Equal(t, tt.expectedCode, resp.Error)
			}
		})
	}
}
