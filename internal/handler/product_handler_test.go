package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"aroha/internal/model"
	"aroha/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, req *model.ProductRequest, images []service.ImageUpload) (*model.Product, error) {
	args := m.Called(ctx, req, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) GetAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) Search(ctx context.Context, filters model.ProductSearch) ([]model.Product, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// multipartProduct builds a multipart form body carrying product fields and
// optional image files.
func multipartProduct(t *testing.T, fields map[string]string, images ...string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	for _, name := range images {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = io.WriteString(part, "image-bytes")
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestProductHandler_Create(t *testing.T) {
	logger := zerolog.Nop()

	fields := map[string]string{
		"name":     "Linen Shirt",
		"category": "Clothing",
		"sizes":    "S, M, L",
		"price":    "200",
		"discount": "25",
		"stock":    "10",
	}

	t.Run("Success with images", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)

		created := &model.Product{
			ID:         uuid.New(),
			Name:       "Linen Shirt",
			Category:   "Clothing",
			Price:      decimal.RequireFromString("200"),
			Discount:   decimal.RequireFromString("25"),
			FinalPrice: decimal.RequireFromString("150"),
		}

		mockService.On("Create", mock.Anything, mock.MatchedBy(func(req *model.ProductRequest) bool {
			return req.Name == "Linen Shirt" &&
				len(req.Sizes) == 3 &&
				req.Price.Equal(decimal.RequireFromString("200"))
		}), mock.MatchedBy(func(images []service.ImageUpload) bool {
			return len(images) == 2 && images[0].Ext == ".jpg" && images[1].Ext == ".png"
		})).Return(created, nil)

		body, contentType := multipartProduct(t, fields, "front.JPG", "back.png")
		req := httptest.NewRequest(http.MethodPost, "/api/products", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, true, resp["success"])

		mockService.AssertExpectations(t)
	})

	t.Run("Invalid discount", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)

		bad := map[string]string{
			"name":     "Linen Shirt",
			"category": "Clothing",
			"price":    "200",
			"discount": "not-a-number",
		}

		body, contentType := multipartProduct(t, bad)
		req := httptest.NewRequest(http.MethodPost, "/api/products", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, model.ErrCodeInvalidDiscount, resp.Error)
		mockService.AssertNotCalled(t, "Create")
	})

	t.Run("Not multipart", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(`{"name":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestProductHandler_GetAll(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Returns products", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)

		products := []model.Product{
			{ID: uuid.New(), Name: "Product A", Category: "Cat1"},
		}
		mockService.On("GetAll", mock.Anything).Return(products, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()

		handler.GetAll(w, req)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Empty catalogue returns empty list", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)

		mockService.On("GetAll", mock.Anything).Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()

		handler.GetAll(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestProductHandler_Search(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, logger)

	expected := model.ProductSearch{Query: "shirt", Category: "Clothing", SubCategory: "Shirts"}
	mockService.On("Search", mock.Anything, expected).Return([]model.Product{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products/search?q=shirt&category=Clothing&subCategory=Shirts", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestProductHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()

	productID := uuid.New()

	t.Run("Not found", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)

		mockService.On("GetByID", mock.Anything, productID).Return(nil, model.ErrProductNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/products/"+productID.String(), nil)
		req.SetPathValue("id", productID.String())
		w := httptest.NewRecorder()

		handler.GetByID(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid UUID", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/products/nope", nil)
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()

		handler.GetByID(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "GetByID")
	})
}

func TestProductHandler_Delete(t *testing.T) {
	logger := zerolog.Nop()

	productID := uuid.New()

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, logger)

	mockService.On("Delete", mock.Anything, productID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+productID.String(), nil)
	req.SetPathValue("id", productID.String())
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, true, resp["success"])
}
