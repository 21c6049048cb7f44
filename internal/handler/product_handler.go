package handler

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"aroha/internal/model"
	"aroha/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxUploadBytes caps the in-memory size of a multipart product upload.
const maxUploadBytes = 32 << 20

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Create handles POST /api/products requests. The product fields arrive as
// multipart form values with up to five image files under "images".
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid multipart form", h.logger)
		return
	}

	req, err := productRequestFromForm(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var images []service.ImageUpload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "unreadable image upload", h.logger)
				return
			}
			defer file.Close()
			images = append(images, service.ImageUpload{
				Ext:    strings.ToLower(filepath.Ext(header.Filename)),
				Reader: file,
			})
		}
	}

	product, err := h.service.Create(r.Context(), req, images)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"product": product,
	})
}

// GetAll handles GET /api/products requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

// Search handles GET /api/products/search requests with q, category and
// subCategory query parameters.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	filters := model.ProductSearch{
		Query:       r.URL.Query().Get("q"),
		Category:    r.URL.Query().Get("category"),
		SubCategory: r.URL.Query().Get("subCategory"),
	}

	products, err := h.service.Search(r.Context(), filters)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid product ID format", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid product ID format", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product deleted",
	})
}

// productRequestFromForm parses product fields out of multipart form values.
// List-valued fields (sizes, keywords, tags) arrive comma-separated.
func productRequestFromForm(r *http.Request) (*model.ProductRequest, error) {
	req := &model.ProductRequest{
		Name:        r.FormValue("name"),
		Category:    r.FormValue("category"),
		SubCategory: r.FormValue("subCategory"),
		Brand:       r.FormValue("brand"),
		ProductType: r.FormValue("productType"),
		Material:    r.FormValue("material"),
		Color:       r.FormValue("color"),
		Sizes:       splitList(r.FormValue("sizes")),
		Keywords:    splitList(r.FormValue("keywords")),
		Tags:        splitList(r.FormValue("tags")),
	}

	if raw := r.FormValue("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, model.MissingField("price")
		}
		req.Price = price
	}

	if raw := r.FormValue("discount"); raw != "" {
		discount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, model.ErrInvalidDiscount
		}
		req.Discount = discount
	}

	if raw := r.FormValue("stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return nil, model.MissingField("stock")
		}
		req.Stock = stock
	}

	return req, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
