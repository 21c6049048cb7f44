package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"aroha/internal/imagestore"
	"aroha/internal/model"

	"github.com/rs/zerolog"
)

// UploadHandler serves stored product images.
type UploadHandler struct {
	store  imagestore.Store
	logger zerolog.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(store imagestore.Store, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		store:  store,
		logger: logger.With().Str("handler", "upload").Logger(),
	}
}

// Get handles GET /uploads/{file} requests.
func (h *UploadHandler) Get(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("file")
	if filename == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "file is required", h.logger)
		return
	}

	rc, err := h.store.Open(r.Context(), filename)
	if err != nil {
		h.logger.Debug().Err(err).Str("file", filename).Msg("image not found")
		writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, "image not found", h.logger)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error().Err(err).Str("file", filename).Msg("failed to stream image")
	}
}
