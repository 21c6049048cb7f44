package router

import (
	"net/http"

	"aroha/internal/handler"
	"aroha/internal/middleware"
	"aroha/internal/service"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// Cart, order and profile routes require a session; the catalogue and auth
// entry points are public.
func New(
	productHandler *handler.ProductHandler,
	authHandler *handler.AuthHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	uploadHandler *handler.UploadHandler,
	users service.UserService,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()
	authed := middleware.RequireSession(users, logger)

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Auth routes
	mux.HandleFunc("POST /auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/forgot-password", authHandler.ForgotPassword)
	mux.Handle("POST /auth/profile/update", authed(http.HandlerFunc(authHandler.UpdateProfile)))

	// Catalogue routes
	mux.HandleFunc("GET /api/products", productHandler.GetAll)
	mux.HandleFunc("GET /api/products/search", productHandler.Search)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)
	mux.HandleFunc("POST /api/products", productHandler.Create)
	mux.HandleFunc("DELETE /api/products/{id}", productHandler.Delete)

	// Stored product images
	mux.HandleFunc("GET /uploads/{file}", uploadHandler.Get)

	// Cart routes
	mux.Handle("GET /api/cart", authed(http.HandlerFunc(cartHandler.Get)))
	mux.Handle("POST /api/cart/items", authed(http.HandlerFunc(cartHandler.AddItem)))
	mux.Handle("PUT /api/cart/items/{productId}", authed(http.HandlerFunc(cartHandler.SetQuantity)))
	mux.Handle("DELETE /api/cart/items/{productId}", authed(http.HandlerFunc(cartHandler.RemoveItem)))

	// Order routes
	mux.Handle("POST /api/orders", authed(http.HandlerFunc(orderHandler.Checkout)))
	mux.Handle("GET /api/orders", authed(http.HandlerFunc(orderHandler.GetOwn)))
	mux.Handle("GET /api/orders/all", authed(http.HandlerFunc(orderHandler.GetAll)))
	mux.Handle("GET /api/orders/{id}", authed(http.HandlerFunc(orderHandler.GetByID)))
	mux.Handle("PUT /api/orders/{id}/status", authed(http.HandlerFunc(orderHandler.UpdateStatus)))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
