package router

import (
	"net/http"

	"inventory-api/internal/cache"
	"inventory-api/internal/config"
	"inventory-api/internal/handlers"
	"inventory-api/internal/middleware"
	"inventory-api/internal/services"
	"inventory-api/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Stores bundles the persistence dependencies the router needs. Production
// passes the MySQL store for all three; tests pass the in-memory store.
type Stores struct {
	Users    store.UserStore
	Products store.ProductStore
	Pinger   store.Pinger
}

func SetupRouter(cfg config.Config, stores Stores, productCache *cache.ProductCache, logger zerolog.Logger) *mux.Router {
	authService := services.NewAuthService(cfg, logger)
	userService := services.NewUserService(stores.Users, logger)
	productService := services.NewProductService(stores.Products, productCache, logger)

	authHandler := handlers.NewAuthHandler(userService, authService, logger)
	productHandler := handlers.NewProductHandler(productService, logger)
	healthHandler := handlers.NewHealthHandler(stores.Pinger, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg))
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", healthHandler.Health).Methods("GET")

	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(middleware.RequestValidation())
	auth.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	session := auth.PathPrefix("").Subrouter()
	session.Use(middleware.Authentication(authService, logger))
	session.HandleFunc("/me", authHandler.Me).Methods("GET")

	products := api.PathPrefix("/products").Subrouter()
	products.Use(middleware.Authentication(authService, logger))
	products.Use(middleware.RequestValidation())
	products.HandleFunc("", productHandler.ListProducts).Methods("GET")
	products.HandleFunc("", productHandler.AddProduct).Methods("POST")
	products.HandleFunc("/{id}/quantity", productHandler.UpdateQuantity).Methods("PUT")
	products.HandleFunc("/{id}/updates", productHandler.ListUpdates).Methods("GET")

	// Legacy aliases kept for old clients; same operations, different
	// response shapes.
	r.HandleFunc("/register", authHandler.SignupLegacy).Methods("POST")
	r.HandleFunc("/login", authHandler.LoginLegacy).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	})

	return r
}
