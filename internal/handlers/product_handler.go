package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"inventory-api/internal/middleware"
	"inventory-api/internal/models"
	"inventory-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type ProductHandler struct {
	productService *services.ProductService
	logger         zerolog.Logger
}

func NewProductHandler(productService *services.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// AddProduct handles POST /api/products.
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req models.AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	productID, err := h.productService.AddProduct(r.Context(), &req)
	if err != nil {
		h.writeProductError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      productID,
		"message": "Product added successfully",
	})
}

// UpdateQuantity handles PUT /api/products/{id}/quantity.
func (h *ProductHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productIDFromPath(w, r)
	if !ok {
		return
	}

	var req models.UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		respondWithError(w, http.StatusBadRequest, "Quantity must be a non-negative integer")
		return
	}

	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	product, err := h.productService.UpdateQuantity(r.Context(), productID, *req.Quantity, userID)
	if err != nil {
		h.writeProductError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Quantity updated successfully",
		"product": product,
	})
}

// ListProducts handles GET /api/products?page&limit.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 0)

	result, err := h.productService.ListProducts(r.Context(), page, limit)
	if err != nil {
		h.writeProductError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ListUpdates handles GET /api/products/{id}/updates, the product's audit
// ledger oldest first.
func (h *ProductHandler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productIDFromPath(w, r)
	if !ok {
		return
	}

	updates, err := h.productService.ListInventoryUpdates(r.Context(), productID)
	if err != nil {
		h.writeProductError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": productID,
		"updates":    updates,
	})
}

// productIDFromPath parses {id}; a non-numeric id cannot name a product, so
// it reads as 404 rather than 400.
func (h *ProductHandler) productIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	productID, err := strconv.Atoi(vars["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Product not found")
		return 0, false
	}
	return productID, true
}

func (h *ProductHandler) writeProductError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		respondWithError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, services.ErrDuplicateSKU):
		respondWithError(w, http.StatusConflict, "SKU already exists")
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Product not found")
	default:
		h.logger.Error().Err(err).Msg("Product operation failed")
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
