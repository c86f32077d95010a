package services

import (
	"context"
	"errors"
	"fmt"

	"inventory-api/internal/cache"
	"inventory-api/internal/models"
	"inventory-api/internal/store"

	"github.com/rs/zerolog"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type ProductService struct {
	products store.ProductStore
	cache    *cache.ProductCache
	logger   zerolog.Logger
}

func NewProductService(products store.ProductStore, productCache *cache.ProductCache, logger zerolog.Logger) *ProductService {
	return &ProductService{
		products: products,
		cache:    productCache,
		logger:   logger,
	}
}

func (s *ProductService) AddProduct(ctx context.Context, req *models.AddProductRequest) (int, error) {
	if req.Name == "" || req.SKU == "" || req.Quantity == nil || req.Price == nil {
		return 0, validationErr("Missing required fields")
	}
	if *req.Quantity < 0 {
		return 0, validationErr("Quantity must be a non-negative integer")
	}
	if *req.Price < 0 {
		return 0, validationErr("Price must be non-negative")
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	productID, err := s.products.CreateProduct(ctx, &models.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Type:        req.Type,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Quantity:    *req.Quantity,
		Price:       *req.Price,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return 0, ErrDuplicateSKU
		}
		s.logger.Error().Err(err).Str("sku", req.SKU).Msg("Error creating product")
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	s.cache.Invalidate(ctx)

	s.logger.Info().Int("product_id", productID).Str("sku", req.SKU).Msg("Product added")
	return productID, nil
}

// UpdateQuantity sets a product's quantity and appends the audit row. The
// store performs the read-modify-write-append sequence as one atomic unit, so
// the ledger either gains exactly one chained row or nothing changes.
func (s *ProductService) UpdateQuantity(ctx context.Context, productID, newQuantity, actingUserID int) (*models.Product, error) {
	if newQuantity < 0 {
		return nil, validationErr("Quantity must be a non-negative integer")
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	product, err := s.products.UpdateQuantity(ctx, productID, newQuantity, &actingUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Int("product_id", productID).Msg("Error updating quantity")
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	s.cache.Invalidate(ctx)

	s.logger.Info().
		Int("product_id", productID).
		Int("quantity", newQuantity).
		Int("user_id", actingUserID).
		Msg("Quantity updated")

	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, page, limit int) (*models.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	if cached, ok := s.cache.GetPage(ctx, page, limit); ok {
		return cached, nil
	}

	offset := (page - 1) * limit
	products, total, err := s.products.ListProducts(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	result := &models.ProductPage{
		Page:     page,
		Limit:    limit,
		Total:    total,
		Products: products,
	}
	s.cache.SetPage(ctx, result)

	return result, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID int) (*models.Product, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

// ListInventoryUpdates returns a product's audit ledger, oldest first.
func (s *ProductService) ListInventoryUpdates(ctx context.Context, productID int) ([]*models.InventoryUpdate, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	updates, err := s.products.ListInventoryUpdates(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", productID).Msg("Error listing inventory updates")
		return nil, fmt.Errorf("failed to list inventory updates: %w", err)
	}
	return updates, nil
}
