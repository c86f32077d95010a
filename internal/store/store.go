// Package store defines the persistence interfaces the services operate on,
// with a MySQL implementation for production and an in-memory one for tests.
package store

import (
	"context"
	"errors"

	"inventory-api/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (int, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
}

type ProductStore interface {
	CreateProduct(ctx context.Context, p *models.Product) (int, error)
	GetProductByID(ctx context.Context, id int) (*models.Product, error)
	// ListProducts returns one page ordered most-recently-created first,
	// plus the total product count.
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, int, error)
	// UpdateQuantity performs the read-modify-write-append sequence as one
	// atomic unit: it locks the product row, writes the new quantity and
	// appends the audit row, or does nothing at all.
	UpdateQuantity(ctx context.Context, productID, newQuantity int, userID *int) (*models.Product, error)
	ListInventoryUpdates(ctx context.Context, productID int) ([]*models.InventoryUpdate, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
