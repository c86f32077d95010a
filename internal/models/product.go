package models

import (
	"fmt"
	"time"
)

type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Type        string    `json:"type,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

// InventoryUpdate is one row of the append-only audit ledger. Rows are never
// mutated or deleted; for a given product they chain so that each row's
// OldQuantity equals the previous row's NewQuantity.
type InventoryUpdate struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"product_id"`
	UserID      *int      `json:"user_id,omitempty"`
	OldQuantity int       `json:"old_quantity"`
	NewQuantity int       `json:"new_quantity"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func QuantityChangeDescription(oldQuantity, newQuantity int) string {
	return fmt.Sprintf("Quantity updated from %d to %d", oldQuantity, newQuantity)
}

// AddProductRequest uses pointers for the numeric fields so a missing value
// can be told apart from an explicit zero.
type AddProductRequest struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	SKU         string   `json:"sku"`
	ImageURL    string   `json:"image_url"`
	Description string   `json:"description"`
	Quantity    *int     `json:"quantity"`
	Price       *float64 `json:"price"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type ProductPage struct {
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
	Total    int        `json:"total"`
	Products []*Product `json:"products"`
}
