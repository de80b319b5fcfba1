package models

import (
	"time"
)

// Product represents an item currently (or formerly) in the fridge
type Product struct {
	ID           int        `json:"id"`
	Barcode      string     `json:"barcode"`
	Name         *string    `json:"name,omitempty"`
	Brand        *string    `json:"brand,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Weight       *string    `json:"weight,omitempty"`
	Quantity     int        `json:"quantity"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	ImageKey     *string    `json:"image_key,omitempty"`
	FromReceipt  bool       `json:"from_receipt"`
	Finished     bool       `json:"finished"`
	AddedDate    time.Time  `json:"added_date"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateProductRequest is the body for manual product entry
type CreateProductRequest struct {
	Barcode    string  `json:"barcode"`
	Name       *string `json:"name,omitempty"`
	Brand      *string `json:"brand,omitempty"`
	Category   *string `json:"category,omitempty"`
	Quantity   int     `json:"quantity"`
	ExpiryDate *string `json:"expiry_date,omitempty"`
}

// UpdateProductRequest is the body for editing a product
type UpdateProductRequest struct {
	Name       *string `json:"name,omitempty"`
	Brand      *string `json:"brand,omitempty"`
	Category   *string `json:"category,omitempty"`
	Quantity   *int    `json:"quantity,omitempty"`
	ExpiryDate *string `json:"expiry_date,omitempty"`
}

// Stats provides the dashboard counters
type Stats struct {
	TotalProducts int `json:"total_products"`
	ExpiringSoon  int `json:"expiring_soon"`
	ShoppingItems int `json:"shopping_items"`
}
