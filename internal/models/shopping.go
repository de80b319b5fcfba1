package models

import (
	"time"
)

// ShoppingItem represents an entry on the shopping list
type ShoppingItem struct {
	ID             int       `json:"id"`
	Barcode        string    `json:"barcode"`
	Name           *string   `json:"name,omitempty"`
	QuantityNeeded int       `json:"quantity_needed"`
	Priority       string    `json:"priority"`
	AutoGenerated  bool      `json:"auto_generated"`
	Purchased      bool      `json:"purchased"`
	AddedDate      time.Time `json:"added_date"`
}

// CreateShoppingItemRequest is the body for manually adding a list entry
type CreateShoppingItemRequest struct {
	Barcode  string  `json:"barcode"`
	Name     *string `json:"name,omitempty"`
	Quantity int     `json:"quantity"`
	Priority *string `json:"priority,omitempty"`
}
