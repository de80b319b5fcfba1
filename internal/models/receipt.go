package models

import (
	"time"
)

// ProductCategory is the classification bucket for a parsed deli product
type ProductCategory string

const (
	CategoryDairy      ProductCategory = "Dairy"
	CategoryMeat       ProductCategory = "Meat"
	CategoryCuredMeats ProductCategory = "Cured-Meats"
)

// ParsedProduct is one deli product recovered from receipt OCR text.
// GeneratedCode stands in for a barcode, which deli counter items lack.
type ParsedProduct struct {
	GeneratedCode string
	Name          string
	Weight        *string
	Category      ProductCategory
	PurchaseDate  time.Time
	ExpiryDate    time.Time
	FromReceipt   bool
}

// ParsedReceipt is the full result of parsing one receipt
type ParsedReceipt struct {
	PurchaseDate time.Time
	ExpiryDate   time.Time
	Products     []ParsedProduct
}

// ReceiptProductView is the client-facing projection of a parsed product
type ReceiptProductView struct {
	Name     string          `json:"name"`
	Weight   *string         `json:"weight"`
	Category ProductCategory `json:"category"`
}

// ReceiptSummary is the response body of the receipt-processing endpoint
type ReceiptSummary struct {
	Success       bool                 `json:"success"`
	PurchaseDate  string               `json:"purchase_date"`
	ExpiryDate    string               `json:"expiry_date"`
	ProductsFound int                  `json:"products_found"`
	Products      []ReceiptProductView `json:"products"`
}
