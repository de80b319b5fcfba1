package models

import (
	"time"
)

// ScanAction is what the scanner device did with a barcode
type ScanAction string

const (
	ScanActionAdd    ScanAction = "add"
	ScanActionRemove ScanAction = "remove"
)

// ScanEvent is a recorded scan from the fridge scanner
type ScanEvent struct {
	ID        int        `json:"id"`
	Barcode   string     `json:"barcode"`
	Action    ScanAction `json:"action"`
	Device    *string    `json:"device,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ScanRequest is the webhook payload posted by the scanner device
type ScanRequest struct {
	Action      ScanAction `json:"action"`
	Barcode     string     `json:"barcode"`
	BarcodeType *string    `json:"barcode_type,omitempty"`
	ExpiryDate  *string    `json:"expiry_date,omitempty"`
	Device      *string    `json:"device,omitempty"`
	BootCount   *int       `json:"boot_count,omitempty"`
	WiFiRSSI    *int       `json:"wifi_rssi,omitempty"`
}
