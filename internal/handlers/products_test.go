package handlers

import (
	"testing"

	"github.com/xamad/smartfridge/internal/models"
)

func strPtr(s string) *string { return &s }

func TestRestockName(t *testing.T) {
	tests := []struct {
		name    string
		product models.Product
		want    string
	}{
		{
			name:    "named product",
			product: models.Product{Barcode: "8001234567890", Name: strPtr("Latte Intero")},
			want:    "Latte Intero",
		},
		{
			name:    "name never set falls back to barcode",
			product: models.Product{Barcode: "8001234567890"},
			want:    "8001234567890",
		},
		{
			name:    "empty name falls back to barcode",
			product: models.Product{Barcode: "8001234567890", Name: strPtr("")},
			want:    "8001234567890",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := restockName(&tt.product)
			if got == nil {
				t.Fatal("restockName returned nil, shopping entries must be labeled")
			}
			if *got != tt.want {
				t.Errorf("restockName = %q, want %q", *got, tt.want)
			}
		})
	}
}
