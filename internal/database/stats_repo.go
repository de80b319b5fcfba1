package database

import (
	"context"

	"github.com/xamad/smartfridge/internal/models"
)

// GetStats returns the dashboard counters
func (db *DB) GetStats(ctx context.Context, expiringDays int) (*models.Stats, error) {
	var stats models.Stats

	err := db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM products WHERE NOT finished",
	).Scan(&stats.TotalProducts)
	if err != nil {
		return nil, err
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM products
		WHERE NOT finished
			AND expiry_date IS NOT NULL
			AND expiry_date <= CURRENT_DATE + $1 * INTERVAL '1 day'
	`, expiringDays).Scan(&stats.ExpiringSoon)
	if err != nil {
		return nil, err
	}

	err = db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM shopping_list WHERE NOT purchased",
	).Scan(&stats.ShoppingItems)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
