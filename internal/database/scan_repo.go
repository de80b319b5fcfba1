package database

import (
	"context"

	"github.com/xamad/smartfridge/internal/models"
)

// RecordScanEvent stores one scan from the fridge scanner
func (db *DB) RecordScanEvent(ctx context.Context, barcode string, action models.ScanAction, device *string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO scan_history (barcode, action, device)
		VALUES ($1, $2, $3)
	`, barcode, string(action), device)
	return err
}

// ListRecentScanEvents returns the latest scan events, newest first
func (db *DB) ListRecentScanEvents(ctx context.Context, limit int) ([]*models.ScanEvent, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, barcode, action, device, created_at
		FROM scan_history
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*models.ScanEvent{}
	for rows.Next() {
		var ev models.ScanEvent
		if err := rows.Scan(&ev.ID, &ev.Barcode, &ev.Action, &ev.Device, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
