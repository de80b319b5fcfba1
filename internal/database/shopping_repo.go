package database

import (
	"context"
	"errors"

	"github.com/xamad/smartfridge/internal/models"
)

var ErrShoppingItemNotFound = errors.New("shopping list item not found")

// ListShoppingItems returns unpurchased entries, newest first
func (db *DB) ListShoppingItems(ctx context.Context) ([]*models.ShoppingItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, barcode, name, quantity_needed, priority, auto_generated, purchased, added_date
		FROM shopping_list
		WHERE NOT purchased
		ORDER BY added_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.ShoppingItem{}
	for rows.Next() {
		var item models.ShoppingItem
		err := rows.Scan(&item.ID, &item.Barcode, &item.Name, &item.QuantityNeeded,
			&item.Priority, &item.AutoGenerated, &item.Purchased, &item.AddedDate)
		if err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// CreateShoppingItem inserts a list entry and returns it
func (db *DB) CreateShoppingItem(ctx context.Context, barcode string, name *string, quantity int, priority string, autoGenerated bool) (*models.ShoppingItem, error) {
	var item models.ShoppingItem
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO shopping_list (barcode, name, quantity_needed, priority, auto_generated)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, barcode, name, quantity_needed, priority, auto_generated, purchased, added_date
	`, barcode, name, quantity, priority, autoGenerated).Scan(
		&item.ID, &item.Barcode, &item.Name, &item.QuantityNeeded,
		&item.Priority, &item.AutoGenerated, &item.Purchased, &item.AddedDate,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ShoppingItemExists reports whether the barcode is already on the list
func (db *DB) ShoppingItemExists(ctx context.Context, barcode string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM shopping_list WHERE barcode = $1 AND NOT purchased)",
		barcode,
	).Scan(&exists)
	return exists, err
}

// DeleteShoppingItemsByBarcode removes all entries for a barcode, typically
// after the product was scanned back into the fridge
func (db *DB) DeleteShoppingItemsByBarcode(ctx context.Context, barcode string) error {
	_, err := db.Pool.Exec(ctx, "DELETE FROM shopping_list WHERE barcode = $1", barcode)
	return err
}

// DeleteShoppingItem removes a single entry by id
func (db *DB) DeleteShoppingItem(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM shopping_list WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrShoppingItemNotFound
	}
	return nil
}
