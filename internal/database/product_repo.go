package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/xamad/smartfridge/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

const productColumns = `
	id, barcode, name, brand, category, weight, quantity,
	purchase_date, expiry_date, image_key, from_receipt, finished,
	added_date, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Barcode, &p.Name, &p.Brand, &p.Category, &p.Weight, &p.Quantity,
		&p.PurchaseDate, &p.ExpiryDate, &p.ImageKey, &p.FromReceipt, &p.Finished,
		&p.AddedDate, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActiveProductByBarcode returns the unfinished product with the barcode
func (db *DB) GetActiveProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE barcode = $1 AND NOT finished
		ORDER BY added_date DESC
		LIMIT 1
	`, productColumns)

	p, err := scanProduct(db.Pool.QueryRow(ctx, query, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetProductByID returns a product by id
func (db *DB) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)

	p, err := scanProduct(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// CreateProduct inserts a new product row and returns it
func (db *DB) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	query := fmt.Sprintf(`
		INSERT INTO products (barcode, name, brand, category, weight, quantity,
			purchase_date, expiry_date, image_key, from_receipt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`, productColumns)

	return scanProduct(db.Pool.QueryRow(ctx, query,
		p.Barcode, p.Name, p.Brand, p.Category, p.Weight, p.Quantity,
		p.PurchaseDate, p.ExpiryDate, p.ImageKey, p.FromReceipt,
	))
}

// InsertParsedProduct persists one receipt-derived product. Called once per
// parsed record; each insert succeeds or fails independently.
func (db *DB) InsertParsedProduct(ctx context.Context, p *models.ParsedProduct) error {
	category := string(p.Category)
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO products (barcode, name, category, weight, quantity,
			purchase_date, expiry_date, from_receipt)
		VALUES ($1, $2, $3, $4, 1, $5, $6, $7)
	`, p.GeneratedCode, p.Name, category, p.Weight, p.PurchaseDate, p.ExpiryDate, p.FromReceipt)
	if err != nil {
		return fmt.Errorf("failed to insert parsed product: %w", err)
	}
	return nil
}

// AdjustProductQuantity changes quantity by delta and returns the new value
func (db *DB) AdjustProductQuantity(ctx context.Context, id, delta int) (int, error) {
	var quantity int
	err := db.Pool.QueryRow(ctx, `
		UPDATE products SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING quantity
	`, id, delta).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	return quantity, nil
}

// FinishProduct marks a product as consumed
func (db *DB) FinishProduct(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE products SET finished = TRUE, quantity = 0, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SetProductImage records the archived image key for a product
func (db *DB) SetProductImage(ctx context.Context, id int, imageKey string) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE products SET image_key = $2, updated_at = NOW() WHERE id = $1
	`, id, imageKey)
	return err
}

// UpdateProduct applies a partial update and returns the updated row
func (db *DB) UpdateProduct(ctx context.Context, id int, req *models.UpdateProductRequest, expiryDate *time.Time) (*models.Product, error) {
	query := fmt.Sprintf(`
		UPDATE products SET
			name = COALESCE($2, name),
			brand = COALESCE($3, brand),
			category = COALESCE($4, category),
			quantity = COALESCE($5, quantity),
			expiry_date = COALESCE($6, expiry_date),
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, productColumns)

	p, err := scanProduct(db.Pool.QueryRow(ctx, query,
		id, req.Name, req.Brand, req.Category, req.Quantity, expiryDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product row entirely
func (db *DB) DeleteProduct(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ListActiveProducts returns all unfinished products, soonest expiry first
func (db *DB) ListActiveProducts(ctx context.Context) ([]*models.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE NOT finished
		ORDER BY expiry_date ASC NULLS LAST, added_date DESC
	`, productColumns)

	return db.queryProducts(ctx, query)
}

// ListExpiringProducts returns unfinished products expiring within days
func (db *DB) ListExpiringProducts(ctx context.Context, days int) ([]*models.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE NOT finished
			AND expiry_date IS NOT NULL
			AND expiry_date <= CURRENT_DATE + $1 * INTERVAL '1 day'
		ORDER BY expiry_date ASC
	`, productColumns)

	return db.queryProducts(ctx, query, days)
}

func (db *DB) queryProducts(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
