package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// Connect creates a new database connection pool
func Connect(databaseURL string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	// Configure pool
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Println("Database connected successfully")
	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations runs all database migrations
func RunMigrations(db *DB) error {
	ctx := context.Background()

	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Map iteration order is random; apply versions sequentially
	for version := 1; version <= len(migrations); version++ {
		migration := migrations[version]
		var exists bool
		err := db.Pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
			version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", version, err)
		}

		if exists {
			continue
		}

		log.Printf("Applying migration %d...", version)
		_, err = db.Pool.Exec(ctx, migration)
		if err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", version, err)
		}

		_, err = db.Pool.Exec(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)",
			version,
		)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}

		log.Printf("Migration %d applied successfully", version)
	}

	return nil
}

// migrations is an ordered map of migration version to SQL
var migrations = map[int]string{
	1: migration001,
	2: migration002,
}

const migration001 = `
-- Products currently or formerly in the fridge
CREATE TABLE IF NOT EXISTS products (
    id SERIAL PRIMARY KEY,
    barcode VARCHAR(64) NOT NULL,
    name VARCHAR(255),
    brand VARCHAR(100),
    category VARCHAR(50),
    weight VARCHAR(50),
    quantity INT NOT NULL DEFAULT 1,
    purchase_date DATE,
    expiry_date DATE,
    image_key VARCHAR(255),
    from_receipt BOOLEAN NOT NULL DEFAULT FALSE,
    finished BOOLEAN NOT NULL DEFAULT FALSE,
    added_date TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Shopping list, auto-populated when products run out
CREATE TABLE IF NOT EXISTS shopping_list (
    id SERIAL PRIMARY KEY,
    barcode VARCHAR(64) NOT NULL,
    name VARCHAR(255),
    quantity_needed INT NOT NULL DEFAULT 1,
    priority VARCHAR(20) NOT NULL DEFAULT 'normal',
    auto_generated BOOLEAN NOT NULL DEFAULT FALSE,
    purchased BOOLEAN NOT NULL DEFAULT FALSE,
    added_date TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Raw scan events from the fridge scanner device
CREATE TABLE IF NOT EXISTS scan_history (
    id SERIAL PRIMARY KEY,
    barcode VARCHAR(64) NOT NULL,
    action VARCHAR(20) NOT NULL,
    device VARCHAR(100),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode) WHERE NOT finished;
CREATE INDEX IF NOT EXISTS idx_products_expiry ON products(expiry_date) WHERE NOT finished;
CREATE INDEX IF NOT EXISTS idx_shopping_barcode ON shopping_list(barcode);
CREATE INDEX IF NOT EXISTS idx_scan_history_barcode ON scan_history(barcode, created_at DESC);
`

const migration002 = `
-- Receipt-derived products carry a generated code in barcode; keep lookups fast
CREATE INDEX IF NOT EXISTS idx_products_from_receipt ON products(from_receipt) WHERE from_receipt;
`
