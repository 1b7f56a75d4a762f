package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Timestamps are RFC 3339 strings and money columns are decimal strings so the same
// schema runs on sqlite and postgres without losing precision.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		code       INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		code            INTEGER NOT NULL,
		cost_price      TEXT NOT NULL,
		sale_price      TEXT NOT NULL,
		last_sale_price TEXT,
		supplier        TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		stock           INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id          TEXT PRIMARY KEY,
		type        TEXT NOT NULL CHECK (type IN ('sale','purchase','aporte','service','payment')),
		description TEXT NOT NULL DEFAULT '',
		value       TEXT NOT NULL,
		discount    TEXT NOT NULL DEFAULT '0',
		date        TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transaction_items (
		transaction_id TEXT NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		product_id     TEXT NOT NULL,
		name           TEXT NOT NULL DEFAULT '',
		quantity       INTEGER NOT NULL CHECK (quantity > 0),
		unit_price     TEXT NOT NULL,
		PRIMARY KEY (transaction_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
	`CREATE INDEX IF NOT EXISTS idx_transaction_items_product ON transaction_items(product_id)`,
}

// Migrate creates any missing table or index. It is safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("database: migrate: %w", err)
		}
	}
	return nil
}
