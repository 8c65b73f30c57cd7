package main

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		"userId" SERIAL PRIMARY KEY,
		email TEXT UNIQUE,
		password TEXT,
		"firstName" TEXT NOT NULL DEFAULT '',
		"lastName" TEXT NOT NULL DEFAULT '',
		phone TEXT UNIQUE,
		"phoneVerified" BOOLEAN NOT NULL DEFAULT false,
		avatar_pic TEXT,
		"createAt" TEXT,
		"updateAt" TEXT
	)`,
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS "favoriteItemIds" text[]`,
	`CREATE TABLE IF NOT EXISTS orders (
		"orderId" TEXT PRIMARY KEY,
		"userId" INT NOT NULL,
		lines jsonb NOT NULL DEFAULT '[]',
		quantity INT NOT NULL DEFAULT 0,
		subtotal numeric NOT NULL DEFAULT 0,
		status TEXT,
		"createdAt" TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS orders_user_idx ON orders ("userId")`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		item_id TEXT PRIMARY KEY,
		name_of_item TEXT NOT NULL,
		description TEXT,
		cost numeric,
		veg_or_non_veg TEXT,
		is_vegan BOOLEAN,
		is_gluten_free BOOLEAN,
		is_dairy_free BOOLEAN,
		rating numeric,
		number_of_people_rated INT,
		image_link TEXT,
		category TEXT,
		cuisine TEXT,
		ingredients TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS combos (
		combo_id TEXT PRIMARY KEY,
		combo_name TEXT NOT NULL,
		description TEXT,
		item_ids text[] NOT NULL DEFAULT '{}',
		cost numeric,
		discounted_cost numeric,
		combo_type TEXT,
		image_links text[] NOT NULL DEFAULT '{}',
		rating numeric,
		preparation_time INT
	)`,
}

// migrate creates the tables the server reads and writes. Every statement
// is idempotent so it runs on each start.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "apply schema")
		}
	}
	return nil
}
