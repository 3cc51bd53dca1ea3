package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS password_entries (
		id BIGSERIAL PRIMARY KEY,
		site_name VARCHAR(100) NOT NULL,
		site_url VARCHAR(255) NOT NULL DEFAULT '',
		username VARCHAR(100) NOT NULL,
		password VARCHAR(255) NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		strength VARCHAR(20) NOT NULL DEFAULT '',
		category VARCHAR(50) NOT NULL DEFAULT '',
		image_filename VARCHAR(255) NOT NULL DEFAULT '',
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Clipboard snippets and favorite links share one table; kind tells
	// them apart and item_type/url/image_url only apply to favorites.
	`CREATE TABLE IF NOT EXISTS items (
		id BIGSERIAL PRIMARY KEY,
		kind VARCHAR(20) NOT NULL,
		title VARCHAR(100) NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		category VARCHAR(50) NOT NULL DEFAULT '',
		tags VARCHAR(200) NOT NULL DEFAULT '',
		is_password BOOLEAN NOT NULL DEFAULT FALSE,
		item_type VARCHAR(20) NOT NULL DEFAULT '',
		url VARCHAR(500) NOT NULL DEFAULT '',
		image_url VARCHAR(500) NOT NULL DEFAULT '',
		use_count INTEGER NOT NULL DEFAULT 0,
		last_used TIMESTAMP WITH TIME ZONE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS usage_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		item_id BIGINT NOT NULL,
		action VARCHAR(20) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_password_entries_user_id ON password_entries(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_password_entries_updated_at ON password_entries(user_id, updated_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_items_user_kind ON items(user_id, kind)`,
	`CREATE INDEX IF NOT EXISTS idx_items_updated_at ON items(user_id, kind, updated_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_usage_logs_item_id ON usage_logs(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_usage_logs_user_id ON usage_logs(user_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
