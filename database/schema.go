package database

import (
	"context"
	"log"
)

// EnsureSchema creates the record tables if they do not exist. The UNIQUE
// constraints on slug and email are what make create/patch conflict checks
// atomic.
func EnsureSchema() {
	if Pool == nil {
		return
	}
	ctx := context.Background()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS businesses (
            id TEXT PRIMARY KEY,
            unique_id TEXT NOT NULL,
            name TEXT NOT NULL,
            slug TEXT NOT NULL UNIQUE,
            lat DOUBLE PRECISION NOT NULL DEFAULT 0,
            lng DOUBLE PRECISION NOT NULL DEFAULT 0,
            type TEXT[] NOT NULL DEFAULT '{}',
            google_link TEXT,
            review_page_link TEXT,
            questions JSONB NOT NULL DEFAULT '[]'::jsonb,
            color_scheme TEXT NOT NULL DEFAULT 'zinc',
            created_at BIGINT NOT NULL,
            updated_at BIGINT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS admin_users (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at BIGINT NOT NULL,
            updated_at BIGINT NOT NULL,
            password_changed_at BIGINT,
            delete_at BIGINT
        )`,
		`CREATE INDEX IF NOT EXISTS businesses_created_at_idx ON businesses(created_at DESC)`,
	}

	for _, s := range stmts {
		if _, err := Pool.Exec(ctx, s); err != nil {
			log.Printf("schema ensure error: %v in stmt: %s", err, s)
		}
	}
}
