package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id          UUID PRIMARY KEY,
		email       TEXT,
		full_name   TEXT,
		api_key     TEXT NOT NULL UNIQUE,
		plan        TEXT NOT NULL DEFAULT 'free' CHECK (plan IN ('free', 'pro')),
		leads_count INTEGER NOT NULL DEFAULT 0,
		jobs_count  INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id           UUID PRIMARY KEY,
		user_id      UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		platform     TEXT NOT NULL CHECK (platform IN ('google_maps', 'justdial', 'indiamart')),
		city         TEXT NOT NULL,
		category     TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'pending'
		             CHECK (status IN ('pending', 'running', 'completed', 'failed', 'stopped')),
		leads_found  INTEGER NOT NULL DEFAULT 0 CHECK (leads_found >= 0),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_user_status ON jobs (user_id, status, created_at)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id            UUID PRIMARY KEY,
		user_id       UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		job_id        UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		business_name TEXT NOT NULL,
		phone         TEXT,
		email         TEXT,
		address       TEXT,
		city          TEXT,
		website       TEXT,
		category      TEXT,
		platform      TEXT,
		rating        DOUBLE PRECISION,
		reviews       INTEGER NOT NULL DEFAULT 0,
		has_website   BOOLEAN NOT NULL DEFAULT FALSE,
		is_hot        BOOLEAN NOT NULL DEFAULT FALSE,
		is_high_value BOOLEAN NOT NULL DEFAULT FALSE,
		raw_data      JSONB,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_user_created ON leads (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_job ON leads (job_id)`,
}

// EnsureSchema cria tabelas e índices que ainda não existem.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	log.Println("🗄️  Schema verificado")
	return nil
}
