package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func RunMigrations(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    trial_start_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_premium BOOLEAN NOT NULL DEFAULT false,
    premium_since TIMESTAMPTZ,
    premium_until TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS journal_entries (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS mood_analysis (
    id SERIAL PRIMARY KEY,
    entry_id INTEGER NOT NULL REFERENCES journal_entries(id) ON DELETE CASCADE,
    happiness_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    sadness_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    anger_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    fear_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    surprise_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    disgust_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    overall_sentiment TEXT NOT NULL,
    confidence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    analyzed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS payments (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    reference TEXT UNIQUE NOT NULL,
    amount BIGINT NOT NULL,
    currency TEXT NOT NULL DEFAULT 'NGN',
    status TEXT NOT NULL DEFAULT 'pending',
    plan_type TEXT NOT NULL DEFAULT 'monthly',
    paystack_reference TEXT,
    verified_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS subscriptions (
    id SERIAL PRIMARY KEY,
    user_id INTEGER UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    plan_type TEXT NOT NULL,
    status TEXT NOT NULL,
    start_date TIMESTAMPTZ NOT NULL,
    end_date TIMESTAMPTZ NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_user_created ON journal_entries (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_mood_analysis_entry ON mood_analysis (entry_id);
CREATE INDEX IF NOT EXISTS idx_payments_user ON payments (user_id);
`
	_, err := db.ExecContext(context.Background(), schema)
	return err
}
