package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	email            TEXT NOT NULL,
	password_hash    TEXT NOT NULL,
	is_admin         BOOLEAN NOT NULL DEFAULT FALSE,
	phone            TEXT NOT NULL DEFAULT '',
	shipping_address JSONB,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	price       DOUBLE PRECISION NOT NULL CHECK (price >= 0),
	category    TEXT NOT NULL,
	image       TEXT NOT NULL,
	brand       TEXT NOT NULL DEFAULT 'Generic',
	stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	rating      DOUBLE PRECISION NOT NULL DEFAULT 0,
	num_reviews INTEGER NOT NULL DEFAULT 0,
	color       TEXT NOT NULL DEFAULT '',
	weight      TEXT NOT NULL DEFAULT '',
	dimensions  TEXT NOT NULL DEFAULT '',
	warranty    TEXT NOT NULL DEFAULT '',
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS products_active_created_idx ON products (is_active, created_at DESC);

CREATE TABLE IF NOT EXISTS carts (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL UNIQUE,
	items       JSONB NOT NULL DEFAULT '[]'::jsonb,
	total_items INTEGER NOT NULL DEFAULT 0,
	total_price DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS orders (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL,
	items               JSONB NOT NULL,
	shipping_address    JSONB NOT NULL,
	payment_method      TEXT NOT NULL,
	payment_result      JSONB,
	payment_status      TEXT NOT NULL,
	items_price         DOUBLE PRECISION NOT NULL,
	tax_price           DOUBLE PRECISION NOT NULL,
	shipping_price      DOUBLE PRECISION NOT NULL,
	total_price         DOUBLE PRECISION NOT NULL,
	is_paid             BOOLEAN NOT NULL DEFAULT FALSE,
	paid_at             TIMESTAMPTZ,
	is_delivered        BOOLEAN NOT NULL DEFAULT FALSE,
	delivered_at        TIMESTAMPTZ,
	order_status        TEXT NOT NULL,
	cancelled_at        TIMESTAMPTZ,
	cancelled_by        TEXT NOT NULL DEFAULT '',
	cancellation_reason TEXT NOT NULL DEFAULT '',
	notes               TEXT NOT NULL DEFAULT '',
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS orders_user_created_idx ON orders (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (order_status);
`

// Migrate cria as tabelas caso ainda não existam.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
