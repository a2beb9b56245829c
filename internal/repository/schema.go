package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	timezone      TEXT NOT NULL,
	lat           DOUBLE PRECISION NOT NULL DEFAULT 0,
	lng           DOUBLE PRECISION NOT NULL DEFAULT 0,
	temp_unit     TEXT NOT NULL DEFAULT 'K',
	city          TEXT NOT NULL DEFAULT 'Chicago',
	country       TEXT NOT NULL DEFAULT 'United States of America',
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS connections (
	user_id    UUID NOT NULL REFERENCES users(id),
	friend_id  UUID NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, friend_id)
);

CREATE TABLE IF NOT EXISTS messages (
	id          UUID PRIMARY KEY,
	sender_id   UUID NOT NULL REFERENCES users(id),
	receiver_id UUID NOT NULL REFERENCES users(id),
	content     TEXT NOT NULL,
	msg_type    TEXT NOT NULL DEFAULT 'NM',
	read        BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages (receiver_id, created_at);

CREATE TABLE IF NOT EXISTS images (
	id         UUID PRIMARY KEY,
	user1_id   UUID NOT NULL REFERENCES users(id),
	user2_id   UUID NOT NULL REFERENCES users(id),
	image_url  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
