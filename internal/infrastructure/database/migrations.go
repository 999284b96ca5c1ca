package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the messaging schema. Statements are idempotent so the
// function can run on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE SCHEMA IF NOT EXISTS chat`,

		`CREATE TABLE IF NOT EXISTS chat.chat (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			type text NOT NULL,
			name text,
			photo_url text,
			member_ids uuid[] NOT NULL,
			admin_ids uuid[] NOT NULL DEFAULT '{}',
			created_by uuid NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_chat_member_ids
		ON chat.chat USING gin (member_ids)`,

		`CREATE INDEX IF NOT EXISTS idx_chat_updated_at
		ON chat.chat (updated_at DESC)`,

		`CREATE TABLE IF NOT EXISTS chat.message (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			chat_id uuid NOT NULL REFERENCES chat.chat(id) ON DELETE CASCADE,
			sender_id uuid NOT NULL,
			content text,
			msg_type text NOT NULL DEFAULT 'text',
			state text NOT NULL DEFAULT 'active',
			attachments jsonb NOT NULL DEFAULT '[]',
			reply_to_id uuid,
			seen_by uuid[] NOT NULL DEFAULT '{}',
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now(),
			edited boolean NOT NULL DEFAULT false
		)`,

		`CREATE INDEX IF NOT EXISTS idx_message_chat_created
		ON chat.message (chat_id, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS chat.notification (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			recipient_id uuid NOT NULL,
			notif_type text NOT NULL,
			payload jsonb NOT NULL DEFAULT '{}',
			read boolean NOT NULL DEFAULT false,
			created_at timestamptz NOT NULL DEFAULT now(),
			read_at timestamptz
		)`,

		`CREATE INDEX IF NOT EXISTS idx_notification_recipient
		ON chat.notification (recipient_id, created_at DESC)`,
	}

	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: migration %d: %w", i, err)
		}
	}
	return nil
}
