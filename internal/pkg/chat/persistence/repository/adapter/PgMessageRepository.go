package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

const messageColumns = `id::text, chat_id::text, sender_id::text, content, msg_type, state, attachments, reply_to_id::text, seen_by::text[], created_at, updated_at, edited`

func (r *PgMessageRepository) CreateMessage(ctx context.Context, m chat.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgMessageRepository: nil pool")
	}
	attachments, err := json.Marshal(m.Attachments)
	if err != nil {
		return "", err
	}
	var id string
	err = r.pool.QueryRow(ctx, `
		INSERT INTO chat.message (chat_id, sender_id, content, msg_type, state, attachments, reply_to_id, created_at, updated_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6::jsonb, $7::uuid, $8, $9)
		RETURNING id::text
	`, m.ChatID, m.SenderID, m.Content, string(m.Type), string(m.State), attachments, m.ReplyToID, m.CreatedAt, m.UpdatedAt).Scan(&id)
	return id, err
}

func (r *PgMessageRepository) GetMessage(ctx context.Context, messageID string) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM chat.message WHERE id = $1::uuid`, messageID)
	return scanMessage(row)
}

func (r *PgMessageRepository) UpdateContent(ctx context.Context, messageID string, content string, at time.Time) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE chat.message
		SET content = $2, edited = true, updated_at = $3
		WHERE id = $1::uuid
		RETURNING `+messageColumns+`
	`, messageID, content, at)
	return scanMessage(row)
}

func (r *PgMessageRepository) DeleteMessage(ctx context.Context, messageID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessageRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM chat.message WHERE id = $1::uuid`, messageID)
	return err
}

func (r *PgMessageRepository) RedactMessage(ctx context.Context, messageID string, at time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessageRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET content = NULL, attachments = '[]'::jsonb, msg_type = 'system', state = 'redacted', updated_at = $2
		WHERE id = $1::uuid
	`, messageID, at)
	return err
}

func (r *PgMessageRepository) ListMessages(ctx context.Context, chatID string, limit int, before *time.Time) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM chat.message
		WHERE chat_id = $1::uuid
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, chatID, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgMessageRepository) LastMessage(ctx context.Context, chatID string) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM chat.message
		WHERE chat_id = $1::uuid
		ORDER BY created_at DESC
		LIMIT 1
	`, chatID)
	return scanMessage(row)
}

func (r *PgMessageRepository) MarkSeen(ctx context.Context, messageID, userID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessageRepository: nil pool")
	}
	// Single-statement append keeps the seen set idempotent under concurrency.
	_, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET seen_by = array_append(seen_by, $2::uuid)
		WHERE id = $1::uuid AND NOT (seen_by @> ARRAY[$2::uuid])
	`, messageID, userID)
	return err
}

func (r *PgMessageRepository) MarkAllSeen(ctx context.Context, chatID, userID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessageRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET seen_by = array_append(seen_by, $2::uuid)
		WHERE chat_id = $1::uuid AND NOT (seen_by @> ARRAY[$2::uuid])
	`, chatID, userID)
	return err
}

func (r *PgMessageRepository) CountUnseen(ctx context.Context, chatID, userID string) (int, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessageRepository: nil pool")
	}
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM chat.message
		WHERE chat_id = $1::uuid AND NOT (seen_by @> ARRAY[$2::uuid])
	`, chatID, userID).Scan(&count)
	return count, err
}

func scanMessage(row pgx.Row) (*chat.Message, error) {
	var (
		m           chat.Message
		msgType     string
		state       string
		attachments []byte
	)
	err := row.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &msgType, &state,
		&attachments, &m.ReplyToID, &m.SeenBy, &m.CreatedAt, &m.UpdatedAt, &m.Edited)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Type = chat.MessageType(msgType)
	m.State = chat.MessageState(state)
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &m.Attachments); err != nil {
			return nil, err
		}
	}
	return &m, nil
}
