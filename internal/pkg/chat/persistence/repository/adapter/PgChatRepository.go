package adapter

import (
	"context"
	"errors"
	"time"

	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

const chatColumns = `id::text, type, name, photo_url, member_ids::text[], admin_ids::text[], created_by::text, created_at, updated_at`

func (r *PgChatRepository) CreateChat(ctx context.Context, c chat.Chat) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgChatRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.chat (type, name, photo_url, member_ids, admin_ids, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4::uuid[], $5::uuid[], $6::uuid, $7, $8)
		RETURNING id::text
	`, string(c.Type), c.Name, c.PhotoURL, c.MemberIDs, c.AdminIDs, c.CreatedBy, c.CreatedAt, c.UpdatedAt).Scan(&id)
	return id, err
}

func (r *PgChatRepository) GetChat(ctx context.Context, chatID string) (*chat.Chat, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx,
		`SELECT `+chatColumns+` FROM chat.chat WHERE id = $1::uuid`, chatID)
	return scanChat(row)
}

func (r *PgChatRepository) FindDirectChat(ctx context.Context, userA, userB string) (*chat.Chat, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	// Containment plus cardinality pins the exact unordered pair.
	row := r.pool.QueryRow(ctx, `
		SELECT `+chatColumns+`
		FROM chat.chat
		WHERE type = 'direct'
		  AND member_ids @> ARRAY[$1::uuid, $2::uuid]
		  AND cardinality(member_ids) = 2
		LIMIT 1
	`, userA, userB)
	return scanChat(row)
}

func (r *PgChatRepository) UpdateChat(ctx context.Context, c chat.Chat) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.chat
		SET name = $2, photo_url = $3, member_ids = $4::uuid[], admin_ids = $5::uuid[], updated_at = $6
		WHERE id = $1::uuid
	`, c.ID, c.Name, c.PhotoURL, c.MemberIDs, c.AdminIDs, c.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgChatRepository) TouchChat(ctx context.Context, chatID string, at time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE chat.chat SET updated_at = $2 WHERE id = $1::uuid`, chatID, at)
	return err
}

func (r *PgChatRepository) ListUserChats(ctx context.Context, userID string, limit int) ([]chat.Chat, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+chatColumns+`
		FROM chat.chat
		WHERE member_ids @> ARRAY[$1::uuid]
		ORDER BY updated_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []chat.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return chats, nil
}

func scanChat(row pgx.Row) (*chat.Chat, error) {
	var (
		c        chat.Chat
		chatType string
	)
	err := row.Scan(&c.ID, &chatType, &c.Name, &c.PhotoURL, &c.MemberIDs, &c.AdminIDs, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Type = chat.ChatType(chatType)
	return &c, nil
}
