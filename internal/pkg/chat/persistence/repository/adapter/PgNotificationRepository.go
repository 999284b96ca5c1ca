package adapter

import (
	"context"
	"encoding/json"
	"errors"

	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPgNotificationRepository(pool *pgxpool.Pool) *PgNotificationRepository {
	return &PgNotificationRepository{pool: pool}
}

func (r *PgNotificationRepository) CreateNotification(ctx context.Context, n chat.Notification) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgNotificationRepository: nil pool")
	}
	payload, err := json.Marshal(n.Data)
	if err != nil {
		return "", err
	}
	var id string
	err = r.pool.QueryRow(ctx, `
		INSERT INTO chat.notification (recipient_id, notif_type, payload, read, created_at)
		VALUES ($1::uuid, $2, $3::jsonb, $4, $5)
		RETURNING id::text
	`, n.RecipientID, string(n.Type), payload, n.Read, n.CreatedAt).Scan(&id)
	return id, err
}
