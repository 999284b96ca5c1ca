package repository

import (
	"context"

	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
)

// NotificationRepository is the sink the messaging core hands message
// notifications to. The notification subsystem owns them afterwards.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n chat.Notification) (string, error)
}
