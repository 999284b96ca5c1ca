package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	qport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/queue/port"
	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	repository "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/port"
)

// NotifyMembersTaskType is the queue task name for message-notification
// fan-out.
const NotifyMembersTaskType = "chat:notify_members"

// NotifyMembersTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type NotifyMembersTaskPayload struct {
	ChatID       string   `json:"chatId"`
	MessageID    string   `json:"messageId"`
	SenderID     string   `json:"senderId"`
	RecipientIDs []string `json:"recipientIds"`
}

// RegisterNotifyMembersTask binds the fan-out handler to the provided server.
// It writes one notification row per recipient. Handlers must be idempotent;
// a duplicate notification on retry is acceptable, a lost message send is
// not, which is why the send path only enqueues.
func RegisterNotifyMembersTask(srv qport.Server, notifications repository.NotificationRepository, log *slog.Logger) {
	srv.Register(NotifyMembersTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyMembersTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		now := time.Now().UTC()
		for _, recipient := range p.RecipientIDs {
			if recipient == "" || recipient == p.SenderID {
				continue
			}
			n := chat.Notification{
				RecipientID: recipient,
				Type:        chat.NotificationTypeMessage,
				Data: map[string]string{
					"chat_id":    p.ChatID,
					"message_id": p.MessageID,
				},
				CreatedAt: now,
			}
			if _, err := notifications.CreateNotification(ctx, n); err != nil {
				if log != nil {
					log.Error("create message notification", "recipient_id", recipient, "chat_id", p.ChatID, "error", err)
				}
				return err
			}
		}
		return nil
	})
}
