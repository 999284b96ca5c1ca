package chat

import "time"

// NotificationType classifies notifications produced by the platform.
// The messaging core only ever emits NotificationTypeMessage; the remaining
// values belong to the notification subsystem.
type NotificationType string

const (
	NotificationTypeMessage NotificationType = "message"
	NotificationTypeSystem  NotificationType = "system"
)

// Notification is created as a side effect of a message send, one per chat
// member except the sender. It is owned by the notification subsystem after
// creation.
type Notification struct {
	ID          string            `json:"id"`
	RecipientID string            `json:"recipient_id"`
	Type        NotificationType  `json:"type"`
	Data        map[string]string `json:"data"`
	Read        bool              `json:"read"`
	CreatedAt   time.Time         `json:"created_at"`
}
