package usecase

import (
	"log/slog"

	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
)

// Broadcaster pushes an encoded live-protocol frame to every connection
// currently subscribed to a chat. The realtime registry satisfies it; use
// cases tolerate a nil Broadcaster (worker processes have no live
// connections).
type Broadcaster interface {
	Broadcast(chatID string, payload []byte) int
}

// broadcastEvent encodes and fans out an event. Broadcast failures never fail
// the operation that produced the event; the persisted state is the primary
// artifact.
func broadcastEvent(b Broadcaster, log *slog.Logger, chatID string, e chat.Event) {
	if b == nil {
		return
	}
	payload, err := chat.EncodeEvent(e)
	if err != nil {
		if log != nil {
			log.Warn("encode broadcast event", "event", e.EventName(), "error", err)
		}
		return
	}
	b.Broadcast(chatID, payload)
}

// previewCacheKey is the cache key for a chat's last-message preview.
func previewCacheKey(chatID string) string {
	return "chat:preview:" + chatID
}
