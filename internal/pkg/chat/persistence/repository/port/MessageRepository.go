package repository

import (
	"context"
	"time"

	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
)

// MessageRepository defines persistence operations for messages. The store is
// expected to provide atomic single-row read-modify-write semantics (the
// seen-by mutations in particular), so callers never hold a lock across a
// round-trip. Lookups return (nil, nil) when no row matches.
type MessageRepository interface {
	CreateMessage(ctx context.Context, m chat.Message) (string, error)
	GetMessage(ctx context.Context, messageID string) (*chat.Message, error)
	// UpdateContent replaces the content, sets edited=true, bumps updated_at
	// and returns the post-edit row.
	UpdateContent(ctx context.Context, messageID string, content string, at time.Time) (*chat.Message, error)
	// DeleteMessage hard-deletes the row ("delete for everyone").
	DeleteMessage(ctx context.Context, messageID string) error
	// RedactMessage nulls content, clears attachments and forces the message
	// into the system type and redacted state ("delete for self").
	RedactMessage(ctx context.Context, messageID string, at time.Time) error
	// ListMessages returns messages of a chat newest first, strictly older
	// than before when it is non-nil.
	ListMessages(ctx context.Context, chatID string, limit int, before *time.Time) ([]chat.Message, error)
	// LastMessage returns the newest message of a chat, or (nil, nil).
	LastMessage(ctx context.Context, chatID string) (*chat.Message, error)
	// MarkSeen adds userID to the message's seen set; adding an already
	// present user is a no-op.
	MarkSeen(ctx context.Context, messageID, userID string) error
	// MarkAllSeen adds userID to the seen set of every message in the chat.
	MarkAllSeen(ctx context.Context, chatID, userID string) error
	// CountUnseen counts messages in the chat whose seen set excludes userID.
	CountUnseen(ctx context.Context, chatID, userID string) (int, error)
}
