package repository

import (
	"context"
	"time"

	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for chat entities and their
// membership. Lookups return (nil, nil) when no row matches; a non-nil error
// always means a store failure.
type ChatRepository interface {
	CreateChat(ctx context.Context, c chat.Chat) (string, error)
	GetChat(ctx context.Context, chatID string) (*chat.Chat, error)
	// FindDirectChat looks up the direct chat whose member set is exactly the
	// unordered pair {userA, userB}.
	FindDirectChat(ctx context.Context, userA, userB string) (*chat.Chat, error)
	// UpdateChat persists name, photo, member and admin sets of an already
	// loaded chat and bumps updated_at.
	UpdateChat(ctx context.Context, c chat.Chat) error
	// TouchChat bumps the chat's updated_at, typically after a message send.
	TouchChat(ctx context.Context, chatID string, at time.Time) error
	// ListUserChats returns chats the user is a member of, most recently
	// updated first.
	ListUserChats(ctx context.Context, userID string, limit int) ([]chat.Chat, error)
}
