package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cacheport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/cache/port"
	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	repository "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/port"
)

const previewCacheTTL = 5 * time.Minute

// ChatSummary enriches a chat with its last-message preview and the caller's
// unread count.
type ChatSummary struct {
	chat.Chat
	LastMessagePreview *string    `json:"last_message_preview,omitempty"`
	LastMessageAt      *time.Time `json:"last_message_at,omitempty"`
	UnreadCount        int        `json:"unread_count"`
}

// ListChatsInput selects chats for one user.
type ListChatsInput struct {
	UserID string
	Limit  int
}

// ListChatsUseCase lists the chats a user belongs to, most recently updated
// first. Last-message previews go through the cache; unread counts are
// recomputed per request so the seen set stays the single source of truth.
type ListChatsUseCase struct {
	Chats    repository.ChatRepository
	Messages repository.MessageRepository
	Cache    cacheport.Cache
	Log      *slog.Logger
}

func NewListChatsUseCase(chats repository.ChatRepository, messages repository.MessageRepository, cache cacheport.Cache, log *slog.Logger) *ListChatsUseCase {
	return &ListChatsUseCase{Chats: chats, Messages: messages, Cache: cache, Log: log}
}

type cachedPreview struct {
	Content *string    `json:"content"`
	At      *time.Time `json:"at"`
}

func (uc *ListChatsUseCase) Execute(ctx context.Context, in ListChatsInput) ([]ChatSummary, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	chats, err := uc.Chats.ListUserChats(ctx, in.UserID, in.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for _, c := range chats {
		preview, at, err := uc.lastMessagePreview(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		unread, err := uc.Messages.CountUnseen(ctx, c.ID, in.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		summaries = append(summaries, ChatSummary{
			Chat:               c,
			LastMessagePreview: preview,
			LastMessageAt:      at,
			UnreadCount:        unread,
		})
	}
	return summaries, nil
}

func (uc *ListChatsUseCase) lastMessagePreview(ctx context.Context, chatID string) (*string, *time.Time, error) {
	if uc.Cache != nil {
		if raw, err := uc.Cache.Get(ctx, previewCacheKey(chatID)); err == nil {
			var p cachedPreview
			if json.Unmarshal([]byte(raw), &p) == nil {
				return p.Content, p.At, nil
			}
		} else if !errors.Is(err, cacheport.ErrMiss) && uc.Log != nil {
			uc.Log.Warn("preview cache read", "chat_id", chatID, "error", err)
		}
	}

	last, err := uc.Messages.LastMessage(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	p := cachedPreview{}
	if last != nil {
		p.Content = last.Content
		p.At = &last.CreatedAt
	}

	if uc.Cache != nil {
		if raw, err := json.Marshal(p); err == nil {
			if err := uc.Cache.Set(ctx, previewCacheKey(chatID), string(raw), previewCacheTTL); err != nil && uc.Log != nil {
				uc.Log.Warn("preview cache write", "chat_id", chatID, "error", err)
			}
		}
	}
	return p.Content, p.At, nil
}
