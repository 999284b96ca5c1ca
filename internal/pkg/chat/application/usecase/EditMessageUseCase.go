package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	cacheport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/cache/port"
	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	repository "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/port"
)

// EditMessageInput carries a content replacement for one message.
type EditMessageInput struct {
	MessageID string
	UserID    string
	Content   string
}

// EditMessageUseCase replaces a message's content, marks it edited and
// broadcasts message:updated. A missing message, a redacted message and a
// caller who is not the original sender all surface as not-found, so
// non-senders cannot probe for message existence.
type EditMessageUseCase struct {
	Messages repository.MessageRepository
	Cache    cacheport.Cache
	B        Broadcaster
	Log      *slog.Logger
}

func NewEditMessageUseCase(messages repository.MessageRepository, cache cacheport.Cache, b Broadcaster, log *slog.Logger) *EditMessageUseCase {
	return &EditMessageUseCase{Messages: messages, Cache: cache, B: b, Log: log}
}

func (uc *EditMessageUseCase) Execute(ctx context.Context, in EditMessageInput) (*chat.Message, error) {
	if in.MessageID == "" || in.UserID == "" {
		return nil, fmt.Errorf("messageId and userId are required")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, chat.ErrEmptyMessage
	}
	if len(content) > chat.MaxContentLength {
		return nil, chat.ErrContentTooLong
	}

	msg, err := uc.Messages.GetMessage(ctx, in.MessageID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	// A redacted message is gone for everyone, its sender included.
	if msg == nil || msg.SenderID != in.UserID || msg.State == chat.MessageStateRedacted {
		return nil, chat.ErrMessageNotFound
	}

	updated, err := uc.Messages.UpdateContent(ctx, in.MessageID, content, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if updated == nil {
		return nil, chat.ErrMessageNotFound
	}

	if uc.Cache != nil {
		if _, err := uc.Cache.Del(ctx, previewCacheKey(updated.ChatID)); err != nil && uc.Log != nil {
			uc.Log.Warn("invalidate preview cache", "chat_id", updated.ChatID, "error", err)
		}
	}
	broadcastEvent(uc.B, uc.Log, updated.ChatID, chat.MessageUpdatedEvent{Message: *updated})

	return updated, nil
}
