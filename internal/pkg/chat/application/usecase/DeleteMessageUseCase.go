package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cacheport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/cache/port"
	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	repository "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageInput selects a message and the deletion mode.
type DeleteMessageInput struct {
	MessageID   string
	UserID      string
	ForEveryone bool
}

// DeleteMessageUseCase removes a message. ForEveryone hard-deletes the row
// and is restricted to the original sender; otherwise the message is redacted
// in place (content nulled, attachments cleared, type forced to system).
// Redaction is likewise sender-only and masks as not-found for other callers.
type DeleteMessageUseCase struct {
	Messages repository.MessageRepository
	Cache    cacheport.Cache
	B        Broadcaster
	Log      *slog.Logger
}

func NewDeleteMessageUseCase(messages repository.MessageRepository, cache cacheport.Cache, b Broadcaster, log *slog.Logger) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Messages: messages, Cache: cache, B: b, Log: log}
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) error {
	if in.MessageID == "" || in.UserID == "" {
		return fmt.Errorf("messageId and userId are required")
	}

	msg, err := uc.Messages.GetMessage(ctx, in.MessageID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg == nil || (!in.ForEveryone && msg.SenderID != in.UserID) {
		return chat.ErrMessageNotFound
	}
	if in.ForEveryone && msg.SenderID != in.UserID {
		return chat.ErrNotSender
	}

	if in.ForEveryone {
		err = uc.Messages.DeleteMessage(ctx, in.MessageID)
	} else {
		err = uc.Messages.RedactMessage(ctx, in.MessageID, time.Now().UTC())
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		if _, err := uc.Cache.Del(ctx, previewCacheKey(msg.ChatID)); err != nil && uc.Log != nil {
			uc.Log.Warn("invalidate preview cache", "chat_id", msg.ChatID, "error", err)
		}
	}
	broadcastEvent(uc.B, uc.Log, msg.ChatID, chat.MessageDeletedEvent{ID: msg.ID, ForEveryone: in.ForEveryone})

	return nil
}
