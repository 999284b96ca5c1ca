package usecase

import (
	"context"
	"fmt"

	repository "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/port"
)

// MarkSeenInput marks one message, or with a nil MessageID every message in
// the chat, as seen by the user.
type MarkSeenInput struct {
	ChatID    string
	UserID    string
	MessageID *string
}

// MarkSeenUseCase grows seen sets. The store-side mutation is atomic and
// idempotent, so concurrent or repeated calls converge on the same state.
type MarkSeenUseCase struct {
	Messages repository.MessageRepository
}

func NewMarkSeenUseCase(messages repository.MessageRepository) *MarkSeenUseCase {
	return &MarkSeenUseCase{Messages: messages}
}

func (uc *MarkSeenUseCase) Execute(ctx context.Context, in MarkSeenInput) error {
	if in.ChatID == "" || in.UserID == "" {
		return fmt.Errorf("chatId and userId are required")
	}

	var err error
	if in.MessageID != nil && *in.MessageID != "" {
		err = uc.Messages.MarkSeen(ctx, *in.MessageID, in.UserID)
	} else {
		err = uc.Messages.MarkAllSeen(ctx, in.ChatID, in.UserID)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
