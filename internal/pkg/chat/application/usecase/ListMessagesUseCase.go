package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	repository "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/port"
)

// ListMessagesInput pages through a chat's history, newest first. Before is
// an exclusive upper bound on created_at.
type ListMessagesInput struct {
	ChatID string
	UserID string
	Limit  int
	Before *time.Time
}

// ListMessagesUseCase returns chat history after a membership check. The
// check runs against current persisted state on every call; authorization is
// never cached.
type ListMessagesUseCase struct {
	Chats    repository.ChatRepository
	Messages repository.MessageRepository
}

func NewListMessagesUseCase(chats repository.ChatRepository, messages repository.MessageRepository) *ListMessagesUseCase {
	return &ListMessagesUseCase{Chats: chats, Messages: messages}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, in ListMessagesInput) ([]chat.Message, error) {
	if in.ChatID == "" || in.UserID == "" {
		return nil, fmt.Errorf("chatId and userId are required")
	}

	c, err := uc.Chats.GetChat(ctx, in.ChatID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if c == nil || !c.HasMember(in.UserID) {
		return nil, chat.ErrNotMember
	}

	msgs, err := uc.Messages.ListMessages(ctx, in.ChatID, in.Limit, in.Before)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
