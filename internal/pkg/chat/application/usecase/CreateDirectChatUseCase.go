package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	repository "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/port"
)

// CreateDirectChatInput identifies the unordered user pair of a direct chat.
type CreateDirectChatInput struct {
	RequesterID string
	OtherUserID string
}

// CreateDirectChatUseCase returns the existing direct chat for the pair or
// creates one. At most one direct chat exists per unordered pair, so the
// lookup always runs before the insert.
type CreateDirectChatUseCase struct {
	Chats repository.ChatRepository
}

func NewCreateDirectChatUseCase(chats repository.ChatRepository) *CreateDirectChatUseCase {
	return &CreateDirectChatUseCase{Chats: chats}
}

func (uc *CreateDirectChatUseCase) Execute(ctx context.Context, in CreateDirectChatInput) (*chat.Chat, error) {
	if in.RequesterID == "" || in.OtherUserID == "" {
		return nil, fmt.Errorf("requester and other user ids are required")
	}
	if in.RequesterID == in.OtherUserID {
		return nil, fmt.Errorf("a direct chat needs two distinct users")
	}

	existing, err := uc.Chats.FindDirectChat(ctx, in.RequesterID, in.OtherUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing != nil {
		return existing, nil
	}

	c := chat.NewDirectChat(in.RequesterID, in.OtherUserID, time.Now().UTC())
	id, err := uc.Chats.CreateChat(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	c.ID = id
	return &c, nil
}
