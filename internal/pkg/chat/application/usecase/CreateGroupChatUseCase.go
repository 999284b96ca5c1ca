package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	repository "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/port"
)

// CreateGroupChatInput carries the data to open a new group conversation.
// The requester is always added to the member set and becomes the sole
// initial admin.
type CreateGroupChatInput struct {
	RequesterID string
	MemberIDs   []string
	Name        *string
	PhotoURL    *string
}

// CreateGroupChatUseCase creates a group chat.
type CreateGroupChatUseCase struct {
	Chats repository.ChatRepository
}

func NewCreateGroupChatUseCase(chats repository.ChatRepository) *CreateGroupChatUseCase {
	return &CreateGroupChatUseCase{Chats: chats}
}

func (uc *CreateGroupChatUseCase) Execute(ctx context.Context, in CreateGroupChatInput) (*chat.Chat, error) {
	if in.RequesterID == "" {
		return nil, fmt.Errorf("requester id is required")
	}

	c := chat.NewGroupChat(in.RequesterID, in.MemberIDs, in.Name, in.PhotoURL, time.Now().UTC())
	id, err := uc.Chats.CreateChat(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	c.ID = id
	return &c, nil
}
