package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	repository "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/port"
)

// UpdateChatInput carries group-chat mutations: rename, photo change and
// membership edits. Nil pointer fields are left untouched.
type UpdateChatInput struct {
	RequesterID     string
	ChatID          string
	Name            *string
	PhotoURL        *string
	AddMemberIDs    []string
	RemoveMemberIDs []string
}

// UpdateChatUseCase applies admin-gated mutations to a group chat. Direct
// chats are immutable: their identity is the member pair.
type UpdateChatUseCase struct {
	Chats repository.ChatRepository
}

func NewUpdateChatUseCase(chats repository.ChatRepository) *UpdateChatUseCase {
	return &UpdateChatUseCase{Chats: chats}
}

func (uc *UpdateChatUseCase) Execute(ctx context.Context, in UpdateChatInput) (*chat.Chat, error) {
	if in.RequesterID == "" || in.ChatID == "" {
		return nil, fmt.Errorf("requester and chat ids are required")
	}

	c, err := uc.Chats.GetChat(ctx, in.ChatID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if c == nil {
		return nil, chat.ErrChatNotFound
	}
	if c.Type == chat.ChatTypeDirect {
		return nil, chat.ErrDirectChatFixed
	}
	if !c.HasAdmin(in.RequesterID) {
		return nil, chat.ErrNotAdmin
	}

	if in.Name != nil {
		c.Name = in.Name
	}
	if in.PhotoURL != nil {
		c.PhotoURL = in.PhotoURL
	}
	if len(in.AddMemberIDs) > 0 {
		c.AddMembers(in.AddMemberIDs)
	}
	if len(in.RemoveMemberIDs) > 0 {
		c.RemoveMembers(in.RemoveMemberIDs)
	}
	c.UpdatedAt = time.Now().UTC()

	if err := uc.Chats.UpdateChat(ctx, *c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return c, nil
}
