package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	cacheport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/cache/port"
	qport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/queue/port"
	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/task"
	repository "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to send a new message.
type SendMessageInput struct {
	SenderID    string
	ChatID      string
	Content     *string
	Type        chat.MessageType
	Attachments []chat.Attachment
	ReplyToID   *string
}

// SendMessageUseCase persists a message after a membership check, bumps the
// chat's update timestamp, enqueues notification fan-out and broadcasts
// message:new to live subscribers. The persisted message is the primary
// artifact: notification and broadcast failures never fail the send.
type SendMessageUseCase struct {
	Chats    repository.ChatRepository
	Messages repository.MessageRepository
	Queue    qport.Client
	Cache    cacheport.Cache
	B        Broadcaster
	Log      *slog.Logger
}

func NewSendMessageUseCase(chats repository.ChatRepository, messages repository.MessageRepository, queue qport.Client, cache cacheport.Cache, b Broadcaster, log *slog.Logger) *SendMessageUseCase {
	return &SendMessageUseCase{Chats: chats, Messages: messages, Queue: queue, Cache: cache, B: b, Log: log}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	if in.ChatID == "" || in.SenderID == "" {
		return nil, fmt.Errorf("chatId and senderId are required")
	}

	c, err := uc.Chats.GetChat(ctx, in.ChatID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if c == nil || !c.HasMember(in.SenderID) {
		return nil, chat.ErrNotMember
	}

	now := time.Now().UTC()
	msg, err := chat.NewMessage(chat.Message{
		ChatID:      in.ChatID,
		SenderID:    in.SenderID,
		Content:     in.Content,
		Type:        in.Type,
		Attachments: in.Attachments,
		ReplyToID:   in.ReplyToID,
	}, now)
	if err != nil {
		return nil, err
	}

	id, err := uc.Messages.CreateMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id

	if err := uc.Chats.TouchChat(ctx, c.ID, now); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.invalidatePreview(ctx, c.ID)
	uc.enqueueNotifications(ctx, c, msg)
	broadcastEvent(uc.B, uc.Log, c.ID, chat.MessageNewEvent{Message: *msg})

	return msg, nil
}

func (uc *SendMessageUseCase) invalidatePreview(ctx context.Context, chatID string) {
	if uc.Cache == nil {
		return
	}
	if _, err := uc.Cache.Del(ctx, previewCacheKey(chatID)); err != nil && uc.Log != nil {
		uc.Log.Warn("invalidate preview cache", "chat_id", chatID, "error", err)
	}
}

func (uc *SendMessageUseCase) enqueueNotifications(ctx context.Context, c *chat.Chat, msg *chat.Message) {
	if uc.Queue == nil {
		return
	}
	recipients := make([]string, 0, len(c.MemberIDs))
	for _, member := range c.MemberIDs {
		if member != msg.SenderID {
			recipients = append(recipients, member)
		}
	}
	if len(recipients) == 0 {
		return
	}

	payload := task.NotifyMembersTaskPayload{
		ChatID:       c.ID,
		MessageID:    msg.ID,
		SenderID:     msg.SenderID,
		RecipientIDs: recipients,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		if uc.Log != nil {
			uc.Log.Warn("encode notification task", "chat_id", c.ID, "error", err)
		}
		return
	}
	// The uniqueness window stops a retried send from enqueuing the same
	// fan-out twice.
	opts := qport.EnqueueOption{Queue: "chat", MaxRetry: 20, UniqueTTL: time.Minute}
	if _, err := uc.Queue.Enqueue(ctx, qport.Task{Type: task.NotifyMembersTaskType, Payload: b}, opts); err != nil && uc.Log != nil {
		uc.Log.Warn("enqueue notification task", "chat_id", c.ID, "error", err)
	}
}
