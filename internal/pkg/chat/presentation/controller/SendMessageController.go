package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/auth"
	cacheport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/cache/port"
	qport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/queue/port"
	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/usecase"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SendMessageController handles the send-message endpoint (one controller per endpoint).
type SendMessageController struct {
	UC *usecase.SendMessageUseCase
}

func NewSendMessageController(pool *pgxpool.Pool, queue qport.Client, cache cacheport.Cache, b usecase.Broadcaster, log *slog.Logger) *SendMessageController {
	chats := adapter.NewPgChatRepository(pool)
	messages := adapter.NewPgMessageRepository(pool)
	return &SendMessageController{UC: usecase.NewSendMessageUseCase(chats, messages, queue, cache, b, log)}
}

type sendMessageRequest struct {
	Content     *string           `json:"content"`
	Type        *chat.MessageType `json:"type"`
	Attachments []chat.Attachment `json:"attachments"`
	ReplyToID   *string           `json:"reply_to_id"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		msgType := chat.MessageTypeText
		if req.Type != nil {
			msgType = *req.Type
		}

		in := usecase.SendMessageInput{
			SenderID:    auth.CallerID(c),
			ChatID:      chatID,
			Content:     req.Content,
			Type:        msgType,
			Attachments: req.Attachments,
			ReplyToID:   req.ReplyToID,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}
