package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/auth"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/usecase"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MarkSeenController backs both seen endpoints: a single message and the
// whole-chat catch-up. Both delegate to the same use case.
type MarkSeenController struct {
	UC *usecase.MarkSeenUseCase
}

func NewMarkSeenController(pool *pgxpool.Pool) *MarkSeenController {
	messages := adapter.NewPgMessageRepository(pool)
	return &MarkSeenController{UC: usecase.NewMarkSeenUseCase(messages)}
}

// HandleMessage marks one message as seen by the caller.
func (h *MarkSeenController) HandleMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		messageID := c.Param("messageId")
		if chatID == "" || messageID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId and messageId are required"})
			return
		}
		h.execute(c, usecase.MarkSeenInput{
			ChatID:    chatID,
			UserID:    auth.CallerID(c),
			MessageID: &messageID,
		})
	}
}

// HandleChat marks every message in the chat as seen by the caller.
func (h *MarkSeenController) HandleChat() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}
		h.execute(c, usecase.MarkSeenInput{
			ChatID: chatID,
			UserID: auth.CallerID(c),
		})
	}
}

func (h *MarkSeenController) execute(c *gin.Context, in usecase.MarkSeenInput) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.UC.Execute(ctx, in); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
