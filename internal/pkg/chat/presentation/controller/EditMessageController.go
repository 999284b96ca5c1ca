package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/auth"
	cacheport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/cache/port"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/usecase"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EditMessageController handles message edits (one controller per endpoint).
type EditMessageController struct {
	UC *usecase.EditMessageUseCase
}

func NewEditMessageController(pool *pgxpool.Pool, cache cacheport.Cache, b usecase.Broadcaster, log *slog.Logger) *EditMessageController {
	messages := adapter.NewPgMessageRepository(pool)
	return &EditMessageController{UC: usecase.NewEditMessageUseCase(messages, cache, b, log)}
}

type editMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *EditMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID := c.Param("messageId")
		if messageID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "messageId is required"})
			return
		}

		var req editMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.EditMessageInput{
			MessageID: messageID,
			UserID:    auth.CallerID(c),
			Content:   req.Content,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}
