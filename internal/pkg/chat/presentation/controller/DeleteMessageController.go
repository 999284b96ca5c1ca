package controller

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/auth"
	cacheport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/cache/port"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/usecase"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DeleteMessageController handles message deletion (one controller per
// endpoint). `for_everyone=true` hard-deletes, otherwise the message is
// redacted in place.
type DeleteMessageController struct {
	UC *usecase.DeleteMessageUseCase
}

func NewDeleteMessageController(pool *pgxpool.Pool, cache cacheport.Cache, b usecase.Broadcaster, log *slog.Logger) *DeleteMessageController {
	messages := adapter.NewPgMessageRepository(pool)
	return &DeleteMessageController{UC: usecase.NewDeleteMessageUseCase(messages, cache, b, log)}
}

func (h *DeleteMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID := c.Param("messageId")
		if messageID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "messageId is required"})
			return
		}

		forEveryone := false
		if v := c.Query("for_everyone"); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				forEveryone = b
			}
		}

		in := usecase.DeleteMessageInput{
			MessageID:   messageID,
			UserID:      auth.CallerID(c),
			ForEveryone: forEveryone,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := h.UC.Execute(ctx, in); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
