package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/auth"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/usecase"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxMessagePageSize = 100

// ListMessagesController handles message history fetches (one controller per
// endpoint). `before` is an exclusive RFC3339 upper bound for cursoring.
type ListMessagesController struct {
	UC *usecase.ListMessagesUseCase
}

func NewListMessagesController(pool *pgxpool.Pool) *ListMessagesController {
	chats := adapter.NewPgChatRepository(pool)
	messages := adapter.NewPgMessageRepository(pool)
	return &ListMessagesController{UC: usecase.NewListMessagesUseCase(chats, messages)}
}

func (h *ListMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}

		limit := 50
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxMessagePageSize {
				limit = n
			}
		}

		var before *time.Time
		if v := c.Query("before"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "before must be an RFC3339 timestamp"})
				return
			}
			before = &t
		}

		in := usecase.ListMessagesInput{
			ChatID: chatID,
			UserID: auth.CallerID(c),
			Limit:  limit,
			Before: before,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"messages": msgs,
			"limit":    limit,
			"count":    len(msgs),
		})
	}
}
