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

// CreateDirectChatController handles the direct-chat endpoint (one controller
// per endpoint). The operation is a get-or-create: repeated calls for the
// same pair return the same chat.
type CreateDirectChatController struct {
	UC *usecase.CreateDirectChatUseCase
}

func NewCreateDirectChatController(pool *pgxpool.Pool) *CreateDirectChatController {
	repo := adapter.NewPgChatRepository(pool)
	return &CreateDirectChatController{UC: usecase.NewCreateDirectChatUseCase(repo)}
}

type createDirectChatRequest struct {
	OtherUserID string `json:"other_user_id" binding:"required"`
}

func (h *CreateDirectChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createDirectChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.CreateDirectChatInput{
			RequesterID: auth.CallerID(c),
			OtherUserID: req.OtherUserID,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		chatEntity, err := h.UC.Execute(ctx, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, chatEntity)
	}
}
