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

// UpdateChatController handles group-chat mutation (one controller per
// endpoint): rename, photo change, membership edits. Admin-gated.
type UpdateChatController struct {
	UC *usecase.UpdateChatUseCase
}

func NewUpdateChatController(pool *pgxpool.Pool) *UpdateChatController {
	repo := adapter.NewPgChatRepository(pool)
	return &UpdateChatController{UC: usecase.NewUpdateChatUseCase(repo)}
}

type updateChatRequest struct {
	Name            *string  `json:"name"`
	PhotoURL        *string  `json:"photo_url"`
	AddMemberIDs    []string `json:"add_member_ids"`
	RemoveMemberIDs []string `json:"remove_member_ids"`
}

func (h *UpdateChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}

		var req updateChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.UpdateChatInput{
			RequesterID:     auth.CallerID(c),
			ChatID:          chatID,
			Name:            req.Name,
			PhotoURL:        req.PhotoURL,
			AddMemberIDs:    req.AddMemberIDs,
			RemoveMemberIDs: req.RemoveMemberIDs,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		chatEntity, err := h.UC.Execute(ctx, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, chatEntity)
	}
}
