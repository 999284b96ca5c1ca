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

// CreateGroupChatController handles group-chat creation (one controller per endpoint).
type CreateGroupChatController struct {
	UC *usecase.CreateGroupChatUseCase
}

func NewCreateGroupChatController(pool *pgxpool.Pool) *CreateGroupChatController {
	repo := adapter.NewPgChatRepository(pool)
	return &CreateGroupChatController{UC: usecase.NewCreateGroupChatUseCase(repo)}
}

type createGroupChatRequest struct {
	MemberIDs []string `json:"member_ids" binding:"required"`
	Name      *string  `json:"name"`
	PhotoURL  *string  `json:"photo_url"`
}

func (h *CreateGroupChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createGroupChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.MemberIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "member_ids must include at least one user id"})
			return
		}

		in := usecase.CreateGroupChatInput{
			RequesterID: auth.CallerID(c),
			MemberIDs:   req.MemberIDs,
			Name:        req.Name,
			PhotoURL:    req.PhotoURL,
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
