package controller

import (
	"errors"
	"net/http"

	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// respondError maps use case failures onto HTTP statuses: membership and
// ownership violations to 403, missing entities to 404, store failures to
// 500, anything else to 400.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, chat.ErrNotMember), errors.Is(err, chat.ErrNotSender), errors.Is(err, chat.ErrNotAdmin):
		status = http.StatusForbidden
	case errors.Is(err, chat.ErrChatNotFound), errors.Is(err, chat.ErrMessageNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrPersistence):
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
