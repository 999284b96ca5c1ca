package v1

import (
	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/auth"
	httpHandler "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/presentation/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1 behind Bearer
// auth, plus the websocket endpoint at the engine root.
func RegisterRoutes(r *gin.Engine, d httpHandler.Deps) {
	v1 := r.Group("/api/v1")
	v1.Use(auth.Middleware(d.Verifier))
	httpHandler.RegisterRoutes(v1, d)

	httpHandler.RegisterSocketRoutes(r, d)
}
