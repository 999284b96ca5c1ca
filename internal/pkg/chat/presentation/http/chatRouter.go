package http

import (
	"log/slog"

	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/auth"
	cacheport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/cache/port"
	qport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/queue/port"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/realtime"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/presentation/controller"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the shared infrastructure handed down to the messaging
// endpoints. Cache and Queue may be nil; the affected features degrade (no
// preview cache, no offline notifications).
type Deps struct {
	Pool     *pgxpool.Pool
	Cache    cacheport.Cache
	Queue    qport.Client
	Registry *realtime.Registry
	Verifier *auth.Verifier
	Log      *slog.Logger
}

// RegisterRoutes registers the messaging HTTP endpoints under the given
// router group. It constructs per-endpoint controllers and binds them
// directly to routes.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	directCtl := controller.NewCreateDirectChatController(d.Pool)
	groupCtl := controller.NewCreateGroupChatController(d.Pool)
	updateCtl := controller.NewUpdateChatController(d.Pool)
	listChatsCtl := controller.NewListChatsController(d.Pool, d.Cache, d.Log)
	listMsgCtl := controller.NewListMessagesController(d.Pool)
	sendCtl := controller.NewSendMessageController(d.Pool, d.Queue, d.Cache, d.Registry, d.Log)
	editCtl := controller.NewEditMessageController(d.Pool, d.Cache, d.Registry, d.Log)
	deleteCtl := controller.NewDeleteMessageController(d.Pool, d.Cache, d.Registry, d.Log)
	seenCtl := controller.NewMarkSeenController(d.Pool)

	m := g.Group("/messaging")

	m.POST("/chats/direct", directCtl.Handle())
	m.POST("/chats/group", groupCtl.Handle())
	m.GET("/chats", listChatsCtl.Handle())
	m.PATCH("/chats/:chatId", updateCtl.Handle())

	m.GET("/chats/:chatId/messages", listMsgCtl.Handle())
	m.POST("/chats/:chatId/messages", sendCtl.Handle())
	m.PATCH("/chats/:chatId/messages/:messageId", editCtl.Handle())
	m.DELETE("/chats/:chatId/messages/:messageId", deleteCtl.Handle())

	m.POST("/chats/:chatId/messages/:messageId/seen", seenCtl.HandleMessage())
	m.POST("/chats/:chatId/seen", seenCtl.HandleChat())
}

// RegisterSocketRoutes mounts the live session endpoint. It sits outside the
// Bearer-auth group because websocket clients pass the token as a query
// parameter and failures are signalled with close codes.
func RegisterSocketRoutes(r *gin.Engine, d Deps) {
	socketCtl := controller.NewChatSocketController(d.Pool, d.Verifier, d.Registry, d.Log)
	r.GET("/ws/chats/:chatId", socketCtl.Handle())
}
