package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/auth"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/realtime"
	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/usecase"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/adapter"
	repository "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/port"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Application close codes for the live protocol. 4401/4403 mirror their HTTP
// counterparts so clients can reuse the same handling.
const (
	closeUnauthorized = 4401
	closeForbidden    = 4403
)

const readWait = 60 * time.Second

// ChatSocketController owns the lifetime of one live chat session: handshake,
// authentication, membership check, subscription, and the inbound read loop.
// Outbound fan-out happens through the registry; the controller only ever
// unicasts protocol replies to its own connection.
type ChatSocketController struct {
	Chats    repository.ChatRepository
	Seen     *usecase.MarkSeenUseCase
	Verifier *auth.Verifier
	Registry *realtime.Registry
	Log      *slog.Logger

	upgrader websocket.Upgrader
}

func NewChatSocketController(pool *pgxpool.Pool, verifier *auth.Verifier, registry *realtime.Registry, log *slog.Logger) *ChatSocketController {
	messages := adapter.NewPgMessageRepository(pool)
	return &ChatSocketController{
		Chats:    adapter.NewPgChatRepository(pool),
		Seen:     usecase.NewMarkSeenUseCase(messages),
		Verifier: verifier,
		Registry: registry,
		Log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}

		ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response.
			return
		}

		// Auth and membership are checked after the upgrade so the client
		// receives a meaningful close code instead of a failed handshake.
		userID, err := h.Verifier.Verify(c.Query("token"))
		if err != nil {
			closeWith(ws, closeUnauthorized, "invalid token")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		room, err := h.Chats.GetChat(ctx, chatID)
		cancel()
		if err != nil {
			h.Log.Error("load chat for socket", "chatId", chatID, "error", err)
			closeWith(ws, websocket.CloseInternalServerErr, "internal error")
			return
		}
		if room == nil || !room.HasMember(userID) {
			closeWith(ws, closeForbidden, "not a member of this chat")
			return
		}

		conn := realtime.NewConnection(userID, chatID, ws)
		h.Registry.Register(chatID, conn)
		conn.Start()
		defer h.Registry.Unregister(chatID, conn)

		if !h.unicast(conn, chat.ConnectedEvent{ChatID: chatID}) {
			return
		}
		h.Log.Info("socket connected", "chatId", chatID, "userId", userID, "subscribers", h.Registry.Count(chatID))

		h.readLoop(c.Request.Context(), conn, ws)
		h.Log.Info("socket disconnected", "chatId", chatID, "userId", userID)
	}
}

// readLoop consumes client frames until the peer goes away or a fault forces
// the server side to hang up. Malformed or unknown frames get an error reply
// and the session continues.
func (h *ChatSocketController) readLoop(ctx context.Context, conn *realtime.Connection, ws *websocket.Conn) {
	_ = ws.SetReadDeadline(time.Now().Add(readWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			conn.Close(websocket.CloseNormalClosure, "")
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readWait))

		ev, err := chat.DecodeClientEvent(payload)
		if err != nil {
			if !h.unicast(conn, chat.ErrorEvent{Message: "Unknown event"}) {
				return
			}
			continue
		}

		switch cmd := ev.(type) {
		case chat.PingCommand:
			if !h.unicast(conn, chat.PongEvent{}) {
				return
			}
		case chat.TypingCommand:
			h.broadcast(conn.ChatID, chat.TypingEvent{UserID: conn.UserID, IsTyping: cmd.IsTyping})
		case chat.SeenCommand:
			if !h.handleSeen(ctx, conn, cmd) {
				conn.Close(websocket.CloseInternalServerErr, "internal error")
				return
			}
		}
	}
}

// handleSeen persists the seen-state change and fans it out. A persistence
// fault is the one client command failure that tears the session down.
func (h *ChatSocketController) handleSeen(ctx context.Context, conn *realtime.Connection, cmd chat.SeenCommand) bool {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := h.Seen.Execute(opCtx, usecase.MarkSeenInput{
		ChatID:    conn.ChatID,
		UserID:    conn.UserID,
		MessageID: cmd.MessageID,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrPersistence) {
			h.Log.Error("mark seen from socket", "chatId", conn.ChatID, "userId", conn.UserID, "error", err)
			return false
		}
		return h.unicast(conn, chat.ErrorEvent{Message: "Invalid seen event"})
	}

	if cmd.MessageID != nil && *cmd.MessageID != "" {
		h.broadcast(conn.ChatID, chat.MessageSeenEvent{UserID: conn.UserID, MessageID: *cmd.MessageID})
	} else {
		h.broadcast(conn.ChatID, chat.MessageSeenAllEvent{UserID: conn.UserID})
	}
	return true
}

// unicast encodes and delivers an event to this session only. A false return
// means the connection is gone and the read loop should exit.
func (h *ChatSocketController) unicast(conn *realtime.Connection, e chat.Event) bool {
	payload, err := chat.EncodeEvent(e)
	if err != nil {
		h.Log.Error("encode socket event", "event", e.EventName(), "error", err)
		return true
	}
	return h.Registry.Unicast(conn, payload) == nil
}

func (h *ChatSocketController) broadcast(chatID string, e chat.Event) {
	payload, err := chat.EncodeEvent(e)
	if err != nil {
		h.Log.Error("encode socket event", "event", e.EventName(), "error", err)
		return
	}
	h.Registry.Broadcast(chatID, payload)
}

// closeWith rejects a session that never reached the registry.
func closeWith(ws *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)
	_ = ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	_ = ws.Close()
}
