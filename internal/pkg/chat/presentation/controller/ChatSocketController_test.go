package controller

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/auth"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/realtime"
	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type socketChatRepo struct {
	chats map[string]chat.Chat
}

func (r *socketChatRepo) CreateChat(_ context.Context, c chat.Chat) (string, error) { return c.ID, nil }

func (r *socketChatRepo) GetChat(_ context.Context, chatID string) (*chat.Chat, error) {
	c, ok := r.chats[chatID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *socketChatRepo) FindDirectChat(context.Context, string, string) (*chat.Chat, error) {
	return nil, nil
}
func (r *socketChatRepo) UpdateChat(context.Context, chat.Chat) error { return nil }
func (r *socketChatRepo) TouchChat(context.Context, string, time.Time) error {
	return nil
}
func (r *socketChatRepo) ListUserChats(context.Context, string, int) ([]chat.Chat, error) {
	return nil, nil
}

type socketMessageRepo struct {
	mu      sync.Mutex
	seen    map[string][]string
	seenAll map[string][]string
}

func newSocketMessageRepo() *socketMessageRepo {
	return &socketMessageRepo{seen: map[string][]string{}, seenAll: map[string][]string{}}
}

func (r *socketMessageRepo) CreateMessage(_ context.Context, m chat.Message) (string, error) {
	return m.ID, nil
}
func (r *socketMessageRepo) GetMessage(context.Context, string) (*chat.Message, error) {
	return nil, nil
}
func (r *socketMessageRepo) UpdateContent(context.Context, string, string, time.Time) (*chat.Message, error) {
	return nil, nil
}
func (r *socketMessageRepo) DeleteMessage(context.Context, string) error          { return nil }
func (r *socketMessageRepo) RedactMessage(context.Context, string, time.Time) error { return nil }
func (r *socketMessageRepo) ListMessages(context.Context, string, int, *time.Time) ([]chat.Message, error) {
	return nil, nil
}
func (r *socketMessageRepo) LastMessage(context.Context, string) (*chat.Message, error) {
	return nil, nil
}

func (r *socketMessageRepo) MarkSeen(_ context.Context, messageID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[messageID] = append(r.seen[messageID], userID)
	return nil
}

func (r *socketMessageRepo) MarkAllSeen(_ context.Context, chatID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seenAll[chatID] = append(r.seenAll[chatID], userID)
	return nil
}

func (r *socketMessageRepo) CountUnseen(context.Context, string, string) (int, error) {
	return 0, nil
}

const socketTestSecret = "socket-test-secret"

func socketToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(socketTestSecret))
	require.NoError(t, err)
	return signed
}

func newSocketServer(t *testing.T, messages *socketMessageRepo) (*httptest.Server, *realtime.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	chats := &socketChatRepo{chats: map[string]chat.Chat{
		"chat-1": {
			ID:        "chat-1",
			Type:      chat.ChatTypeGroup,
			MemberIDs: []string{"alice", "bob"},
			AdminIDs:  []string{"alice"},
		},
	}}
	registry := realtime.NewRegistry()
	ctl := &ChatSocketController{
		Chats:    chats,
		Seen:     usecase.NewMarkSeenUseCase(messages),
		Verifier: auth.NewVerifier([]byte(socketTestSecret)),
		Registry: registry,
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	r := gin.New()
	r.GET("/ws/chats/:chatId", ctl.Handle())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, registry
}

func wsURL(srv *httptest.Server, chatID, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chats/" + chatID + "?token=" + token
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := ws.ReadMessage()
	require.NoError(t, err)
	var frame map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &frame))
	return frame
}

func frameEvent(t *testing.T, frame map[string]json.RawMessage) string {
	t.Helper()
	var name string
	require.NoError(t, json.Unmarshal(frame["event"], &name))
	return name
}

func expectClose(t *testing.T, ws *websocket.Conn, code int) {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := ws.ReadMessage()
	closeErr, ok := err.(*websocket.CloseError)
	require.True(t, ok, "expected close error, got %v", err)
	require.Equal(t, code, closeErr.Code)
}

func TestChatSocket_Invalid_Token_Closes_4401(t *testing.T) {
	srv, _ := newSocketServer(t, newSocketMessageRepo())

	ws := dial(t, wsURL(srv, "chat-1", "bogus"))

	expectClose(t, ws, 4401)
}

func TestChatSocket_NonMember_Closes_4403(t *testing.T) {
	srv, _ := newSocketServer(t, newSocketMessageRepo())

	ws := dial(t, wsURL(srv, "chat-1", socketToken(t, "mallory")))

	expectClose(t, ws, 4403)
}

func TestChatSocket_Unknown_Chat_Closes_4403(t *testing.T) {
	srv, _ := newSocketServer(t, newSocketMessageRepo())

	ws := dial(t, wsURL(srv, "chat-missing", socketToken(t, "alice")))

	expectClose(t, ws, 4403)
}

func TestChatSocket_Member_Gets_Connected_Ack(t *testing.T) {
	req := require.New(t)
	srv, _ := newSocketServer(t, newSocketMessageRepo())

	ws := dial(t, wsURL(srv, "chat-1", socketToken(t, "alice")))

	frame := readFrame(t, ws)
	req.Equal("connected", frameEvent(t, frame))
	req.JSONEq(`{"chat_id":"chat-1"}`, string(frame["data"]))
}

func TestChatSocket_Ping_Gets_Pong(t *testing.T) {
	req := require.New(t)
	srv, _ := newSocketServer(t, newSocketMessageRepo())
	ws := dial(t, wsURL(srv, "chat-1", socketToken(t, "alice")))
	readFrame(t, ws) // connected

	req.NoError(ws.WriteMessage(websocket.TextMessage, []byte(`{"event":"ping"}`)))

	frame := readFrame(t, ws)
	req.Equal("pong", frameEvent(t, frame))
}

func TestChatSocket_Unknown_Event_Gets_Error_And_Stays_Open(t *testing.T) {
	req := require.New(t)
	srv, _ := newSocketServer(t, newSocketMessageRepo())
	ws := dial(t, wsURL(srv, "chat-1", socketToken(t, "alice")))
	readFrame(t, ws) // connected

	req.NoError(ws.WriteMessage(websocket.TextMessage, []byte(`{"event":"dance"}`)))

	frame := readFrame(t, ws)
	req.Equal("error", frameEvent(t, frame))
	req.JSONEq(`"Unknown event"`, string(frame["message"]))

	// The session survives the bad frame.
	req.NoError(ws.WriteMessage(websocket.TextMessage, []byte(`{"event":"ping"}`)))
	req.Equal("pong", frameEvent(t, readFrame(t, ws)))
}

func TestChatSocket_Typing_Broadcast_Includes_Sender(t *testing.T) {
	req := require.New(t)
	srv, _ := newSocketServer(t, newSocketMessageRepo())
	alice := dial(t, wsURL(srv, "chat-1", socketToken(t, "alice")))
	bob := dial(t, wsURL(srv, "chat-1", socketToken(t, "bob")))
	readFrame(t, alice) // connected
	readFrame(t, bob)   // connected

	req.NoError(alice.WriteMessage(websocket.TextMessage, []byte(`{"event":"typing","data":{"is_typing":true}}`)))

	for _, ws := range []*websocket.Conn{alice, bob} {
		frame := readFrame(t, ws)
		req.Equal("typing", frameEvent(t, frame))
		req.JSONEq(`{"user_id":"alice","is_typing":true}`, string(frame["data"]))
	}
}

func TestChatSocket_Seen_Persists_And_Broadcasts(t *testing.T) {
	req := require.New(t)
	messages := newSocketMessageRepo()
	srv, _ := newSocketServer(t, messages)
	alice := dial(t, wsURL(srv, "chat-1", socketToken(t, "alice")))
	bob := dial(t, wsURL(srv, "chat-1", socketToken(t, "bob")))
	readFrame(t, alice)
	readFrame(t, bob)

	req.NoError(bob.WriteMessage(websocket.TextMessage, []byte(`{"event":"seen","data":{"message_id":"msg-1"}}`)))

	frame := readFrame(t, alice)
	req.Equal("message:seen", frameEvent(t, frame))
	req.JSONEq(`{"user_id":"bob","message_id":"msg-1"}`, string(frame["data"]))

	messages.mu.Lock()
	defer messages.mu.Unlock()
	req.Equal([]string{"bob"}, messages.seen["msg-1"])
}

func TestChatSocket_Seen_Without_MessageID_Marks_All(t *testing.T) {
	req := require.New(t)
	messages := newSocketMessageRepo()
	srv, _ := newSocketServer(t, messages)
	alice := dial(t, wsURL(srv, "chat-1", socketToken(t, "alice")))
	bob := dial(t, wsURL(srv, "chat-1", socketToken(t, "bob")))
	readFrame(t, alice)
	readFrame(t, bob)

	req.NoError(bob.WriteMessage(websocket.TextMessage, []byte(`{"event":"seen"}`)))

	frame := readFrame(t, alice)
	req.Equal("message:seen_all", frameEvent(t, frame))
	req.JSONEq(`{"user_id":"bob"}`, string(frame["data"]))

	messages.mu.Lock()
	defer messages.mu.Unlock()
	req.Equal([]string{"bob"}, messages.seenAll["chat-1"])
}

func TestChatSocket_Disconnect_Unregisters(t *testing.T) {
	req := require.New(t)
	srv, registry := newSocketServer(t, newSocketMessageRepo())
	ws := dial(t, wsURL(srv, "chat-1", socketToken(t, "alice")))
	readFrame(t, ws)
	req.Equal(1, registry.Count("chat-1"))

	req.NoError(ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second)))
	_ = ws.Close()

	req.Eventually(func() bool { return registry.Count("chat-1") == 0 }, 2*time.Second, 10*time.Millisecond)
}
