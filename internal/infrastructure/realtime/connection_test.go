package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// dialTestConn upgrades against a throwaway server and returns the client-side
// websocket, which is the side a Connection wraps in production.
func dialTestConn(t *testing.T) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Drain until the peer goes away.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func TestConnection_Send_After_Close_Always_Fails(t *testing.T) {
	req := require.New(t)
	conn := NewConnection("alice", "chat-1", dialTestConn(t))

	conn.Close(websocket.CloseNormalClosure, "bye")

	// The buffer has room, but a closed connection must never report a
	// successful delivery.
	for i := 0; i < 64; i++ {
		req.Error(conn.Send([]byte("late")))
	}
}

func TestRegistry_Broadcast_Reaps_Closed_Connection(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	conn := NewConnection("alice", "chat-1", dialTestConn(t))
	r.Register("chat-1", conn)
	conn.Close(websocket.CloseNormalClosure, "bye")

	req.Equal(0, r.Broadcast("chat-1", []byte(`{"event":"typing"}`)))
	req.Equal(0, r.Count("chat-1"))
}

func TestConnection_Send_Full_Buffer_Closes_Connection(t *testing.T) {
	req := require.New(t)
	conn := NewConnection("alice", "chat-1", dialTestConn(t))
	// The write loop is never started, so every Send lands in the buffer.

	var err error
	for i := 0; i < cap(conn.send)+1; i++ {
		err = conn.Send([]byte("m"))
		if err != nil {
			break
		}
	}

	req.Error(err)
	req.Contains(err.Error(), "buffer")
	req.Error(conn.Send([]byte("after")))
}
