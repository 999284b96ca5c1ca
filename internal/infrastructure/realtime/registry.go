package realtime

import "sync"

// Conn is the minimal surface the registry needs from a live connection.
type Conn interface {
	Send(payload []byte) error
	Close(code int, reason string)
}

// Registry maps a chat ID to the set of currently-open connections subscribed
// to it. It is the only concurrently-mutated in-memory structure of the
// messaging core; every read-modify-write on the per-chat sets goes through
// the registry's mutex. Callers never see the underlying sets.
type Registry struct {
	mu    sync.RWMutex
	chats map[string]map[Conn]struct{}
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{chats: make(map[string]map[Conn]struct{})}
}

// Register adds the connection to the chat's subscriber set. Registering an
// already-present connection is a no-op.
func (r *Registry) Register(chatID string, conn Conn) {
	r.mu.Lock()
	set := r.chats[chatID]
	if set == nil {
		set = make(map[Conn]struct{})
		r.chats[chatID] = set
	}
	set[conn] = struct{}{}
	r.mu.Unlock()
}

// Unregister removes the connection from the chat's subscriber set and drops
// the chat entry once it is empty.
func (r *Registry) Unregister(chatID string, conn Conn) {
	r.mu.Lock()
	if set := r.chats[chatID]; set != nil {
		delete(set, conn)
		if len(set) == 0 {
			delete(r.chats, chatID)
		}
	}
	r.mu.Unlock()
}

// Broadcast delivers payload to every connection subscribed to the chat and
// returns the number of successful sends. Delivery is best-effort per
// connection: a failed send does not abort the rest, and the failed
// connection is unregistered. Iteration happens over a snapshot so concurrent
// register/unregister calls cannot race the loop.
func (r *Registry) Broadcast(chatID string, payload []byte) int {
	r.mu.RLock()
	set := r.chats[chatID]
	conns := make([]Conn, 0, len(set))
	for conn := range set {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, conn := range conns {
		if err := conn.Send(payload); err != nil {
			r.Unregister(chatID, conn)
			continue
		}
		delivered++
	}
	return delivered
}

// Unicast delivers payload to exactly one connection; used for direct
// protocol replies (pong, connected ack, error frames).
func (r *Registry) Unicast(conn Conn, payload []byte) error {
	return conn.Send(payload)
}

// Count reports the number of live subscribers for a chat.
func (r *Registry) Count(chatID string) int {
	r.mu.RLock()
	n := len(r.chats[chatID])
	r.mu.RUnlock()
	return n
}

// Close terminates every tracked connection and clears the registry. Live
// state never survives a process restart, so this is only called on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	var conns []Conn
	for _, set := range r.chats {
		for conn := range set {
			conns = append(conns, conn)
		}
	}
	r.chats = make(map[string]map[Conn]struct{})
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "server shutdown")
	}
}
