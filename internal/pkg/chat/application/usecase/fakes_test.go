package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	cacheport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/cache/port"
	qport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/queue/port"
	chat "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/domain"
)

// memChatRepo is an in-memory ChatRepository for use case tests. It mirrors
// the store contract: lookups return (nil, nil) on no match.
type memChatRepo struct {
	mu    sync.Mutex
	seq   int
	chats map[string]chat.Chat
	fail  error
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{chats: make(map[string]chat.Chat)}
}

func (r *memChatRepo) CreateChat(_ context.Context, c chat.Chat) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return "", r.fail
	}
	r.seq++
	c.ID = fmt.Sprintf("chat-%d", r.seq)
	r.chats[c.ID] = c
	return c.ID, nil
}

func (r *memChatRepo) GetChat(_ context.Context, chatID string) (*chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	c, ok := r.chats[chatID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memChatRepo) FindDirectChat(_ context.Context, userA, userB string) (*chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	for _, c := range r.chats {
		if c.Type != chat.ChatTypeDirect || len(c.MemberIDs) != 2 {
			continue
		}
		if c.HasMember(userA) && c.HasMember(userB) {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memChatRepo) UpdateChat(_ context.Context, c chat.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	if _, ok := r.chats[c.ID]; !ok {
		return errors.New("chat not found")
	}
	r.chats[c.ID] = c
	return nil
}

func (r *memChatRepo) TouchChat(_ context.Context, chatID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	c, ok := r.chats[chatID]
	if !ok {
		return errors.New("chat not found")
	}
	c.UpdatedAt = at
	r.chats[chatID] = c
	return nil
}

func (r *memChatRepo) ListUserChats(_ context.Context, userID string, limit int) ([]chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	var out []chat.Chat
	for _, c := range r.chats {
		if c.HasMember(userID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memMessageRepo is an in-memory MessageRepository.
type memMessageRepo struct {
	mu       sync.Mutex
	seq      int
	messages map[string]chat.Message
	fail     error
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{messages: make(map[string]chat.Message)}
}

func (r *memMessageRepo) CreateMessage(_ context.Context, m chat.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return "", r.fail
	}
	r.seq++
	m.ID = fmt.Sprintf("msg-%d", r.seq)
	r.messages[m.ID] = m
	return m.ID, nil
}

func (r *memMessageRepo) GetMessage(_ context.Context, messageID string) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	m, ok := r.messages[messageID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *memMessageRepo) UpdateContent(_ context.Context, messageID string, content string, at time.Time) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	m, ok := r.messages[messageID]
	if !ok {
		return nil, nil
	}
	m.Content = &content
	m.Edited = true
	m.UpdatedAt = at
	r.messages[messageID] = m
	return &m, nil
}

func (r *memMessageRepo) DeleteMessage(_ context.Context, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	delete(r.messages, messageID)
	return nil
}

func (r *memMessageRepo) RedactMessage(_ context.Context, messageID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	m, ok := r.messages[messageID]
	if !ok {
		return errors.New("message not found")
	}
	m.Content = nil
	m.Attachments = nil
	m.Type = chat.MessageTypeSystem
	m.State = chat.MessageStateRedacted
	m.UpdatedAt = at
	r.messages[messageID] = m
	return nil
}

func (r *memMessageRepo) ListMessages(_ context.Context, chatID string, limit int, before *time.Time) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	var out []chat.Message
	for _, m := range r.messages {
		if m.ChatID != chatID {
			continue
		}
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMessageRepo) LastMessage(_ context.Context, chatID string) (*chat.Message, error) {
	msgs, err := r.ListMessages(context.Background(), chatID, 1, nil)
	if err != nil || len(msgs) == 0 {
		return nil, err
	}
	return &msgs[0], nil
}

func (r *memMessageRepo) MarkSeen(_ context.Context, messageID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	m, ok := r.messages[messageID]
	if !ok {
		return nil
	}
	if !m.SeenByUser(userID) {
		m.SeenBy = append(m.SeenBy, userID)
		r.messages[messageID] = m
	}
	return nil
}

func (r *memMessageRepo) MarkAllSeen(_ context.Context, chatID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	for id, m := range r.messages {
		if m.ChatID == chatID && !m.SeenByUser(userID) {
			m.SeenBy = append(m.SeenBy, userID)
			r.messages[id] = m
		}
	}
	return nil
}

func (r *memMessageRepo) CountUnseen(_ context.Context, chatID, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return 0, r.fail
	}
	n := 0
	for _, m := range r.messages {
		if m.ChatID == chatID && !m.SeenByUser(userID) {
			n++
		}
	}
	return n, nil
}

// memNotificationRepo records created notifications.
type memNotificationRepo struct {
	mu            sync.Mutex
	notifications []chat.Notification
}

func (r *memNotificationRepo) CreateNotification(_ context.Context, n chat.Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return fmt.Sprintf("notif-%d", len(r.notifications)), nil
}

// memCache implements the cache port over a plain map, ignoring TTLs.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache { return &memCache{data: make(map[string]string)} }

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *memCache) Ping(context.Context) error { return nil }
func (c *memCache) Close() error               { return nil }

// memQueue records enqueued tasks.
type memQueue struct {
	mu    sync.Mutex
	tasks []qport.Task
	opts  []qport.EnqueueOption
}

func (q *memQueue) Enqueue(_ context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	if len(opts) > 0 {
		q.opts = append(q.opts, opts[0])
	} else {
		q.opts = append(q.opts, qport.EnqueueOption{})
	}
	return fmt.Sprintf("task-%d", len(q.tasks)), nil
}

func (q *memQueue) Close() error { return nil }

// memBroadcaster records every broadcast frame per chat.
type memBroadcaster struct {
	mu     sync.Mutex
	frames map[string][][]byte
}

func newMemBroadcaster() *memBroadcaster {
	return &memBroadcaster{frames: make(map[string][][]byte)}
}

func (b *memBroadcaster) Broadcast(chatID string, payload []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames[chatID] = append(b.frames[chatID], payload)
	return 1
}

func (b *memBroadcaster) framesFor(chatID string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames[chatID]
}
