package chat

import (
	"strings"
	"time"
)

// MessageType represents the kind of content a message carries.
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeFile   MessageType = "file"
	MessageTypeSystem MessageType = "system"
)

// MessageState tags the lifecycle of a persisted message explicitly instead of
// inferring it from which fields are null. A hard delete removes the row, so
// no "deleted" state is stored.
type MessageState string

const (
	MessageStateActive   MessageState = "active"
	MessageStateRedacted MessageState = "redacted"
)

// MaxContentLength caps message content the same way the HTTP layer does.
const MaxContentLength = 4000

// Attachment references an uploaded file carried by a message.
type Attachment struct {
	ID           string  `json:"id,omitempty"`
	Filename     string  `json:"filename"`
	URL          string  `json:"url"`
	ContentType  string  `json:"content_type"`
	Size         int64   `json:"size"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}

// Message is a single entry in a chat. Content is nil after redaction and for
// system messages; SeenBy only ever grows.
type Message struct {
	ID          string       `json:"id"`
	ChatID      string       `json:"chat_id"`
	SenderID    string       `json:"sender_id"`
	Content     *string      `json:"content"`
	Type        MessageType  `json:"type"`
	State       MessageState `json:"state"`
	Attachments []Attachment `json:"attachments"`
	ReplyToID   *string      `json:"reply_to_id,omitempty"`
	SeenBy      []string     `json:"seen_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Edited      bool         `json:"edited"`
}

// NewMessage validates and normalizes an unpersisted message.
// Non-system messages must carry either content or at least one attachment.
func NewMessage(m Message, now time.Time) (*Message, error) {
	if m.ChatID == "" || m.SenderID == "" {
		return nil, ErrInvalidMessage
	}
	if m.Content != nil {
		trimmed := strings.TrimSpace(*m.Content)
		if trimmed == "" {
			m.Content = nil
		} else if len(trimmed) > MaxContentLength {
			return nil, ErrContentTooLong
		} else {
			m.Content = &trimmed
		}
	}
	if m.Type == "" {
		m.Type = MessageTypeText
	}
	if m.Type != MessageTypeSystem && m.Content == nil && len(m.Attachments) == 0 {
		return nil, ErrEmptyMessage
	}
	m.State = MessageStateActive
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now.UTC()
	}
	m.UpdatedAt = m.CreatedAt
	return &m, nil
}

// SeenByUser tells whether userID has already seen the message.
func (m *Message) SeenByUser(userID string) bool {
	for _, id := range m.SeenBy {
		if id == userID {
			return true
		}
	}
	return false
}
