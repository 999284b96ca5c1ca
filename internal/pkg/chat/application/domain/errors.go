package chat

import "errors"

// Domain-level errors for chat behaviors. Controllers map these to HTTP
// statuses; the live session handler maps them to close codes or error frames.
var (
	ErrNotMember       = errors.New("chat: user is not a member of this chat")
	ErrNotSender       = errors.New("chat: user is not the sender of this message")
	ErrNotAdmin        = errors.New("chat: user is not an admin of this chat")
	ErrChatNotFound    = errors.New("chat: chat not found")
	ErrMessageNotFound = errors.New("chat: message not found")
	ErrInvalidMessage  = errors.New("chat: chat_id and sender_id are required")
	ErrEmptyMessage    = errors.New("chat: empty message (no content or attachment)")
	ErrContentTooLong  = errors.New("chat: message content exceeds maximum length")
	ErrDirectChatFixed = errors.New("chat: direct chats cannot be updated")
	ErrUnknownEvent    = errors.New("chat: unknown event")
)
