package chat

import (
	"encoding/json"
	"fmt"
)

// Event is a server-to-client live-protocol frame. Each variant carries a
// strongly-typed payload; EncodeEvent produces the wire envelope
// {"event": <name>, "data": <payload>} (or {"event","message"} for errors).
type Event interface {
	EventName() string
}

// ConnectedEvent acknowledges a successful subscription.
type ConnectedEvent struct {
	ChatID string `json:"chat_id"`
}

func (ConnectedEvent) EventName() string { return "connected" }

// MessageNewEvent carries a freshly persisted message.
type MessageNewEvent struct {
	Message
}

func (MessageNewEvent) EventName() string { return "message:new" }

// MessageUpdatedEvent carries the post-edit state of a message.
type MessageUpdatedEvent struct {
	Message
}

func (MessageUpdatedEvent) EventName() string { return "message:updated" }

// MessageDeletedEvent flags whether the deletion was a hard delete for
// everyone or a sender-side redaction.
type MessageDeletedEvent struct {
	ID          string `json:"id"`
	ForEveryone bool   `json:"for_everyone"`
}

func (MessageDeletedEvent) EventName() string { return "message:deleted" }

// MessageSeenEvent propagates a single seen-state change.
type MessageSeenEvent struct {
	UserID    string `json:"user_id"`
	MessageID string `json:"message_id"`
}

func (MessageSeenEvent) EventName() string { return "message:seen" }

// MessageSeenAllEvent propagates a full catch-up for one user.
type MessageSeenAllEvent struct {
	UserID string `json:"user_id"`
}

func (MessageSeenAllEvent) EventName() string { return "message:seen_all" }

// TypingEvent is broadcast to the whole chat, sender included, and never
// persisted.
type TypingEvent struct {
	UserID   string `json:"user_id"`
	IsTyping bool   `json:"is_typing"`
}

func (TypingEvent) EventName() string { return "typing" }

// PongEvent replies to a client ping; it carries no payload.
type PongEvent struct{}

func (PongEvent) EventName() string { return "pong" }

// ErrorEvent is unicast to the offending connection; the connection stays
// open.
type ErrorEvent struct {
	Message string `json:"-"`
}

func (ErrorEvent) EventName() string { return "error" }

type eventEnvelope struct {
	Event   string `json:"event"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// EncodeEvent marshals an event into its wire envelope.
func EncodeEvent(e Event) ([]byte, error) {
	env := eventEnvelope{Event: e.EventName()}
	switch v := e.(type) {
	case ErrorEvent:
		env.Message = v.Message
	case PongEvent:
		// no payload
	default:
		env.Data = e
	}
	return json.Marshal(env)
}

// ClientEvent is a client-to-server live-protocol frame, decoded and
// validated at the connection boundary rather than trusted downstream.
type ClientEvent interface {
	clientEvent()
}

// PingCommand requests a pong reply to the sender only.
type PingCommand struct{}

func (PingCommand) clientEvent() {}

// TypingCommand requests a chat-wide typing broadcast.
type TypingCommand struct {
	IsTyping bool
}

func (TypingCommand) clientEvent() {}

// SeenCommand marks one message (or, with a nil MessageID, every message in
// the chat) as seen by the connection's user.
type SeenCommand struct {
	MessageID *string
}

func (SeenCommand) clientEvent() {}

type clientEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// DecodeClientEvent parses an inbound frame into its tagged variant.
// Unrecognized event names yield ErrUnknownEvent; the caller replies with an
// error frame and keeps the connection open.
func DecodeClientEvent(payload []byte) (ClientEvent, error) {
	var env clientEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownEvent, err)
	}
	switch env.Event {
	case "ping":
		return PingCommand{}, nil
	case "typing":
		cmd := TypingCommand{IsTyping: true}
		if len(env.Data) > 0 {
			var data struct {
				IsTyping *bool `json:"is_typing"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnknownEvent, err)
			}
			if data.IsTyping != nil {
				cmd.IsTyping = *data.IsTyping
			}
		}
		return cmd, nil
	case "seen":
		var cmd SeenCommand
		if len(env.Data) > 0 {
			var data struct {
				MessageID *string `json:"message_id"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnknownEvent, err)
			}
			cmd.MessageID = data.MessageID
		}
		return cmd, nil
	default:
		return nil, ErrUnknownEvent
	}
}
