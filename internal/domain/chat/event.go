package chat

import (
	"context"
	"time"
)

// TimestampLayout is the wire format of message timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// SenderData is the public sender profile on the wire.
type SenderData struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// MessageData is the wire representation of a message, shared by HTTP
// responses and broadcast events.
type MessageData struct {
	ID        uint       `json:"id"`
	Message   string     `json:"message"`
	User      SenderData `json:"user"`
	TicketID  uint       `json:"ticket_id"`
	IsRead    bool       `json:"is_read"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

// MessageEvent is what a Broadcaster publishes after a message is committed.
type MessageEvent struct {
	Event   string      `json:"event"`
	Channel string      `json:"channel"`
	Data    MessageData `json:"data"`
}

func ToMessageData(m *Message) MessageData {
	data := MessageData{
		ID:        m.id,
		Message:   m.text,
		TicketID:  m.ticketID,
		IsRead:    m.isRead,
		CreatedAt: formatTimestamp(m.createdAt),
		UpdatedAt: formatTimestamp(m.updatedAt),
		User:      SenderData{ID: m.userID},
	}
	if m.sender != nil {
		data.User = SenderData{ID: m.sender.ID, Name: m.sender.Name, Role: m.sender.Role.String()}
	}
	return data
}

func NewMessageEvent(m *Message) *MessageEvent {
	return &MessageEvent{
		Event:   EventMessageSent,
		Channel: ChannelName(m.ticketID),
		Data:    ToMessageData(m),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Broadcaster fans a committed message out to push subscribers.
// Broadcast failures never undo the send.
type Broadcaster interface {
	Broadcast(ctx context.Context, event *MessageEvent) error
	// Driver names the transport for logs and metrics.
	Driver() string
	// SupportsPush reports whether clients can subscribe instead of polling.
	SupportsPush() bool
}
