package chat

import (
	"fmt"
	"sort"
	"strings"
)

// Session carries the caller's credentials. It is passed to NewClient
// explicitly; nothing is read from process-wide state.
type Session struct {
	Token   string
	IsAdmin bool
}

// Sender identifies who wrote a message.
type Sender struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Message is a chat message as returned by the list, send and poll endpoints
// and carried by push events.
type Message struct {
	ID        uint   `json:"id"`
	Message   string `json:"message"`
	User      Sender `json:"user"`
	TicketID  uint   `json:"ticket_id"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CheckNewResult is the delta returned by a poll.
type CheckNewResult struct {
	Messages      []Message `json:"messages"`
	LastMessageID uint      `json:"last_message_id"`
}

// Event is a push notification received over the ticket WebSocket.
type Event struct {
	Event   string  `json:"event"`
	Channel string  `json:"channel"`
	Data    Message `json:"data"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Errors     map[string][]string
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
	}

	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("api error: status=%d message=%s fields=%s", e.StatusCode, e.Message, strings.Join(fields, ","))
}

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}
