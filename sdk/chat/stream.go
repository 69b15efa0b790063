package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// EventMessageSent is the only push event the server emits.
const EventMessageSent = "chat.message"

// Stream connects to the ticket's WebSocket and calls fn for every pushed
// message until ctx is done or the server closes the connection. It is only
// available when the server runs a push delivery driver.
func (c *Client) Stream(ctx context.Context, ticketID uint, fn func(Message)) error {
	target, err := c.wsURL(ticketID)
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.httpClient.Timeout}
	conn, resp, err := dialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("dial websocket: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read websocket: %w", err)
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil || event.Event != EventMessageSent {
			continue
		}
		fn(event.Data)
	}
}
