package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

func eventFor(ticketID, messageID uint) *chat.MessageEvent {
	return &chat.MessageEvent{
		Event:   chat.EventMessageSent,
		Channel: chat.ChannelName(ticketID),
		Data:    chat.MessageData{ID: messageID, TicketID: ticketID, Message: "hello"},
	}
}

func TestTicketHub_PublishReachesOnlyThatTicket(t *testing.T) {
	hub := NewTicketHub(logger.NewNopLogger())

	a := hub.Register(1, 10)
	b := hub.Register(1, 20)
	other := hub.Register(2, 10)

	assert.Equal(t, 2, hub.Publish(eventFor(1, 5)))

	for _, c := range []*TicketConn{a, b} {
		select {
		case raw := <-c.Send:
			var got chat.MessageEvent
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, uint(5), got.Data.ID)
			assert.Equal(t, "ticket.1", got.Channel)
		default:
			t.Fatalf("connection %s received nothing", c.ID)
		}
	}
	assert.Empty(t, other.Send)
}

func TestTicketHub_FullBufferDropsForThatConnectionOnly(t *testing.T) {
	hub := NewTicketHub(logger.NewNopLogger())
	slow := hub.Register(1, 10)
	fast := hub.Register(1, 20)

	for i := 0; i < ticketConnSendBuffer; i++ {
		require.True(t, slow.TrySend([]byte("x")))
	}

	assert.Equal(t, 1, hub.Publish(eventFor(1, 9)))
	assert.Len(t, fast.Send, 1)
	assert.Len(t, slow.Send, ticketConnSendBuffer)
}

func TestTicketHub_Unregister(t *testing.T) {
	hub := NewTicketHub(logger.NewNopLogger())
	c := hub.Register(3, 10)
	require.Equal(t, 1, hub.ConnectionCount(3))

	hub.Unregister(c)
	hub.Unregister(c)

	assert.Equal(t, 0, hub.ConnectionCount(3))
	assert.False(t, c.TrySend([]byte("late")))
	assert.Equal(t, 0, hub.Publish(eventFor(3, 1)))
}

func TestTicketHub_Shutdown(t *testing.T) {
	hub := NewTicketHub(logger.NewNopLogger())
	c := hub.Register(1, 10)

	hub.Shutdown()
	hub.Shutdown()

	_, open := <-c.Send
	assert.False(t, open)
	assert.Nil(t, hub.Register(1, 10))
}

type fakeSource struct {
	events []*chat.MessageEvent
}

func (s *fakeSource) Subscribe(ctx context.Context, handler func(event *chat.MessageEvent)) error {
	for _, e := range s.events {
		handler(e)
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestTicketHub_RunRelaysSourceEvents(t *testing.T) {
	hub := NewTicketHub(logger.NewNopLogger())
	c := hub.Register(4, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := hub.Run(ctx, &fakeSource{events: []*chat.MessageEvent{eventFor(4, 1), eventFor(4, 2), eventFor(5, 3)}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, c.Send, 2)
}
