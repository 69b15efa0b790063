package services

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

const ticketConnSendBuffer = 256

// TicketConn is one WebSocket subscriber on a ticket's chat.
type TicketConn struct {
	ID          string
	TicketID    uint
	UserID      uint
	Send        chan []byte
	ConnectedAt time.Time
	closed      atomic.Bool
}

// TrySend queues data without blocking. It returns false when the
// connection is closed or its buffer is full.
func (c *TicketConn) TrySend(data []byte) (sent bool) {
	if c.closed.Load() {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			sent = false
		}
	}()

	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Close marks the connection as closed and closes the send channel.
func (c *TicketConn) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.Send)
	}
}

// ChatEventSource feeds broadcast chat events to the hub.
type ChatEventSource interface {
	Subscribe(ctx context.Context, handler func(event *chat.MessageEvent)) error
}

// TicketHub fans chat events out to the WebSocket connections of each ticket.
type TicketHub struct {
	// map[ticketID]map[connID]*TicketConn
	conns   map[uint]map[string]*TicketConn
	connsMu sync.RWMutex

	shutdown atomic.Bool
	logger   logger.Interface
}

func NewTicketHub(log logger.Interface) *TicketHub {
	return &TicketHub{
		conns:  make(map[uint]map[string]*TicketConn),
		logger: log,
	}
}

// Register adds a connection for userID on ticketID. It returns nil after Shutdown.
func (h *TicketHub) Register(ticketID, userID uint) *TicketConn {
	if h.shutdown.Load() {
		return nil
	}

	conn := &TicketConn{
		ID:          uuid.NewString(),
		TicketID:    ticketID,
		UserID:      userID,
		Send:        make(chan []byte, ticketConnSendBuffer),
		ConnectedAt: time.Now(),
	}

	h.connsMu.Lock()
	if h.conns[ticketID] == nil {
		h.conns[ticketID] = make(map[string]*TicketConn)
	}
	h.conns[ticketID][conn.ID] = conn
	h.connsMu.Unlock()

	h.logger.Infow("chat websocket registered",
		"conn_id", conn.ID,
		"ticket_id", ticketID,
		"user_id", userID,
	)
	return conn
}

// Unregister removes and closes the connection. Safe to call twice.
func (h *TicketHub) Unregister(conn *TicketConn) {
	h.connsMu.Lock()
	if byID, ok := h.conns[conn.TicketID]; ok {
		delete(byID, conn.ID)
		if len(byID) == 0 {
			delete(h.conns, conn.TicketID)
		}
	}
	h.connsMu.Unlock()

	conn.Close()

	h.logger.Infow("chat websocket unregistered",
		"conn_id", conn.ID,
		"ticket_id", conn.TicketID,
		"duration", time.Since(conn.ConnectedAt).String(),
	)
}

// Publish sends the event to every connection on its ticket and returns how
// many accepted it. A connection with a full buffer misses the event.
func (h *TicketHub) Publish(event *chat.MessageEvent) int {
	h.connsMu.RLock()
	targets := make([]*TicketConn, 0, len(h.conns[event.Data.TicketID]))
	for _, c := range h.conns[event.Data.TicketID] {
		targets = append(targets, c)
	}
	h.connsMu.RUnlock()

	if len(targets) == 0 {
		return 0
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("failed to marshal chat event", "error", err)
		return 0
	}

	delivered := 0
	for _, c := range targets {
		if c.TrySend(data) {
			delivered++
			continue
		}
		h.logger.Warnw("chat websocket buffer full, event dropped",
			"conn_id", c.ID,
			"ticket_id", c.TicketID,
			"message_id", event.Data.ID,
		)
	}
	return delivered
}

// Run relays events from source until ctx is done.
func (h *TicketHub) Run(ctx context.Context, source ChatEventSource) error {
	return source.Subscribe(ctx, func(event *chat.MessageEvent) {
		h.Publish(event)
	})
}

// ConnectionCount returns the open connections on a ticket.
func (h *TicketHub) ConnectionCount(ticketID uint) int {
	h.connsMu.RLock()
	defer h.connsMu.RUnlock()
	return len(h.conns[ticketID])
}

// Shutdown closes every connection. Safe to call multiple times.
func (h *TicketHub) Shutdown() {
	if !h.shutdown.CompareAndSwap(false, true) {
		return
	}

	h.connsMu.Lock()
	for _, byID := range h.conns {
		for _, c := range byID {
			c.Close()
		}
	}
	h.conns = make(map[uint]map[string]*TicketConn)
	h.connsMu.Unlock()

	h.logger.Infow("ticket hub shut down")
}
