package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval is how often a Poller asks for new messages.
const DefaultPollInterval = 2 * time.Second

// NewMessagesChecker is the part of Client a Poller uses.
type NewMessagesChecker interface {
	CheckNew(ctx context.Context, ticketID, lastMessageID uint) (*CheckNewResult, error)
}

// Poller keeps one ticket view's message list current by polling. Each view
// owns its Poller and cursor; views never share state.
type Poller struct {
	checker    NewMessagesChecker
	ticketID   uint
	interval   time.Duration
	logger     *slog.Logger
	onMessages func([]Message)

	mu       sync.Mutex
	messages []Message
	cursor   uint
	closed   bool

	done      chan struct{}
	closeOnce sync.Once
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval overrides DefaultPollInterval.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the logger poll failures are written to.
func WithLogger(l *slog.Logger) PollerOption {
	return func(p *Poller) {
		p.logger = l
	}
}

// WithOnMessages registers a callback receiving only newly seen messages.
func WithOnMessages(fn func([]Message)) PollerOption {
	return func(p *Poller) {
		p.onMessages = fn
	}
}

// NewPoller creates a Poller for ticketID. seed holds messages the view has
// already shown; the cursor starts at their highest ID.
func NewPoller(checker NewMessagesChecker, ticketID uint, seed []Message, opts ...PollerOption) *Poller {
	merged, _ := Merge(nil, seed)
	p := &Poller{
		checker:  checker,
		ticketID: ticketID,
		interval: DefaultPollInterval,
		logger:   slog.Default(),
		messages: merged,
		cursor:   maxID(0, merged),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls on a fixed interval until ctx is done or Close is called.
// Poll failures are logged and the loop keeps going.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.done:
			return nil
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll runs one poll cycle. A result arriving after Close is discarded.
func (p *Poller) Poll(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	cursor := p.cursor
	p.mu.Unlock()

	result, err := p.checker.CheckNew(ctx, p.ticketID, cursor)
	if err != nil {
		p.logger.Warn("chat poll failed", "ticket_id", p.ticketID, "cursor", cursor, "error", err)
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	var added []Message
	p.messages, added = Merge(p.messages, result.Messages)
	p.cursor = maxID(max(p.cursor, result.LastMessageID), added)
	onMessages := p.onMessages
	p.mu.Unlock()

	if len(added) > 0 && onMessages != nil {
		onMessages(added)
	}
}

// Add records messages obtained elsewhere, such as the result of Send or a
// push event, so the next poll does not report them again. The cursor is left
// alone: a lower ID from another participant may not have been polled yet.
func (p *Poller) Add(msgs ...Message) []Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	var added []Message
	p.messages, added = Merge(p.messages, msgs)
	return added
}

// Messages returns a copy of every message seen so far.
func (p *Poller) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.messages...)
}

// Cursor returns the highest message ID reported by the server.
func (p *Poller) Cursor() uint {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Close stops the loop. An in-flight poll completes but its result is dropped.
func (p *Poller) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.done)
	})
}
