package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkCall struct {
	ticketID uint
	cursor   uint
}

// fakeChecker replays scripted results in order. Once exhausted it returns an
// empty delta.
type fakeChecker struct {
	mu      sync.Mutex
	results []*CheckNewResult
	errs    []error
	calls   []checkCall
	// block, when set, is waited on before returning.
	block chan struct{}
}

func (f *fakeChecker) CheckNew(_ context.Context, ticketID, lastMessageID uint) (*CheckNewResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, checkCall{ticketID: ticketID, cursor: lastMessageID})
	i := len(f.calls) - 1
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return &CheckNewResult{LastMessageID: lastMessageID}, nil
}

func (f *fakeChecker) cursors() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.cursor)
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewPoller_SeedSetsCursor(t *testing.T) {
	p := NewPoller(&fakeChecker{}, 1, []Message{{ID: 3}, {ID: 8}, {ID: 8}, {ID: 5}})

	assert.Equal(t, uint(8), p.Cursor())
	assert.Len(t, p.Messages(), 3)
}

func TestPoller_Poll(t *testing.T) {
	checker := &fakeChecker{
		results: []*CheckNewResult{
			{Messages: []Message{{ID: 4}, {ID: 5}}, LastMessageID: 5},
			{Messages: []Message{{ID: 5}, {ID: 6}}, LastMessageID: 6},
		},
	}

	var delivered [][]Message
	p := NewPoller(checker, 9, []Message{{ID: 3}},
		WithLogger(quietLogger()),
		WithOnMessages(func(m []Message) { delivered = append(delivered, m) }),
	)

	p.Poll(context.Background())
	p.Poll(context.Background())
	p.Poll(context.Background())

	assert.Equal(t, []uint{3, 5, 6}, checker.cursors())
	assert.Equal(t, uint(6), p.Cursor())

	require.Len(t, delivered, 2)
	assert.Equal(t, []Message{{ID: 4}, {ID: 5}}, delivered[0])
	assert.Equal(t, []Message{{ID: 6}}, delivered[1])
	assert.Len(t, p.Messages(), 4)
}

func TestPoller_PollErrorIsSwallowed(t *testing.T) {
	checker := &fakeChecker{
		errs:    []error{errors.New("connection refused")},
		results: []*CheckNewResult{nil, {Messages: []Message{{ID: 2}}, LastMessageID: 2}},
	}

	called := 0
	p := NewPoller(checker, 1, nil,
		WithLogger(quietLogger()),
		WithOnMessages(func([]Message) { called++ }),
	)

	p.Poll(context.Background())
	assert.Equal(t, uint(0), p.Cursor())
	assert.Zero(t, called)

	p.Poll(context.Background())
	assert.Equal(t, uint(2), p.Cursor())
	assert.Equal(t, 1, called)
	assert.Equal(t, []uint{0, 0}, checker.cursors())
}

func TestPoller_AddKeepsCursorSoEarlierMessagesArrive(t *testing.T) {
	// The other participant's message 9 was stored just before our own 10.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "8", r.URL.Query().Get("last_message_id"))
		_, _ = w.Write([]byte(`{"messages":[{"id":9,"message":"from admin"},{"id":10,"message":"mine"}],"last_message_id":10}`))
	})

	var delivered []Message
	p := NewPoller(c, 7, []Message{{ID: 8}},
		WithLogger(quietLogger()),
		WithOnMessages(func(m []Message) { delivered = append(delivered, m...) }),
	)

	added := p.Add(Message{ID: 10, Message: "mine"})
	require.Len(t, added, 1)
	assert.Equal(t, uint(8), p.Cursor())

	p.Poll(context.Background())

	require.Len(t, delivered, 1)
	assert.Equal(t, uint(9), delivered[0].ID)
	assert.Equal(t, []uint{8, 9, 10}, sortedIDs(p.Messages()))
	assert.Equal(t, uint(10), p.Cursor())
}

func TestPoller_AddThenEmptyPollKeepsOwnMessage(t *testing.T) {
	checker := &fakeChecker{}
	p := NewPoller(checker, 1, []Message{{ID: 9}}, WithLogger(quietLogger()))

	p.Add(Message{ID: 10})
	p.Poll(context.Background())

	assert.Equal(t, []uint{9}, checker.cursors())
	assert.Len(t, p.Messages(), 2)
}

func TestPoller_ResultAfterCloseDiscarded(t *testing.T) {
	checker := &fakeChecker{
		block:   make(chan struct{}),
		results: []*CheckNewResult{{Messages: []Message{{ID: 1}}, LastMessageID: 1}},
	}

	called := false
	p := NewPoller(checker, 1, nil,
		WithLogger(quietLogger()),
		WithOnMessages(func([]Message) { called = true }),
	)

	done := make(chan struct{})
	go func() {
		p.Poll(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return len(checker.cursors()) == 1 }, time.Second, 5*time.Millisecond)
	p.Close()
	close(checker.block)
	<-done

	assert.False(t, called)
	assert.Empty(t, p.Messages())
	assert.Equal(t, uint(0), p.Cursor())
}

func TestPoller_Run(t *testing.T) {
	checker := &fakeChecker{
		results: []*CheckNewResult{{Messages: []Message{{ID: 1}}, LastMessageID: 1}},
	}

	got := make(chan []Message, 1)
	p := NewPoller(checker, 1, nil,
		WithInterval(10*time.Millisecond),
		WithLogger(quietLogger()),
		WithOnMessages(func(m []Message) { got <- m }),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(context.Background()) }()

	select {
	case m := <-got:
		assert.Equal(t, uint(1), m[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not deliver messages")
	}

	p.Close()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestPoller_RunStopsOnContextCancel(t *testing.T) {
	p := NewPoller(&fakeChecker{}, 1, nil, WithInterval(10*time.Millisecond), WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func sortedIDs(msgs []Message) []uint {
	out := ids(msgs)
	slices.Sort(out)
	return out
}
