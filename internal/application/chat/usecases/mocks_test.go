package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/deskpulse/deskpulse/internal/application/access"
	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	vo "github.com/deskpulse/deskpulse/internal/domain/ticket/valueobjects"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

const (
	testTicketID   = uint(1)
	testOwnerID    = uint(10)
	testAssigneeID = uint(20)
	testOutsiderID = uint(30)
)

var (
	ownerPrincipal    = authorization.NewPrincipal(testOwnerID, authorization.RoleUser)
	assigneePrincipal = authorization.NewPrincipal(testAssigneeID, authorization.RoleAdmin)
	outsiderPrincipal = authorization.NewPrincipal(testOutsiderID, authorization.RoleUser)
)

type mockTicketLoader struct {
	GetByIDFunc func(ctx context.Context, ticketID uint) (*ticket.Ticket, error)
}

func (m *mockTicketLoader) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return nil, nil
}

// newTestGuard guards a single ticket owned by testOwnerID and assigned to testAssigneeID.
func newTestGuard() *access.Guard {
	assignee := testAssigneeID
	t, _ := ticket.ReconstructTicket(testTicketID, "Broken login", "Cannot log in", vo.CategoryTechnical,
		vo.PriorityHigh, vo.StatusOpen, nil, testOwnerID, &assignee, time.Now(), time.Now())

	return access.NewGuard(&mockTicketLoader{
		GetByIDFunc: func(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
			if ticketID == testTicketID {
				return t, nil
			}
			return nil, nil
		},
	}, logger.NewNopLogger())
}

type mockMessageRepository struct {
	ListByTicketFunc       func(ctx context.Context, ticketID uint) ([]*chat.Message, error)
	AppendFunc             func(ctx context.Context, msg *chat.Message) error
	ListSinceFunc          func(ctx context.Context, ticketID uint, cursor uint) ([]*chat.Message, error)
	MarkReadForViewerFunc  func(ctx context.Context, ticketID uint, viewerID uint) (int64, error)
	CountUnreadForUserFunc func(ctx context.Context, userID uint) (int64, error)

	markReadCalls int
}

func (m *mockMessageRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*chat.Message, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockMessageRepository) Append(ctx context.Context, msg *chat.Message) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, msg)
	}
	return nil
}

func (m *mockMessageRepository) ListSince(ctx context.Context, ticketID uint, cursor uint) ([]*chat.Message, error) {
	if m.ListSinceFunc != nil {
		return m.ListSinceFunc(ctx, ticketID, cursor)
	}
	return nil, nil
}

func (m *mockMessageRepository) MarkReadForViewer(ctx context.Context, ticketID uint, viewerID uint) (int64, error) {
	m.markReadCalls++
	if m.MarkReadForViewerFunc != nil {
		return m.MarkReadForViewerFunc(ctx, ticketID, viewerID)
	}
	return 0, nil
}

func (m *mockMessageRepository) CountUnreadForUser(ctx context.Context, userID uint) (int64, error) {
	if m.CountUnreadForUserFunc != nil {
		return m.CountUnreadForUserFunc(ctx, userID)
	}
	return 0, nil
}

// mockTransactor runs fn inline, mimicking rollback by returning its error.
type mockTransactor struct {
	calls int
}

func (m *mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockBroadcaster struct {
	BroadcastFunc func(ctx context.Context, event *chat.MessageEvent) error
	push          bool

	mu     sync.Mutex
	events []*chat.MessageEvent
}

func (m *mockBroadcaster) Broadcast(ctx context.Context, event *chat.MessageEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.BroadcastFunc != nil {
		return m.BroadcastFunc(ctx, event)
	}
	return nil
}

func (m *mockBroadcaster) Driver() string {
	return "mock"
}

func (m *mockBroadcaster) SupportsPush() bool {
	return m.push
}

type mockRateLimiter struct {
	AllowFunc func(ctx context.Context, key string) (bool, error)
}

func (m *mockRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key)
	}
	return true, nil
}

type mockMetrics struct {
	sent             int
	polls            []int
	broadcastFailure []string
}

func (m *mockMetrics) MessageSent() {
	m.sent++
}

func (m *mockMetrics) PollCompleted(delivered int) {
	m.polls = append(m.polls, delivered)
}

func (m *mockMetrics) BroadcastFailed(driver string) {
	m.broadcastFailure = append(m.broadcastFailure, driver)
}

type mockSigner struct{}

func (mockSigner) Sign(socketID, channelName string) string {
	return "key:" + socketID + ":" + channelName
}

type mockLogger struct {
	WarnwFunc  func(msg string, keysAndValues ...interface{})
	ErrorwFunc func(msg string, keysAndValues ...interface{})
}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any)  {}
func (m *mockLogger) Warn(msg string, args ...any)  {}
func (m *mockLogger) Error(msg string, args ...any) {}
func (m *mockLogger) Fatal(msg string, args ...any) {}

func (m *mockLogger) With(args ...any) logger.Interface {
	return m
}

func (m *mockLogger) Named(name string) logger.Interface {
	return m
}

func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})  {}

func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{}) {
	if m.WarnwFunc != nil {
		m.WarnwFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {
	if m.ErrorwFunc != nil {
		m.ErrorwFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

func newStoredMessage(id, senderID uint, text string, isRead bool) *chat.Message {
	sender := &chat.Sender{ID: senderID, Name: "user", Role: authorization.RoleUser}
	m, _ := chat.ReconstructMessage(id, testTicketID, senderID, text, isRead, time.Now(), time.Now(), sender)
	return m
}
