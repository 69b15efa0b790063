package usecases

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/deskpulse/deskpulse/internal/application/access"
	"github.com/deskpulse/deskpulse/internal/domain/permission"
	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	vo "github.com/deskpulse/deskpulse/internal/domain/ticket/valueobjects"
	"github.com/deskpulse/deskpulse/internal/domain/user"
	uservo "github.com/deskpulse/deskpulse/internal/domain/user/valueobjects"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

const (
	ownerID    = uint(10)
	adminID    = uint(20)
	outsiderID = uint(30)
)

var (
	owner    = authorization.NewPrincipal(ownerID, authorization.RoleUser)
	admin    = authorization.NewPrincipal(adminID, authorization.RoleAdmin)
	outsider = authorization.NewPrincipal(outsiderID, authorization.RoleUser)
)

type mockTicketRepository struct {
	SaveFunc    func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc  func(ctx context.Context, t *ticket.Ticket) error
	DeleteFunc  func(ctx context.Context, ticketID uint) error
	GetByIDFunc func(ctx context.Context, ticketID uint) (*ticket.Ticket, error)
	ListFunc    func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, error)
}

func (m *mockTicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, t)
	}
	return t.SetID(1)
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) Delete(ctx context.Context, ticketID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ticketID)
	}
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

// singleTicketRepo serves t for its own ID and nothing else.
func singleTicketRepo(t *ticket.Ticket) *mockTicketRepository {
	return &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
			if ticketID == t.ID() {
				return t, nil
			}
			return nil, nil
		},
	}
}

type mockCommentRepository struct {
	SaveFunc         func(ctx context.Context, c *ticket.Comment) error
	GetByIDFunc      func(ctx context.Context, commentID uint) (*ticket.Comment, error)
	ListByTicketFunc func(ctx context.Context, ticketID uint) ([]*ticket.Comment, error)
	DeleteFunc       func(ctx context.Context, commentID uint) error
}

func (m *mockCommentRepository) Save(ctx context.Context, c *ticket.Comment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, c)
	}
	return c.SetID(1)
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID uint) (*ticket.Comment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, commentID)
	}
	return nil, nil
}

func (m *mockCommentRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Comment, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, commentID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, commentID)
	}
	return nil
}

// mockUserRepository is backed by an in-memory map keyed by ID.
type mockUserRepository struct {
	users map[uint]*user.User
}

func newMockUserRepository(users ...*user.User) *mockUserRepository {
	m := &mockUserRepository{users: make(map[uint]*user.User, len(users))}
	for _, u := range users {
		m.users[u.ID()] = u
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error { return nil }
func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error { return nil }

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	out := make([]*user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email().String() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := m.GetByEmail(ctx, email)
	return u != nil, nil
}

type mockBlobStore struct {
	PutFunc        func(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGetFunc func(ctx context.Context, key string) (string, error)

	mu      sync.Mutex
	stored  []string
	removed []string
}

func (m *mockBlobStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.PutFunc != nil {
		if err := m.PutFunc(ctx, key, body, size, contentType); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.stored = append(m.stored, key)
	m.mu.Unlock()
	return nil
}

func (m *mockBlobStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	m.removed = append(m.removed, key)
	m.mu.Unlock()
	return nil
}

func (m *mockBlobStore) PresignGet(ctx context.Context, key string) (string, error) {
	if m.PresignGetFunc != nil {
		return m.PresignGetFunc(ctx, key)
	}
	return "https://blobs.example.test/" + key, nil
}

// mockNotifier reports each notification on a channel since they run in goroutines.
type mockNotifier struct {
	assigned      chan uint
	statusChanged chan uint
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{
		assigned:      make(chan uint, 4),
		statusChanged: make(chan uint, 4),
	}
}

func (m *mockNotifier) NotifyAssigned(ctx context.Context, t *ticket.Ticket, assignee *user.User) error {
	m.assigned <- assignee.ID()
	return nil
}

func (m *mockNotifier) NotifyStatusChanged(ctx context.Context, t *ticket.Ticket, owner *user.User) error {
	m.statusChanged <- owner.ID()
	return nil
}

// adminPermissions grants every capability to admins only.
type adminPermissions struct{}

func (adminPermissions) Can(ctx context.Context, p authorization.Principal, resource permission.Resource, action permission.Action) bool {
	return p.IsAdmin()
}

type mockRenderer struct{}

func (mockRenderer) Render(source string) (string, error) {
	return "<p>" + source + "</p>\n", nil
}

type mockTransactor struct {
	calls int
}

func (m *mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func newTestUser(id uint, name, email string, role authorization.UserRole) *user.User {
	addr, _ := uservo.NewEmail(email)
	u, _ := user.ReconstructUser(id, name, addr, "hash", role, time.Now(), time.Now())
	return u
}

func defaultUsers() *mockUserRepository {
	return newMockUserRepository(
		newTestUser(ownerID, "Olivia Owner", "olivia@example.com", authorization.RoleUser),
		newTestUser(adminID, "Adam Admin", "adam@example.com", authorization.RoleAdmin),
		newTestUser(outsiderID, "Oscar Outsider", "oscar@example.com", authorization.RoleUser),
	)
}

// newOpenTicket returns ticket 1 owned by ownerID, optionally assigned.
func newOpenTicket(assignee *uint, attachment *string) *ticket.Ticket {
	t, _ := ticket.ReconstructTicket(1, "Printer on fire", "It is **really** on fire", vo.CategoryTechnical,
		vo.PriorityHigh, vo.StatusOpen, attachment, ownerID, assignee, time.Now(), time.Now())
	return t
}

func guardFor(repo ticket.TicketRepository) *access.Guard {
	return access.NewGuard(repo, logger.NewNopLogger())
}
