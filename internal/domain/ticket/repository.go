package ticket

import (
	"context"

	vo "github.com/deskpulse/deskpulse/internal/domain/ticket/valueobjects"
)

// TicketRepository persists tickets. GetByID returns (nil, nil) when missing.
type TicketRepository interface {
	Save(ctx context.Context, ticket *Ticket) error
	Update(ctx context.Context, ticket *Ticket) error
	// Delete removes the ticket together with its comments and chat messages.
	Delete(ctx context.Context, ticketID uint) error
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, error)
}

// TicketFilter narrows List. ParticipantID restricts results to tickets the
// user owns or is assigned to; nil lists every ticket.
type TicketFilter struct {
	Status        *vo.TicketStatus
	Priority      *vo.Priority
	Category      *vo.Category
	ParticipantID *uint
}

// CommentRepository persists comments. GetByID returns (nil, nil) when missing.
type CommentRepository interface {
	Save(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, commentID uint) (*Comment, error)
	ListByTicket(ctx context.Context, ticketID uint) ([]*Comment, error)
	Delete(ctx context.Context, commentID uint) error
}
