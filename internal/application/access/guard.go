// Package access gates every ticket-scoped operation.
package access

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

// TicketLoader is the slice of the ticket repository the guard needs.
type TicketLoader interface {
	GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error)
}

// Guard admits any admin, the ticket owner or the assigned admin.
// It holds no state and is evaluated on every call.
type Guard struct {
	tickets TicketLoader
	logger  logger.Interface
}

func NewGuard(tickets TicketLoader, logger logger.Interface) *Guard {
	return &Guard{
		tickets: tickets,
		logger:  logger,
	}
}

// Authorize loads the ticket and checks the principal against it.
// It returns a NotFound AppError for a missing ticket and a Forbidden
// AppError, with a message that reveals nothing about the ticket, on denial.
func (g *Guard) Authorize(ctx context.Context, p authorization.Principal, ticketID uint) (*ticket.Ticket, error) {
	t, err := g.tickets.GetByID(ctx, ticketID)
	if err != nil {
		g.logger.Errorw("failed to load ticket for access check", "ticket_id", ticketID, "error", err)
		return nil, errors.NewInternalError("failed to load ticket", err.Error())
	}
	if t == nil {
		return nil, errors.NewNotFoundError(constants.ErrMsgTicketNotFound)
	}

	if !t.CanBeAccessedBy(p) {
		g.logger.Warnw("ticket access denied", "ticket_id", ticketID, "user_id", p.UserID)
		return nil, errors.NewForbiddenError(constants.ErrMsgTicketAccessDenied)
	}

	return t, nil
}
