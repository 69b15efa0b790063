package usecases

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/application/access"
	"github.com/deskpulse/deskpulse/internal/application/ticket/dto"
	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	vo "github.com/deskpulse/deskpulse/internal/domain/ticket/valueobjects"
	"github.com/deskpulse/deskpulse/internal/domain/user"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/goroutine"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

type UpdateTicketCommand struct {
	TicketID    uint
	Principal   authorization.Principal
	Subject     *string
	Description *string
	Category    *string
	Priority    *string
	Status      *string
}

type UpdateTicketUseCase struct {
	guard      *access.Guard
	ticketRepo ticket.TicketRepository
	userRepo   user.Repository
	notifier   Notifier
	logger     logger.Interface
}

func NewUpdateTicketUseCase(
	guard *access.Guard,
	ticketRepo ticket.TicketRepository,
	userRepo user.Repository,
	notifier Notifier,
	logger logger.Interface,
) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{
		guard:      guard,
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *UpdateTicketUseCase) Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing update ticket use case", "ticket_id", cmd.TicketID, "user_id", cmd.Principal.UserID)

	t, err := uc.guard.Authorize(ctx, cmd.Principal, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	statusChanged, err := t.Apply(toChanges(cmd))
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update ticket", err.Error())
	}

	users, err := loadUsers(ctx, uc.userRepo, ticketUserIDs(t))
	if err != nil {
		uc.logger.Warnw("failed to load ticket users", "ticket_id", t.ID(), "error", err)
	}

	if statusChanged && cmd.Principal.UserID != t.UserID() {
		uc.notifyOwner(t, users[t.UserID()])
	}

	uc.logger.Infow("ticket updated successfully", "ticket_id", t.ID(), "status", t.Status())
	return dto.ToTicketDTO(t, users), nil
}

func (uc *UpdateTicketUseCase) notifyOwner(t *ticket.Ticket, owner *user.User) {
	if uc.notifier == nil || owner == nil {
		return
	}
	goroutine.SafeGo(uc.logger, "ticket-status-notification", func() {
		if err := uc.notifier.NotifyStatusChanged(context.Background(), t, owner); err != nil {
			uc.logger.Warnw("failed to send status notification", "ticket_id", t.ID(), "error", err)
		}
	})
}

func toChanges(cmd UpdateTicketCommand) ticket.Changes {
	var c ticket.Changes
	c.Subject = cmd.Subject
	c.Description = cmd.Description
	if cmd.Category != nil {
		v := vo.Category(*cmd.Category)
		c.Category = &v
	}
	if cmd.Priority != nil {
		v := vo.Priority(*cmd.Priority)
		c.Priority = &v
	}
	if cmd.Status != nil {
		v := vo.TicketStatus(*cmd.Status)
		c.Status = &v
	}
	return c
}
