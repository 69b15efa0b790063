package usecases

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/application/ticket/dto"
	"github.com/deskpulse/deskpulse/internal/domain/permission"
	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	"github.com/deskpulse/deskpulse/internal/domain/user"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/goroutine"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

type AssignTicketCommand struct {
	TicketID  uint
	Principal authorization.Principal
	AdminID   uint
}

type AssignTicketUseCase struct {
	ticketRepo  ticket.TicketRepository
	userRepo    user.Repository
	permissions PermissionChecker
	notifier    Notifier
	logger      logger.Interface
}

func NewAssignTicketUseCase(
	ticketRepo ticket.TicketRepository,
	userRepo user.Repository,
	permissions PermissionChecker,
	notifier Notifier,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		ticketRepo:  ticketRepo,
		userRepo:    userRepo,
		permissions: permissions,
		notifier:    notifier,
		logger:      logger,
	}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing assign ticket use case", "ticket_id", cmd.TicketID, "admin_id", cmd.AdminID)

	if !uc.permissions.Can(ctx, cmd.Principal, permission.ResourceTickets, permission.ActionAssign) {
		uc.logger.Warnw("ticket assign denied", "ticket_id", cmd.TicketID, "user_id", cmd.Principal.UserID)
		return nil, errors.NewForbiddenError("This action is unauthorized.")
	}

	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewInternalError("failed to load ticket", err.Error())
	}
	if t == nil {
		return nil, errors.NewNotFoundError(constants.ErrMsgTicketNotFound)
	}

	assignee, err := uc.userRepo.GetByID(ctx, cmd.AdminID)
	if err != nil {
		uc.logger.Errorw("failed to load assignee", "admin_id", cmd.AdminID, "error", err)
		return nil, errors.NewInternalError("failed to load assignee", err.Error())
	}
	if assignee == nil || !assignee.IsAdmin() {
		return nil, errors.NewFieldValidationError("admin_id", "The selected admin id is invalid.")
	}

	if err := t.AssignTo(assignee.ID()); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to assign ticket", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to assign ticket", err.Error())
	}

	users, err := loadUsers(ctx, uc.userRepo, ticketUserIDs(t))
	if err != nil {
		uc.logger.Warnw("failed to load ticket users", "ticket_id", t.ID(), "error", err)
	}

	if uc.notifier != nil && assignee.ID() != cmd.Principal.UserID {
		goroutine.SafeGo(uc.logger, "ticket-assigned-notification", func() {
			if err := uc.notifier.NotifyAssigned(context.Background(), t, assignee); err != nil {
				uc.logger.Warnw("failed to send assignment notification", "ticket_id", t.ID(), "error", err)
			}
		})
	}

	uc.logger.Infow("ticket assigned successfully", "ticket_id", t.ID(), "admin_id", assignee.ID())
	return dto.ToTicketDTO(t, users), nil
}
