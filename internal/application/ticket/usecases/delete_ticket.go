package usecases

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/db"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

type DeleteTicketCommand struct {
	TicketID  uint
	Principal authorization.Principal
}

type DeleteTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	txMgr      db.Transactor
	blobs      BlobStore
	logger     logger.Interface
}

func NewDeleteTicketUseCase(
	ticketRepo ticket.TicketRepository,
	txMgr db.Transactor,
	blobs BlobStore,
	logger logger.Interface,
) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{
		ticketRepo: ticketRepo,
		txMgr:      txMgr,
		blobs:      blobs,
		logger:     logger,
	}
}

// Execute removes the ticket with its comments and messages in one
// transaction. The attachment is removed afterwards on a best-effort basis.
func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) error {
	uc.logger.Infow("executing delete ticket use case", "ticket_id", cmd.TicketID, "user_id", cmd.Principal.UserID)

	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket", "ticket_id", cmd.TicketID, "error", err)
		return errors.NewInternalError("failed to load ticket", err.Error())
	}
	if t == nil {
		return errors.NewNotFoundError(constants.ErrMsgTicketNotFound)
	}
	if !t.CanBeDeletedBy(cmd.Principal) {
		uc.logger.Warnw("ticket delete denied", "ticket_id", cmd.TicketID, "user_id", cmd.Principal.UserID)
		return errors.NewForbiddenError(constants.ErrMsgTicketAccessDenied)
	}

	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return uc.ticketRepo.Delete(txCtx, t.ID())
	})
	if txErr != nil {
		uc.logger.Errorw("failed to delete ticket", "ticket_id", t.ID(), "error", txErr)
		return errors.NewInternalError("failed to delete ticket", txErr.Error())
	}

	if key := t.Attachment(); key != nil && uc.blobs != nil {
		if err := uc.blobs.Remove(ctx, *key); err != nil {
			uc.logger.Warnw("failed to remove ticket attachment", "ticket_id", t.ID(), "key", *key, "error", err)
		}
	}

	uc.logger.Infow("ticket deleted successfully", "ticket_id", t.ID())
	return nil
}
