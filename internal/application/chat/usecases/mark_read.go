package usecases

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/application/access"
	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

type MarkReadCommand struct {
	TicketID  uint
	Principal authorization.Principal
}

type MarkReadResult struct {
	Updated int64
}

type MarkReadUseCase struct {
	guard    *access.Guard
	messages chat.MessageRepository
	logger   logger.Interface
}

func NewMarkReadUseCase(
	guard *access.Guard,
	messages chat.MessageRepository,
	logger logger.Interface,
) *MarkReadUseCase {
	return &MarkReadUseCase{
		guard:    guard,
		messages: messages,
		logger:   logger,
	}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, cmd MarkReadCommand) (*MarkReadResult, error) {
	if _, err := uc.guard.Authorize(ctx, cmd.Principal, cmd.TicketID); err != nil {
		return nil, err
	}

	updated, err := uc.messages.MarkReadForViewer(ctx, cmd.TicketID, cmd.Principal.UserID)
	if err != nil {
		uc.logger.Errorw("failed to mark messages read", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewInternalError("failed to mark messages read", err.Error())
	}

	uc.logger.Debugw("messages marked read", "ticket_id", cmd.TicketID, "user_id", cmd.Principal.UserID, "updated", updated)
	return &MarkReadResult{Updated: updated}, nil
}
