package usecases

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/application/access"
	"github.com/deskpulse/deskpulse/internal/application/chat/dto"
	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

type ListMessagesQuery struct {
	TicketID  uint
	Principal authorization.Principal
}

type ListMessagesUseCase struct {
	guard    *access.Guard
	messages chat.MessageRepository
	logger   logger.Interface
}

func NewListMessagesUseCase(
	guard *access.Guard,
	messages chat.MessageRepository,
	logger logger.Interface,
) *ListMessagesUseCase {
	return &ListMessagesUseCase{
		guard:    guard,
		messages: messages,
		logger:   logger,
	}
}

// Execute returns the full log in ascending order and then marks the other
// party's messages read. The returned is_read values predate that update.
func (uc *ListMessagesUseCase) Execute(ctx context.Context, query ListMessagesQuery) ([]dto.MessageDTO, error) {
	uc.logger.Debugw("executing list messages use case", "ticket_id", query.TicketID, "user_id", query.Principal.UserID)

	if _, err := uc.guard.Authorize(ctx, query.Principal, query.TicketID); err != nil {
		return nil, err
	}

	msgs, err := uc.messages.ListByTicket(ctx, query.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to list messages", "ticket_id", query.TicketID, "error", err)
		return nil, errors.NewInternalError("failed to list messages", err.Error())
	}

	if _, err := uc.messages.MarkReadForViewer(ctx, query.TicketID, query.Principal.UserID); err != nil {
		uc.logger.Errorw("failed to mark messages read", "ticket_id", query.TicketID, "error", err)
		return nil, errors.NewInternalError("failed to mark messages read", err.Error())
	}

	return dto.ToMessageDTOs(msgs), nil
}
