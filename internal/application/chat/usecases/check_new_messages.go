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

type CheckNewMessagesQuery struct {
	TicketID      uint
	Principal     authorization.Principal
	LastMessageID uint
}

type CheckNewMessagesUseCase struct {
	guard    *access.Guard
	messages chat.MessageRepository
	metrics  MetricsRecorder
	logger   logger.Interface
}

func NewCheckNewMessagesUseCase(
	guard *access.Guard,
	messages chat.MessageRepository,
	metrics MetricsRecorder,
	logger logger.Interface,
) *CheckNewMessagesUseCase {
	return &CheckNewMessagesUseCase{
		guard:    guard,
		messages: messages,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute returns the messages after the cursor. Read state is only touched
// when the delta is non-empty, and the cursor is echoed back when it is empty.
func (uc *CheckNewMessagesUseCase) Execute(ctx context.Context, query CheckNewMessagesQuery) (*dto.CheckNewMessagesDTO, error) {
	if _, err := uc.guard.Authorize(ctx, query.Principal, query.TicketID); err != nil {
		return nil, err
	}

	msgs, err := uc.messages.ListSince(ctx, query.TicketID, query.LastMessageID)
	if err != nil {
		uc.logger.Errorw("failed to poll messages",
			"ticket_id", query.TicketID,
			"last_message_id", query.LastMessageID,
			"error", err,
		)
		return nil, errors.NewInternalError("failed to check new messages", err.Error())
	}

	if len(msgs) > 0 {
		if _, err := uc.messages.MarkReadForViewer(ctx, query.TicketID, query.Principal.UserID); err != nil {
			uc.logger.Errorw("failed to mark messages read", "ticket_id", query.TicketID, "error", err)
			return nil, errors.NewInternalError("failed to mark messages read", err.Error())
		}
	}

	uc.metrics.PollCompleted(len(msgs))

	return &dto.CheckNewMessagesDTO{
		Messages:      dto.ToMessageDTOs(msgs),
		LastMessageID: chat.MaxID(msgs, query.LastMessageID),
	}, nil
}
