package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/deskpulse/deskpulse/internal/application/access"
	"github.com/deskpulse/deskpulse/internal/application/chat/dto"
	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/db"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

const messageField = "message"

type SendMessageCommand struct {
	TicketID  uint
	Principal authorization.Principal
	Message   string
}

type SendMessageUseCase struct {
	guard       *access.Guard
	messages    chat.MessageRepository
	txMgr       db.Transactor
	broadcaster chat.Broadcaster
	limiter     SendRateLimiter
	metrics     MetricsRecorder
	logger      logger.Interface
}

func NewSendMessageUseCase(
	guard *access.Guard,
	messages chat.MessageRepository,
	txMgr db.Transactor,
	broadcaster chat.Broadcaster,
	limiter SendRateLimiter,
	metrics MetricsRecorder,
	logger logger.Interface,
) *SendMessageUseCase {
	return &SendMessageUseCase{
		guard:       guard,
		messages:    messages,
		txMgr:       txMgr,
		broadcaster: broadcaster,
		limiter:     limiter,
		metrics:     metrics,
		logger:      logger,
	}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, cmd SendMessageCommand) (*dto.MessageDTO, error) {
	uc.logger.Infow("executing send message use case", "ticket_id", cmd.TicketID, "user_id", cmd.Principal.UserID)

	if _, err := uc.guard.Authorize(ctx, cmd.Principal, cmd.TicketID); err != nil {
		return nil, err
	}

	msg, err := chat.NewMessage(cmd.TicketID, cmd.Principal.UserID, cmd.Message)
	if err != nil {
		return nil, messageValidationError(err)
	}

	if err := uc.checkRateLimit(ctx, cmd); err != nil {
		return nil, err
	}

	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return uc.messages.Append(txCtx, msg)
	})
	if txErr != nil {
		uc.logger.Errorw("failed to persist chat message", "ticket_id", cmd.TicketID, "error", txErr)
		return nil, errors.NewInternalError("Failed to send message", txErr.Error())
	}

	uc.metrics.MessageSent()
	uc.broadcast(ctx, msg)

	uc.logger.Infow("chat message sent", "message_id", msg.ID(), "ticket_id", cmd.TicketID)

	result := dto.ToMessageDTO(msg)
	return &result, nil
}

func (uc *SendMessageUseCase) checkRateLimit(ctx context.Context, cmd SendMessageCommand) error {
	if uc.limiter == nil {
		return nil
	}

	key := fmt.Sprintf("chat:send:%d:%d", cmd.Principal.UserID, cmd.TicketID)
	allowed, err := uc.limiter.Allow(ctx, key)
	if err != nil {
		uc.logger.Warnw("send rate limiter unavailable, allowing message", "key", key, "error", err)
		return nil
	}
	if !allowed {
		uc.logger.Warnw("chat send rate limit exceeded", "user_id", cmd.Principal.UserID, "ticket_id", cmd.TicketID)
		return errors.NewRateLimitedError(constants.ErrMsgTooManyRequests)
	}
	return nil
}

// broadcast runs after commit. Failures are logged and counted only.
func (uc *SendMessageUseCase) broadcast(ctx context.Context, msg *chat.Message) {
	if !uc.broadcaster.SupportsPush() {
		return
	}

	if err := uc.broadcaster.Broadcast(ctx, chat.NewMessageEvent(msg)); err != nil {
		uc.metrics.BroadcastFailed(uc.broadcaster.Driver())
		uc.logger.Warnw("failed to broadcast chat message",
			"message_id", msg.ID(),
			"ticket_id", msg.TicketID(),
			"driver", uc.broadcaster.Driver(),
			"error", err,
		)
	}
}

func messageValidationError(err error) error {
	switch {
	case stderrors.Is(err, chat.ErrEmptyMessage):
		return errors.NewFieldValidationError(messageField, "The message field is required.")
	case stderrors.Is(err, chat.ErrMessageTooLong):
		return errors.NewFieldValidationError(messageField,
			fmt.Sprintf("The message field must not be greater than %d characters.", chat.MaxMessageLength))
	default:
		return errors.NewFieldValidationError(messageField, err.Error())
	}
}
