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

const channelDeniedMessage = "This action is unauthorized."

type AuthorizeChannelCommand struct {
	Principal   authorization.Principal
	SocketID    string
	ChannelName string
}

type AuthorizeChannelUseCase struct {
	guard  *access.Guard
	signer ChannelSigner
	logger logger.Interface
}

func NewAuthorizeChannelUseCase(
	guard *access.Guard,
	signer ChannelSigner,
	logger logger.Interface,
) *AuthorizeChannelUseCase {
	return &AuthorizeChannelUseCase{
		guard:  guard,
		signer: signer,
		logger: logger,
	}
}

// Execute signs a push channel subscription when the caller may access the
// channel's ticket. Malformed names and missing tickets are denied, not 404.
func (uc *AuthorizeChannelUseCase) Execute(ctx context.Context, cmd AuthorizeChannelCommand) (*dto.ChannelAuthDTO, error) {
	ticketID, err := chat.ParseChannelName(cmd.ChannelName)
	if err != nil {
		uc.logger.Warnw("rejected channel subscription", "channel", cmd.ChannelName, "user_id", cmd.Principal.UserID, "error", err)
		return nil, errors.NewForbiddenError(channelDeniedMessage)
	}

	if err := uc.AuthorizeTicket(ctx, cmd.Principal, ticketID); err != nil {
		return nil, err
	}

	return &dto.ChannelAuthDTO{Auth: uc.signer.Sign(cmd.SocketID, cmd.ChannelName)}, nil
}

// AuthorizeTicket applies the access guard for a push subscription to ticketID.
func (uc *AuthorizeChannelUseCase) AuthorizeTicket(ctx context.Context, p authorization.Principal, ticketID uint) error {
	_, err := uc.guard.Authorize(ctx, p, ticketID)
	if err == nil {
		return nil
	}
	if errors.IsNotFoundError(err) || errors.IsForbiddenError(err) {
		return errors.NewForbiddenError(channelDeniedMessage)
	}
	return err
}
