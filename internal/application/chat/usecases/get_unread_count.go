package usecases

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/application/chat/dto"
	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

type GetUnreadCountQuery struct {
	Principal authorization.Principal
}

type GetUnreadCountUseCase struct {
	messages chat.MessageRepository
	logger   logger.Interface
}

func NewGetUnreadCountUseCase(messages chat.MessageRepository, logger logger.Interface) *GetUnreadCountUseCase {
	return &GetUnreadCountUseCase{
		messages: messages,
		logger:   logger,
	}
}

// Execute counts unread messages from others on tickets the caller owns or
// is assigned to. Nothing is cached.
func (uc *GetUnreadCountUseCase) Execute(ctx context.Context, query GetUnreadCountQuery) (*dto.UnreadCountDTO, error) {
	count, err := uc.messages.CountUnreadForUser(ctx, query.Principal.UserID)
	if err != nil {
		uc.logger.Errorw("failed to count unread messages", "user_id", query.Principal.UserID, "error", err)
		return nil, errors.NewInternalError("failed to count unread messages", err.Error())
	}
	return &dto.UnreadCountDTO{UnreadCount: count}, nil
}
