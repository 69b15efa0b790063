package usecases

import (
	"context"
	"time"

	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

type LogoutCommand struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

type LogoutUseCase struct {
	revoker TokenRevoker
	logger  logger.Interface
}

func NewLogoutUseCase(revoker TokenRevoker, logger logger.Interface) *LogoutUseCase {
	return &LogoutUseCase{
		revoker: revoker,
		logger:  logger,
	}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, cmd LogoutCommand) error {
	if cmd.TokenID == "" {
		return errors.NewUnauthorizedError("Unauthenticated.")
	}

	if err := uc.revoker.Revoke(ctx, cmd.TokenID, cmd.ExpiresAt); err != nil {
		uc.logger.Errorw("failed to revoke token", "error", err, "user_id", cmd.UserID)
		return errors.NewInternalError("failed to logout", err.Error())
	}

	uc.logger.Infow("user logged out successfully", "user_id", cmd.UserID)
	return nil
}
