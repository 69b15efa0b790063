package usecases

import (
	"context"
	"strings"

	"github.com/deskpulse/deskpulse/internal/application/user/dto"
	"github.com/deskpulse/deskpulse/internal/domain/user"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
	"github.com/deskpulse/deskpulse/internal/shared/utils/logutil"
)

const errMsgInvalidCredentials = "The provided credentials are incorrect."

type LoginCommand struct {
	Email    string
	Password string
}

type LoginUseCase struct {
	userRepo user.Repository
	hasher   user.PasswordHasher
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	tokens TokenIssuer,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*dto.AuthDTO, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, errors.NewInternalError("failed to get user", err.Error())
	}

	// Unknown email and wrong password are indistinguishable to the caller.
	if existing == nil {
		uc.logger.Infow("login attempt for unknown email", "email", logutil.MaskEmail(email))
		return nil, errors.NewFieldValidationError("email", errMsgInvalidCredentials)
	}
	if err := uc.hasher.Verify(cmd.Password, existing.PasswordHash()); err != nil {
		uc.logger.Warnw("failed login attempt", "user_id", existing.ID())
		return nil, errors.NewFieldValidationError("email", errMsgInvalidCredentials)
	}

	issued, err := uc.tokens.Issue(existing.ID(), existing.Role())
	if err != nil {
		uc.logger.Errorw("failed to issue token", "user_id", existing.ID(), "error", err)
		return nil, errors.NewInternalError("failed to issue token", err.Error())
	}

	uc.logger.Infow("user logged in successfully", "user_id", existing.ID())
	return &dto.AuthDTO{User: dto.ToUserDTO(existing), Token: issued.Token}, nil
}
