package usecases

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/application/user/dto"
	"github.com/deskpulse/deskpulse/internal/domain/user"
	vo "github.com/deskpulse/deskpulse/internal/domain/user/valueobjects"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
}

type RegisterUseCase struct {
	userRepo user.Repository
	hasher   user.PasswordHasher
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewRegisterUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	tokens TokenIssuer,
	logger logger.Interface,
) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Execute creates a regular user and signs them in. Admins come from seeding only.
func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*dto.AuthDTO, error) {
	uc.logger.Infow("executing register use case", "email", cmd.Email)

	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, errors.NewFieldValidationError("email", "The email field must be a valid email address.")
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email.String())
	if err != nil {
		uc.logger.Errorw("failed to check email uniqueness", "error", err)
		return nil, errors.NewInternalError("failed to register user", err.Error())
	}
	if exists {
		return nil, errors.NewFieldValidationError("email", "The email has already been taken.")
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, errors.NewInternalError("failed to register user", err.Error())
	}

	newUser, err := user.NewUser(cmd.Name, email, hash, authorization.RoleUser)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		uc.logger.Errorw("failed to create user", "error", err)
		if errors.IsDuplicateError(err) {
			return nil, errors.NewFieldValidationError("email", "The email has already been taken.")
		}
		return nil, errors.NewInternalError("failed to register user", err.Error())
	}

	issued, err := uc.tokens.Issue(newUser.ID(), newUser.Role())
	if err != nil {
		uc.logger.Errorw("failed to issue token", "user_id", newUser.ID(), "error", err)
		return nil, errors.NewInternalError("failed to issue token", err.Error())
	}

	uc.logger.Infow("user registered successfully", "user_id", newUser.ID())
	return &dto.AuthDTO{User: dto.ToUserDTO(newUser), Token: issued.Token}, nil
}
