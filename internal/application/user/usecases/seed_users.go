package usecases

import (
	"context"
	"fmt"

	"github.com/deskpulse/deskpulse/internal/domain/user"
	vo "github.com/deskpulse/deskpulse/internal/domain/user/valueobjects"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

// SeedUser is one account to create or promote.
type SeedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type SeedResult struct {
	Created  int
	Promoted int
	Skipped  int
}

type SeedUsersUseCase struct {
	userRepo user.Repository
	hasher   user.PasswordHasher
	logger   logger.Interface
}

func NewSeedUsersUseCase(userRepo user.Repository, hasher user.PasswordHasher, logger logger.Interface) *SeedUsersUseCase {
	return &SeedUsersUseCase{userRepo: userRepo, hasher: hasher, logger: logger}
}

// Execute is idempotent: existing accounts keep their password and are only
// promoted when the seed asks for admin.
func (uc *SeedUsersUseCase) Execute(ctx context.Context, seeds []SeedUser) (*SeedResult, error) {
	result := &SeedResult{}

	for _, s := range seeds {
		role := authorization.RoleUser
		if s.Role != "" {
			role = authorization.UserRole(s.Role)
			if !role.IsValid() {
				return result, fmt.Errorf("seed %s: invalid role %q", s.Email, s.Role)
			}
		}
		email, err := vo.NewEmail(s.Email)
		if err != nil {
			return result, fmt.Errorf("seed %s: %w", s.Email, err)
		}

		existing, err := uc.userRepo.GetByEmail(ctx, email.String())
		if err != nil {
			return result, fmt.Errorf("seed %s: %w", s.Email, err)
		}

		if existing != nil {
			if role.IsAdmin() && !existing.IsAdmin() {
				existing.PromoteToAdmin()
				if err := uc.userRepo.Update(ctx, existing); err != nil {
					return result, fmt.Errorf("seed %s: %w", s.Email, err)
				}
				result.Promoted++
				uc.logger.Infow("promoted user to admin", "user_id", existing.ID())
				continue
			}
			result.Skipped++
			continue
		}

		hash, err := uc.hasher.Hash(s.Password)
		if err != nil {
			return result, fmt.Errorf("seed %s: %w", s.Email, err)
		}
		u, err := user.NewUser(s.Name, email, hash, role)
		if err != nil {
			return result, fmt.Errorf("seed %s: %w", s.Email, err)
		}
		if err := uc.userRepo.Create(ctx, u); err != nil {
			return result, fmt.Errorf("seed %s: %w", s.Email, err)
		}
		result.Created++
		uc.logger.Infow("seeded user", "user_id", u.ID(), "role", role)
	}

	return result, nil
}
