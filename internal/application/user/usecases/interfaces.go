package usecases

import (
	"context"
	"time"

	"github.com/deskpulse/deskpulse/internal/application/user/dto"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
)

type RegisterExecutor interface {
	Execute(ctx context.Context, cmd RegisterCommand) (*dto.AuthDTO, error)
}

type LoginExecutor interface {
	Execute(ctx context.Context, cmd LoginCommand) (*dto.AuthDTO, error)
}

type LogoutExecutor interface {
	Execute(ctx context.Context, cmd LogoutCommand) error
}

type GetCurrentUserExecutor interface {
	Execute(ctx context.Context, userID uint) (*dto.UserDTO, error)
}

// IssuedToken is a signed access token with its revocation handle.
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

type TokenIssuer interface {
	Issue(userID uint, role authorization.UserRole) (*IssuedToken, error)
}

// TokenRevoker blocks a token ID until it would have expired anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}
