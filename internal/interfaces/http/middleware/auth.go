package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/deskpulse/deskpulse/internal/infrastructure/auth"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
	"github.com/deskpulse/deskpulse/internal/shared/utils"
	"github.com/deskpulse/deskpulse/internal/shared/utils/logutil"
)

// TokenVerifier validates a signed access token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RevocationChecker reports whether a token ID was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	revoked  RevocationChecker
	logger   logger.Interface
}

// NewAuthMiddleware creates the bearer token middleware. revoked may be nil,
// in which case logout revocation is not enforced.
func NewAuthMiddleware(verifier TokenVerifier, revoked RevocationChecker, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		revoked:  revoked,
		logger:   logger,
	}
}

// RequireAuth authenticates the request from its Authorization: Bearer header.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.authenticate(c, bearerToken(c))
	}
}

// RequireQueryAuth also accepts the token as a ?token= query parameter.
// Browsers cannot set headers on WebSocket upgrades.
func (m *AuthMiddleware) RequireQueryAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		m.authenticate(c, token)
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string) {
	if token == "" {
		unauthenticated(c)
		return
	}

	claims, err := m.verifier.Verify(token)
	if err != nil {
		m.logger.Debugw("failed to verify token",
			"error", err,
			"token", logutil.TruncateForLog(token, 12),
			"ip", c.ClientIP(),
		)
		unauthenticated(c)
		return
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			m.logger.Warnw("token revocation check unavailable, allowing request",
				"error", err,
				"user_id", claims.UserID,
			)
		} else if revoked {
			m.logger.Debugw("rejected revoked token", "user_id", claims.UserID)
			unauthenticated(c)
			return
		}
	}

	c.Set(constants.ContextKeyUserID, claims.UserID)
	c.Set(constants.ContextKeyUserRole, claims.Role.String())
	c.Set(constants.ContextKeyTokenID, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(constants.ContextKeyTokenExp, claims.ExpiresAt.Time)
	}

	c.Next()
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthenticated(c *gin.Context) {
	utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthenticated)
	c.Abort()
}
