package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deskpulse/deskpulse/internal/domain/permission"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
	"github.com/deskpulse/deskpulse/internal/shared/utils"
)

// PermissionChecker answers role capability questions.
type PermissionChecker interface {
	Can(ctx context.Context, p authorization.Principal, resource permission.Resource, action permission.Action) bool
}

type PermissionMiddleware struct {
	permissions PermissionChecker
	logger      logger.Interface
}

func NewPermissionMiddleware(permissions PermissionChecker, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		permissions: permissions,
		logger:      logger,
	}
}

// RequirePermission aborts with 403 unless the caller's role holds the capability.
func (m *PermissionMiddleware) RequirePermission(resource permission.Resource, action permission.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := authorization.PrincipalFromContext(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthenticated)
			c.Abort()
			return
		}

		if !m.permissions.Can(c.Request.Context(), p, resource, action) {
			m.logger.Warnw("permission denied", "user_id", p.UserID, "resource", resource, "action", action)
			utils.ErrorResponse(c, http.StatusForbidden, "This action is unauthorized.")
			c.Abort()
			return
		}

		c.Next()
	}
}
