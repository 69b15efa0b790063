package authorization

import (
	"github.com/gin-gonic/gin"

	"github.com/deskpulse/deskpulse/internal/shared/constants"
)

// PrincipalFromContext builds the caller principal set by the auth middleware.
// ok is false when no authenticated user is present.
func PrincipalFromContext(c *gin.Context) (Principal, bool) {
	raw, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return Principal{}, false
	}
	userID, ok := raw.(uint)
	if !ok || userID == 0 {
		return Principal{}, false
	}
	return NewPrincipal(userID, ParseUserRole(c.GetString(constants.ContextKeyUserRole))), true
}
