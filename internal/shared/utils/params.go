package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
)

// ParseIDParam parses a numeric record ID from a URL path parameter.
// paramName is the Gin route parameter name (e.g., "ticket", "comment").
// Anything that is not a positive integer cannot name a record, so it is
// reported with notFoundMessage rather than as a validation failure.
func ParseIDParam(c *gin.Context, paramName, notFoundMessage string) (uint, error) {
	raw := c.Param(paramName)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewNotFoundError(notFoundMessage)
	}
	return uint(id), nil
}

// RequirePrincipal returns the authenticated caller or an unauthorized error.
func RequirePrincipal(c *gin.Context) (authorization.Principal, error) {
	p, ok := authorization.PrincipalFromContext(c)
	if !ok {
		return authorization.Principal{}, errors.NewUnauthorizedError(constants.ErrMsgUnauthenticated)
	}
	return p, nil
}
