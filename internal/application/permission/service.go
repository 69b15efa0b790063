package permission

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/domain/permission"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

// Service answers capability questions for a principal. Enforcer failures
// deny the capability.
type Service struct {
	enforcer permission.Enforcer
	logger   logger.Interface
}

func NewService(enforcer permission.Enforcer, logger logger.Interface) *Service {
	return &Service{
		enforcer: enforcer,
		logger:   logger,
	}
}

func (s *Service) Can(ctx context.Context, p authorization.Principal, resource permission.Resource, action permission.Action) bool {
	allowed, err := s.enforcer.Enforce(p.Subject(), resource, action)
	if err != nil {
		s.logger.Errorw("permission check failed, denying",
			"user_id", p.UserID,
			"role", p.Role,
			"resource", resource,
			"action", action,
			"error", err,
		)
		return false
	}
	return allowed
}
