package permission

import (
	"fmt"

	"github.com/deskpulse/deskpulse/internal/domain/permission"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

// InitDefaultPermissions makes sure every default policy exists. Policies
// added by operators are left alone.
func InitDefaultPermissions(e *Enforcer, log logger.Interface) error {
	for _, p := range permission.DefaultPolicies {
		if err := e.AddPolicy(p); err != nil {
			log.Errorw("failed to add default permission policy",
				"error", err,
				"role", p.Role,
				"resource", p.Resource,
				"action", p.Action)
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", p.Role, p.Resource, p.Action, err)
		}
	}

	log.Infow("default permissions initialized", "count", len(permission.DefaultPolicies))
	return nil
}
