package permission

import (
	"testing"

	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/deskpulse/deskpulse/internal/domain/permission"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

func newSeededEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcerWithAdapter(stringadapter.NewAdapter(""), logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, InitDefaultPermissions(e, logger.NewNopLogger()))
	return e
}

func TestDefaultPolicies(t *testing.T) {
	e := newSeededEnforcer(t)

	tests := []struct {
		subject  string
		resource permission.Resource
		action   permission.Action
		want     bool
	}{
		{"admin", permission.ResourceTickets, permission.ActionListAll, true},
		{"admin", permission.ResourceTickets, permission.ActionAssign, true},
		{"admin", permission.ResourceComments, permission.ActionDeleteAny, true},
		{"user", permission.ResourceTickets, permission.ActionListAll, false},
		{"user", permission.ResourceTickets, permission.ActionAssign, false},
		{"user", permission.ResourceComments, permission.ActionDeleteAny, false},
		{"admin", permission.ResourceComments, permission.ActionAssign, false},
	}

	for _, tt := range tests {
		t.Run(tt.subject+"/"+string(tt.resource)+"/"+string(tt.action), func(t *testing.T) {
			allowed, err := e.Enforce(tt.subject, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestInitDefaultPermissions_Idempotent(t *testing.T) {
	e := newSeededEnforcer(t)
	require.NoError(t, InitDefaultPermissions(e, logger.NewNopLogger()))

	policies, err := e.Policies()
	require.NoError(t, err)
	assert.Len(t, policies, len(permission.DefaultPolicies))
}

func TestRemovePolicy(t *testing.T) {
	e := newSeededEnforcer(t)
	p := permission.Policy{Role: "admin", Resource: permission.ResourceTickets, Action: permission.ActionAssign}

	require.NoError(t, e.RemovePolicy(p))

	allowed, err := e.Enforce("admin", permission.ResourceTickets, permission.ActionAssign)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestNewEnforcer_PersistsThroughGorm(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	e, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, InitDefaultPermissions(e, logger.NewNopLogger()))

	reloaded, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)

	allowed, err := reloaded.Enforce("admin", permission.ResourceTickets, permission.ActionListAll)
	require.NoError(t, err)
	assert.True(t, allowed)
}
