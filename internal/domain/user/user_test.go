package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/deskpulse/deskpulse/internal/domain/user/valueobjects"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
)

func mustEmail(t *testing.T, s string) *vo.Email {
	t.Helper()
	e, err := vo.NewEmail(s)
	require.NoError(t, err)
	return e
}

func TestNewUser(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    *vo.Email
		hash     string
		role     authorization.UserRole
		wantErr  string
	}{
		{name: "valid user", userName: "Alice", email: mustEmail(t, "a@example.com"), hash: "h", role: authorization.RoleUser},
		{name: "trimmed name", userName: "  Bob  ", email: mustEmail(t, "b@example.com"), hash: "h", role: authorization.RoleAdmin},
		{name: "empty name", userName: "  ", email: mustEmail(t, "a@example.com"), hash: "h", role: authorization.RoleUser, wantErr: "name is required"},
		{name: "missing email", userName: "Alice", hash: "h", role: authorization.RoleUser, wantErr: "email is required"},
		{name: "missing hash", userName: "Alice", email: mustEmail(t, "a@example.com"), role: authorization.RoleUser, wantErr: "password hash is required"},
		{name: "bad role", userName: "Alice", email: mustEmail(t, "a@example.com"), hash: "h", role: "root", wantErr: "invalid role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUser(tt.userName, tt.email, tt.hash, tt.role)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, u.Name())
			assert.NotContains(t, u.Name(), " ", "name should be trimmed")
			assert.Equal(t, tt.role, u.Role())
			assert.False(t, u.CreatedAt().IsZero())
		})
	}
}

func TestUser_SetID(t *testing.T) {
	u, err := NewUser("Alice", mustEmail(t, "a@example.com"), "h", authorization.RoleUser)
	require.NoError(t, err)

	require.Error(t, u.SetID(0))
	require.NoError(t, u.SetID(5))
	assert.Equal(t, uint(5), u.ID())
	assert.Error(t, u.SetID(6))
}

func TestUser_PromoteToAdmin(t *testing.T) {
	u, err := ReconstructUser(3, "Carol", mustEmail(t, "c@example.com"), "h", authorization.RoleUser, time.Now(), time.Now())
	require.NoError(t, err)

	assert.False(t, u.IsAdmin())
	u.PromoteToAdmin()
	assert.True(t, u.IsAdmin())
	assert.Equal(t, authorization.Principal{UserID: 3, Role: authorization.RoleAdmin}, u.Principal())
}

func TestUser_Profile(t *testing.T) {
	u, err := ReconstructUser(9, "Dana", mustEmail(t, "d@example.com"), "h", authorization.RoleAdmin, time.Now(), time.Now())
	require.NoError(t, err)

	p := u.Profile()
	assert.Equal(t, uint(9), p.ID)
	assert.Equal(t, "Dana", p.Name)
	assert.Equal(t, authorization.RoleAdmin, p.Role)
}
