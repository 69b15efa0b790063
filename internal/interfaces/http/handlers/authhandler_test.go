package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userdto "github.com/deskpulse/deskpulse/internal/application/user/dto"
	"github.com/deskpulse/deskpulse/internal/application/user/usecases"
	"github.com/deskpulse/deskpulse/internal/interfaces/http/handlers/testutil"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockRegisterUC struct {
	result *userdto.AuthDTO
	err    error
	got    usecases.RegisterCommand
}

func (m *mockRegisterUC) Execute(_ context.Context, cmd usecases.RegisterCommand) (*userdto.AuthDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockLoginUC struct {
	result *userdto.AuthDTO
	err    error
}

func (m *mockLoginUC) Execute(_ context.Context, _ usecases.LoginCommand) (*userdto.AuthDTO, error) {
	return m.result, m.err
}

type mockLogoutUC struct {
	err error
	got usecases.LogoutCommand
}

func (m *mockLogoutUC) Execute(_ context.Context, cmd usecases.LogoutCommand) error {
	m.got = cmd
	return m.err
}

type mockGetCurrentUserUC struct {
	result *userdto.UserDTO
	err    error
}

func (m *mockGetCurrentUserUC) Execute(_ context.Context, _ uint) (*userdto.UserDTO, error) {
	return m.result, m.err
}

type authMocks struct {
	register *mockRegisterUC
	login    *mockLoginUC
	logout   *mockLogoutUC
	me       *mockGetCurrentUserUC
}

func newTestAuthHandler() (*AuthHandler, *authMocks) {
	m := &authMocks{
		register: &mockRegisterUC{},
		login:    &mockLoginUC{},
		logout:   &mockLogoutUC{},
		me:       &mockGetCurrentUserUC{},
	}
	return NewAuthHandler(m.register, m.login, m.logout, m.me, testutil.NewMockLogger()), m
}

func sampleAuth() *userdto.AuthDTO {
	return &userdto.AuthDTO{
		User:  &userdto.UserDTO{ID: 3, Name: "Ann", Email: "ann@example.com", Role: "user"},
		Token: "jwt-token",
	}
}

// =====================================================================
// Register
// =====================================================================

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name      string
		body      map[string]string
		wantCode  int
		wantField string
	}{
		{
			name: "created",
			body: map[string]string{
				"name": "Ann", "email": "ann@example.com",
				"password": "secret123", "password_confirmation": "secret123",
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "confirmation mismatch",
			body: map[string]string{
				"name": "Ann", "email": "ann@example.com",
				"password": "secret123", "password_confirmation": "secret124",
			},
			wantCode:  http.StatusUnprocessableEntity,
			wantField: "password",
		},
		{
			name: "short password",
			body: map[string]string{
				"name": "Ann", "email": "ann@example.com",
				"password": "short", "password_confirmation": "short",
			},
			wantCode:  http.StatusUnprocessableEntity,
			wantField: "password",
		},
		{
			name: "invalid email",
			body: map[string]string{
				"name": "Ann", "email": "not-an-email",
				"password": "secret123", "password_confirmation": "secret123",
			},
			wantCode:  http.StatusUnprocessableEntity,
			wantField: "email",
		},
		{
			name:      "missing name",
			body:      map[string]string{"email": "ann@example.com", "password": "secret123", "password_confirmation": "secret123"},
			wantCode:  http.StatusUnprocessableEntity,
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestAuthHandler()
			m.register.result = sampleAuth()

			c, w := testutil.NewTestContext(http.MethodPost, "/register", tt.body)
			h.Register(c)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantField != "" {
				var body testutil.ErrorBody
				require.NoError(t, testutil.ParseResponse(w, &body))
				assert.Contains(t, body.Errors, tt.wantField)
				return
			}
			var body userdto.AuthDTO
			require.NoError(t, testutil.ParseResponse(w, &body))
			assert.Equal(t, "jwt-token", body.Token)
			assert.Equal(t, "ann@example.com", m.register.got.Email)
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h, m := newTestAuthHandler()
	m.register.err = errors.NewFieldValidationError("email", "The email has already been taken.")

	c, w := testutil.NewTestContext(http.MethodPost, "/register", map[string]string{
		"name": "Ann", "email": "ann@example.com",
		"password": "secret123", "password_confirmation": "secret123",
	})
	h.Register(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t,
		`{"message":"The email has already been taken.","errors":{"email":["The email has already been taken."]}}`,
		w.Body.String())
}

// =====================================================================
// Login / Logout / CurrentUser
// =====================================================================

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, m := newTestAuthHandler()
		m.login.result = sampleAuth()

		c, w := testutil.NewTestContext(http.MethodPost, "/login", map[string]string{
			"email": "ann@example.com", "password": "secret123",
		})
		h.Login(c)

		require.Equal(t, http.StatusOK, w.Code)
		var body userdto.AuthDTO
		require.NoError(t, testutil.ParseResponse(w, &body))
		assert.Equal(t, uint(3), body.User.ID)
	})

	t.Run("bad credentials", func(t *testing.T) {
		h, m := newTestAuthHandler()
		m.login.err = errors.NewFieldValidationError("email", "The provided credentials are incorrect.")

		c, w := testutil.NewTestContext(http.MethodPost, "/login", map[string]string{
			"email": "ann@example.com", "password": "wrong",
		})
		h.Login(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var body testutil.ErrorBody
		require.NoError(t, testutil.ParseResponse(w, &body))
		assert.Equal(t, []string{"The provided credentials are incorrect."}, body.Errors["email"])
	})

	t.Run("empty body", func(t *testing.T) {
		h, _ := newTestAuthHandler()

		c, w := testutil.NewTestContext(http.MethodPost, "/login", nil)
		h.Login(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var body testutil.ErrorBody
		require.NoError(t, testutil.ParseResponse(w, &body))
		assert.Contains(t, body.Errors, "email")
		assert.Contains(t, body.Errors, "password")
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	h, m := newTestAuthHandler()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	c, w := testutil.NewTestContext(http.MethodPost, "/logout", nil)
	testutil.SetAuthContext(c, 3, authorization.RoleUser)
	c.Set(constants.ContextKeyTokenExp, exp)

	h.Logout(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, w.Body.String())
	assert.Equal(t, "test-token-id", m.logout.got.TokenID)
	assert.Equal(t, exp, m.logout.got.ExpiresAt)
	assert.Equal(t, uint(3), m.logout.got.UserID)
}

func TestAuthHandler_CurrentUser(t *testing.T) {
	h, m := newTestAuthHandler()
	m.me.result = &userdto.UserDTO{ID: 3, Name: "Ann", Role: "user"}

	c, w := testutil.NewTestContext(http.MethodGet, "/user", nil)
	testutil.SetAuthContext(c, 3, authorization.RoleUser)

	h.CurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body userdto.UserDTO
	require.NoError(t, testutil.ParseResponse(w, &body))
	assert.Equal(t, "Ann", body.Name)
}
