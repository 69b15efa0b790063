package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpulse/deskpulse/internal/domain/permission"
	"github.com/deskpulse/deskpulse/internal/infrastructure/auth"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], s.err
}

func authEngine(m *AuthMiddleware, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/me", handler, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetUint(constants.ContextKeyUserID),
			"role":     c.GetString(constants.ContextKeyUserRole),
			"token_id": c.GetString(constants.ContextKeyTokenID),
		})
	})
	return r
}

// =====================================================================
// AuthMiddleware
// =====================================================================

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", 60)
	issued, err := jwtSvc.Issue(7, authorization.RoleAdmin)
	require.NoError(t, err)

	other := auth.NewJWTService("other-secret", 60)
	forged, err := other.Issue(7, authorization.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		revoked    map[string]bool
		revokeErr  error
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + issued.Token, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + issued.Token, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "bad signature", header: "Bearer " + forged.Token, wantStatus: http.StatusUnauthorized},
		{name: "revoked token", header: "Bearer " + issued.Token, revoked: map[string]bool{issued.TokenID: true}, wantStatus: http.StatusUnauthorized},
		{name: "revocation store down", header: "Bearer " + issued.Token, revokeErr: fmt.Errorf("redis down"), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(jwtSvc, &stubRevocations{revoked: tt.revoked, err: tt.revokeErr}, logger.NewNopLogger())
			r := authEngine(m, m.RequireAuth())

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"message":"Unauthenticated."}`, w.Body.String())
				return
			}
			assert.JSONEq(t, fmt.Sprintf(`{"user_id":7,"role":"admin","token_id":%q}`, issued.TokenID), w.Body.String())
		})
	}
}

func TestAuthMiddleware_RequireQueryAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", 60)
	issued, err := jwtSvc.Issue(3, authorization.RoleUser)
	require.NoError(t, err)

	m := NewAuthMiddleware(jwtSvc, nil, logger.NewNopLogger())

	t.Run("query token accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		authEngine(m, m.RequireQueryAuth()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+issued.Token, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("query token ignored by header-only auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		authEngine(m, m.RequireAuth()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+issued.Token, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =====================================================================
// PermissionMiddleware
// =====================================================================

type stubPermissions struct {
	allow bool
}

func (s stubPermissions) Can(_ context.Context, _ authorization.Principal, _ permission.Resource, _ permission.Action) bool {
	return s.allow
}

func TestPermissionMiddleware_RequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		userID     uint
		allow      bool
		wantStatus int
	}{
		{name: "allowed", userID: 1, allow: true, wantStatus: http.StatusOK},
		{name: "denied", userID: 3, allow: false, wantStatus: http.StatusForbidden},
		{name: "anonymous", userID: 0, allow: true, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPermissionMiddleware(stubPermissions{allow: tt.allow}, logger.NewNopLogger())

			r := gin.New()
			r.POST("/tickets/:ticket/assign", func(c *gin.Context) {
				if tt.userID != 0 {
					c.Set(constants.ContextKeyUserID, tt.userID)
					c.Set(constants.ContextKeyUserRole, "user")
				}
				c.Next()
			}, m.RequirePermission(permission.ResourceTickets, permission.ActionAssign), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tickets/5/assign", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// =====================================================================
// RequestID / Metrics / Recovery / CORS
// =====================================================================

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	t.Run("propagates inbound id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constants.HeaderXRequestID, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Body.String())
		assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, w.Body.String(), 36)
		assert.Equal(t, w.Body.String(), w.Header().Get(constants.HeaderXRequestID))
	})
}

type observation struct {
	route  string
	method string
	status int
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) Observe(route, method string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{route: route, method: method, status: status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	obs := &recordingObserver{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/tickets/:ticket/chat", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tickets/42/chat", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Len(t, obs.seen, 2)
	assert.Equal(t, observation{route: "/tickets/:ticket/chat", method: http.MethodGet, status: http.StatusOK}, obs.seen[0])
	assert.Equal(t, "unmatched", obs.seen[1].route)
	assert.Equal(t, http.StatusNotFound, obs.seen[1].status)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNopLogger()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/tickets", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/tickets", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/tickets", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// =====================================================================
// RateLimiter
// =====================================================================

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestRateLimiter_Limit(t *testing.T) {
	client := setupTestRedis(t)
	rl := NewRateLimiter(client, "auth-test", 2, time.Minute, logger.NewNopLogger())

	r := gin.New()
	r.POST("/login", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.JSONEq(t, `{"message":"Too many requests"}`, w.Body.String())
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_DisabledWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, "auth", 1, time.Minute, logger.NewNopLogger())

	r := gin.New()
	r.POST("/login", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
