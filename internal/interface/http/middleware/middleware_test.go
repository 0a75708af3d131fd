package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/gamesup/internal/domain/user"
	"github.com/xiebiao/gamesup/pkg/jwt"
	"github.com/xiebiao/gamesup/pkg/logger"
)

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsInBlacklist(_ context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[token], nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Code
}

func TestRequireAuth(t *testing.T) {
	manager := jwt.NewManager("middleware-secret", time.Hour, 24*time.Hour)
	pair, err := manager.GenerateToken(jwt.Subject{UserID: 42, Email: "p@gamesup.io", Role: "ADMIN"})
	require.NoError(t, err)

	expiredManager := jwt.NewManager("middleware-secret", -time.Minute, time.Hour)
	expired, err := expiredManager.GenerateToken(jwt.Subject{UserID: 42})
	require.NoError(t, err)

	blacklist := &fakeBlacklist{revoked: map[string]bool{"revoked-token": true}}
	auth := NewAuthMiddleware(manager, blacklist)

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		token, exp := GetToken(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetUserID(c),
			"admin":   IsAdmin(c),
			"token":   token == pair.AccessToken,
			"exp":     !exp.IsZero(),
		})
	})

	tests := []struct {
		name   string
		header string
		status int
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized, 40100},
		{"wrong scheme", "Token " + pair.AccessToken, http.StatusUnauthorized, 40101},
		{"revoked", "Bearer revoked-token", http.StatusUnauthorized, 40101},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized, 40101},
		{"expired", "Bearer " + expired.AccessToken, http.StatusUnauthorized, 40102},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeCode(t, w))
		})
	}

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":42,"admin":true,"token":true,"exp":true}`, w.Body.String())
	})

	t.Run("blacklist unavailable", func(t *testing.T) {
		failing := NewAuthMiddleware(manager, &fakeBlacklist{err: errors.New("redis down")})
		r := gin.New()
		r.GET("/me", failing.RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	auth := NewAuthMiddleware(nil, nil)
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set(ctxUserID, uint(1))
		c.Set(ctxRole, c.Query("role"))
	}, auth.RequireRole(user.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?role=USER", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 40104, decodeCode(t, w))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?role=ADMIN", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 2)
	limiter.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/", limiter.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)

	w := hit("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 42900, decodeCode(t, w))
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// 其他客户端不受影响
	assert.Equal(t, http.StatusOK, hit("10.0.0.2").Code)

	// 令牌按速率恢复
	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)

	// 长时间不活跃的客户端被清理
	now = now.Add(5 * time.Minute)
	hit("10.0.0.3")
	assert.NotContains(t, limiter.visitors, "10.0.0.1")
	assert.Contains(t, limiter.visitors, "10.0.0.3")
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(0, 0)
	r := gin.New()
	r.GET("/", limiter.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRequestLogger_PropagatesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(), Recovery())
	r.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestIDFrom(c.Request.Context()))
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(headerRequestID, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(headerRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))
	assert.Len(t, w.Header().Get(headerRequestID), 36)
	assert.Equal(t, w.Header().Get(headerRequestID), w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 50000, decodeCode(t, w))
}
