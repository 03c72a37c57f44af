package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/internal/domain"
)

func withRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func serve(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		role  string
		guard gin.HandlerFunc
		want  int
	}{
		{"staff", StaffOnly(), http.StatusOK},
		{"admin", StaffOnly(), http.StatusOK},
		{"guest", StaffOnly(), http.StatusForbidden},
		{"staff", AdminOnly(), http.StatusForbidden},
		{"admin", AdminOnly(), http.StatusOK},
		{"", RequireRole(domain.RoleGuest), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/x", withRole(tc.role), tc.guard, func(c *gin.Context) { c.Status(http.StatusOK) })
		w := serve(r, http.MethodGet, "/x", nil)
		assert.Equal(t, tc.want, w.Code, "role %q", tc.role)
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, requestID(c)) })

	w := serve(r, http.MethodGet, "/x", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	w = serve(r, http.MethodGet, "/x", nil)
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, 2)
	frozen := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return frozen }

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-User") == "7" {
			c.Set("user_id", int64(7))
		}
		c.Next()
	}, rl.Middleware())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	user := map[string]string{"X-User": "7"}
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/x", user).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/x", user).Code)
	w := serve(r, http.MethodPost, "/x", user)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	// An anonymous client has its own bucket.
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/x", nil).Code)

	frozen = frozen.Add(time.Second)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/x", user).Code)
}

func TestRateLimiter_ForgetsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	require.True(t, rl.allow("a"))
	now = now.Add(limiterIdleTTL + time.Minute)
	require.True(t, rl.allow("b"))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "a")
	assert.Contains(t, rl.clients, "b")
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/x", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "GET",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = serve(r, http.MethodGet, "/x", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestErrorLogger_RecoversPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ErrorLogger())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, w.Body.String(), "boom")
}
