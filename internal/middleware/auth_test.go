package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/jwt"
)

func authRouter(t *testing.T, svc *jwt.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(svc))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64("user_id"), "role": c.GetString("role")})
	})
	return r
}

func TestJWTAuth_SetsIdentity(t *testing.T) {
	svc := jwt.New("front-desk-secret", time.Hour)
	token, err := svc.GenerateToken(42, domain.RoleStaff)
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter(t, svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"user_id":42,"role":"staff"}`, rr.Body.String())
}

func TestJWTAuth_Rejects(t *testing.T) {
	svc := jwt.New("front-desk-secret", time.Hour)
	forged, _ := jwt.New("someone-else", time.Hour).GenerateToken(1, domain.RoleAdmin)
	expired, _ := jwt.New("front-desk-secret", -time.Minute).GenerateToken(1, domain.RoleGuest)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "AUTH_HEADER_MISSING"},
		{"basic scheme", "Basic Z3Vlc3Q6cGFzcw==", "INVALID_AUTH_FORMAT"},
		{"empty bearer", "Bearer   ", "INVALID_AUTH_FORMAT"},
		{"garbage token", "Bearer not-a-jwt", "INVALID_TOKEN"},
		{"foreign signature", "Bearer " + forged, "INVALID_TOKEN"},
		{"expired", "Bearer " + expired, "INVALID_TOKEN"},
	}

	r := authRouter(t, svc)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.code)
			assert.NotContains(t, rr.Body.String(), `"user_id"`)
		})
	}
}
