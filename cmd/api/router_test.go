package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/internal/database/dbtest"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/domain/booking"
	"hotelbooking/internal/domain/calendar"
	"hotelbooking/internal/domain/catalog"
	"hotelbooking/internal/domain/notification"
	"hotelbooking/internal/domain/review"
	"hotelbooking/internal/middleware"
	jwtsvc "hotelbooking/internal/pkg/jwt"
)

func setupRouter(t *testing.T) (*gin.Engine, *jwtsvc.Service, map[domain.UserRole]*domain.User, int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.New(t)

	repo := notification.NewNotificationRepository(db)
	dispatcher := notification.NewDispatcher(repo, nil, notification.Options{Workers: 1})
	t.Cleanup(func() { _ = dispatcher.Close(context.Background()) })

	cal := calendar.NewStore(db)
	j := jwtsvc.New("router-test-secret", time.Hour)

	r := newRouter(routerDeps{
		JWT:                 j,
		RateLimiter:         middleware.NewRateLimiter(100, 100),
		CORSAllowedOrigins:  []string{"http://localhost:3000"},
		BookingHandler:      booking.NewHandler(booking.NewService(db, cal, dispatcher, 6)),
		CalendarHandler:     calendar.NewHandler(cal),
		CatalogHandler:      catalog.NewHandler(catalog.NewService(db, cal)),
		NotificationHandler: notification.NewHandler(notification.NewService(repo)),
		ReviewHandler:       review.NewHandler(review.NewService(review.NewReviewRepository(db), booking.NewRepository(db))),
	})

	users := map[domain.UserRole]*domain.User{
		domain.RoleGuest: dbtest.User(t, db, "guest@hotel.test", domain.RoleGuest),
		domain.RoleStaff: dbtest.User(t, db, "staff@hotel.test", domain.RoleStaff),
		domain.RoleAdmin: dbtest.User(t, db, "admin@hotel.test", domain.RoleAdmin),
	}
	room := dbtest.Room(t, db, "101", 2)
	return r, j, users, room.ID
}

func get(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	r, _, _, _ := setupRouter(t)

	rr := get(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_PublicAndProtected(t *testing.T) {
	r, j, users, roomID := setupRouter(t)

	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "/api/v1/room-types", "").Code)
	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%d", roomID), "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, http.MethodGet, "/api/v1/bookings/current", "").Code)

	token, err := j.GenerateToken(users[domain.RoleGuest].ID, domain.RoleGuest)
	require.NoError(t, err)

	rr := get(r, http.MethodGet, "/api/v1/bookings/current", token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"draft"`)

	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "/api/v1/notifications", token).Code)
	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%d/reviews", roomID), "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, http.MethodGet, "/api/v1/users/me/reviews", "").Code)
	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "/api/v1/users/me/reviews", token).Code)
}

func TestRouter_RoleGroups(t *testing.T) {
	r, j, users, roomID := setupRouter(t)

	tokens := map[domain.UserRole]string{}
	for role, u := range users {
		tok, err := j.GenerateToken(u.ID, role)
		require.NoError(t, err)
		tokens[role] = tok
	}

	calendarPath := fmt.Sprintf("/api/v1/admin/rooms/%d/calendar", roomID)
	assert.Equal(t, http.StatusForbidden, get(r, http.MethodGet, calendarPath, tokens[domain.RoleGuest]).Code)
	assert.Equal(t, http.StatusForbidden, get(r, http.MethodGet, calendarPath, tokens[domain.RoleStaff]).Code)
	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, calendarPath, tokens[domain.RoleAdmin]).Code)

	// Staff passes the role check and reaches the handler, which rejects the empty body.
	statusPath := "/api/v1/admin/bookings/999/status"
	assert.Equal(t, http.StatusForbidden, get(r, http.MethodPatch, statusPath, tokens[domain.RoleGuest]).Code)
	assert.Equal(t, http.StatusBadRequest, get(r, http.MethodPatch, statusPath, tokens[domain.RoleStaff]).Code)

	assert.Equal(t, http.StatusForbidden, get(r, http.MethodGet, "/api/v1/admin/reviews", tokens[domain.RoleGuest]).Code)
	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "/api/v1/admin/reviews", tokens[domain.RoleStaff]).Code)
}
