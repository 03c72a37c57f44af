package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/internal/database/dbtest"
)

func setupTestRouter(t *testing.T) (*gin.Engine, int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, db := setupStore(t)
	room := dbtest.Room(t, db, "201", 3)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", int64(1))
		c.Set("role", "admin")
		c.Next()
	})
	NewHandler(s).RegisterAdminRoutes(r.Group("/api/v1/admin"))
	return r, room.ID
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_UpsertThenList(t *testing.T) {
	r, roomID := setupTestRouter(t)
	base := fmt.Sprintf("/api/v1/admin/rooms/%d/calendar", roomID)

	rr := doJSON(r, http.MethodPut, base, map[string]any{"from": "2025-06-01", "to": "2025-06-03", "price": 100})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var upsert struct {
		Success bool         `json:"success"`
		Data    UpsertResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &upsert))
	assert.True(t, upsert.Success)
	assert.Equal(t, 3, upsert.Data.Inserted)

	rr = doJSON(r, http.MethodGet, base+"?from=2025-06-01&to=2025-06-05", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var list struct {
		Data CalendarResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Data.Cells, 3)
	assert.Equal(t, "2025-06-01", list.Data.Cells[0].Date)
	assert.True(t, list.Data.Cells[0].Available)
}

func TestHandler_UpsertValidationError(t *testing.T) {
	r, roomID := setupTestRouter(t)
	path := fmt.Sprintf("/api/v1/admin/rooms/%d/calendar", roomID)

	rr := doJSON(r, http.MethodPut, path, map[string]any{"from": "2025-06-01", "to": "2025-06-03", "price": 0})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, rr.Body.String(), "price")

	rr = doJSON(r, http.MethodPut, path, map[string]any{"from": "06/01/2025", "to": "2025-06-03", "price": 10})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_OverrideAvailability(t *testing.T) {
	r, roomID := setupTestRouter(t)
	base := fmt.Sprintf("/api/v1/admin/rooms/%d/calendar", roomID)

	rr := doJSON(r, http.MethodPut, base, map[string]any{"from": "2025-06-01", "to": "2025-06-02", "price": 70})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(r, http.MethodPatch, base+"/availability", map[string]any{"from": "2025-06-01", "to": "2025-06-02", "available": false})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"updated":2`)

	rr = doJSON(r, http.MethodPatch, base+"/availability", map[string]any{"from": "2025-06-01", "to": "2025-06-02"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_UnknownRoom(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := doJSON(r, http.MethodGet, "/api/v1/admin/rooms/999/calendar", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(r, http.MethodGet, "/api/v1/admin/rooms/abc/calendar", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
