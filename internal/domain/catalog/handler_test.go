package catalog

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

	"hotelbooking/internal/pkg/daterange"
)

func setupTestRouter(t *testing.T) (*gin.Engine, int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, _, rt := setupService(t)
	h := NewHandler(s)

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterRoutes(api)
	h.RegisterAdminRoutes(api.Group("/admin"))
	return r, rt.ID
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

func TestHandler_CreateGetDeleteRoom(t *testing.T) {
	r, typeID := setupTestRouter(t)
	from := today().AddDate(0, 0, 1)

	rr := doJSON(r, http.MethodPost, "/api/v1/admin/rooms", map[string]any{
		"room_number":     "701",
		"room_type_id":    typeID,
		"capacity":        2,
		"description":     "Corner room",
		"price_from_date": from.Format(daterange.Layout),
		"price_to_date":   from.AddDate(0, 0, 2).Format(daterange.Layout),
		"price":           90,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created struct {
		Data struct {
			Room struct {
				ID int64 `json:"id"`
			} `json:"room"`
			Pricing struct {
				Inserted int `json:"inserted"`
			} `json:"pricing"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, 3, created.Data.Pricing.Inserted)
	id := created.Data.Room.ID

	rr = doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%d", id), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"room_number":"701"`)

	rr = doJSON(r, http.MethodGet, "/api/v1/rooms/available", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":1`)

	rr = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/admin/rooms/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_CreateRoomPartialPricing(t *testing.T) {
	r, typeID := setupTestRouter(t)

	rr := doJSON(r, http.MethodPost, "/api/v1/admin/rooms", map[string]any{
		"room_number":  "702",
		"room_type_id": typeID,
		"capacity":     2,
		"description":  "Corner room",
		"price":        90,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "price_from_date")
}

func TestHandler_AvailableRoomsBadDate(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := doJSON(r, http.MethodGet, "/api/v1/rooms/available?check_in=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(r, http.MethodGet, "/api/v1/rooms/available?check_in=2030-01-05&check_out=2030-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(r, http.MethodGet, "/api/v1/rooms/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
