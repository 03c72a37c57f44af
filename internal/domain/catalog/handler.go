package catalog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hotelbooking/internal/pkg/apperror"
	"hotelbooking/internal/pkg/daterange"
	"hotelbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func roomIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return 0, false
	}
	return id, true
}

func dateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(daterange.Layout, raw)
	if err != nil {
		return nil, apperror.Validation(key, "date must be YYYY-MM-DD")
	}
	return &t, nil
}

// GetAvailableRooms lists rooms free for the whole window.
// GET /rooms/available?check_in=&check_out=&room_type=&sort_by=&page=&limit=
func (h *Handler) GetAvailableRooms(c *gin.Context) {
	var q AvailableQuery
	var err error
	if q.CheckIn, err = dateQuery(c, "check_in"); err != nil {
		response.FromError(c, err)
		return
	}
	if q.CheckOut, err = dateQuery(c, "check_out"); err != nil {
		response.FromError(c, err)
		return
	}
	q.RoomType = c.Query("room_type")
	q.SortBy = c.Query("sort_by")

	// Pagination
	q.Limit = 20
	if limit := c.Query("limit"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil && val > 0 && val <= 100 {
			q.Limit = val
		}
	}
	if page := c.Query("page"); page != "" {
		if val, err := strconv.Atoi(page); err == nil && val > 0 {
			q.Offset = (val - 1) * q.Limit
		}
	}

	rooms, total, err := h.service.AvailableRooms(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"rooms": rooms,
		"pagination": gin.H{
			"page":        q.Offset/q.Limit + 1,
			"limit":       q.Limit,
			"total":       total,
			"total_pages": (int(total) + q.Limit - 1) / q.Limit,
		},
	})
}

// GET /rooms/:id
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		return
	}
	room, err := h.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

// GET /room-types
func (h *Handler) GetRoomTypes(c *gin.Context) {
	types, err := h.service.ListRoomTypes(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room_types": types})
}

// CreateRoom creates a room and optionally its first pricing window.
// POST /admin/rooms
func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	pricing, err := req.pricing()
	if err != nil {
		response.FromError(c, err)
		return
	}

	room, priced, err := h.service.CreateRoom(c.Request.Context(), req.input(), pricing)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, RoomResponse{Room: room, Pricing: priced})
}

// DELETE /admin/rooms/:id
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteRoom(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
