package calendar

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelbooking/internal/pkg/apperror"
	"hotelbooking/internal/pkg/daterange"
	"hotelbooking/internal/pkg/response"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// PUT /admin/rooms/:id/calendar
func (h *Handler) UpsertPricing(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	var req UpsertPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	r, err := daterange.Parse(req.From, req.To)
	if err != nil {
		response.FromError(c, apperror.Validation("date", err.Error()))
		return
	}

	res, err := h.store.UpsertRange(c.Request.Context(), roomID, r, req.Price)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// PATCH /admin/rooms/:id/calendar/availability
func (h *Handler) OverrideAvailability(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	var req OverrideAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	r, err := daterange.Parse(req.From, req.To)
	if err != nil {
		response.FromError(c, apperror.Validation("date", err.Error()))
		return
	}

	n, err := h.store.OverrideAvailability(c.Request.Context(), c.GetInt64("user_id"), roomID, r, *req.Available)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n})
}

// GET /admin/rooms/:id/calendar?from=&to=
func (h *Handler) ListCalendar(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	r := h.store.DefaultWindow()
	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		if from == "" {
			from = r.From.Format(daterange.Layout)
		}
		if to == "" {
			to = r.To.Format(daterange.Layout)
		}
		parsed, err := daterange.Parse(from, to)
		if err != nil {
			response.FromError(c, apperror.Validation("date", err.Error()))
			return
		}
		r = parsed
	}

	cells, err := h.store.ListRange(c.Request.Context(), roomID, r)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCalendarResponse(roomID, r, cells))
}

func roomIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return 0, false
	}
	return id, true
}
