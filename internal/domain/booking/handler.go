package booking

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelbooking/internal/domain"
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

func idParam(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+what+" ID")
		return 0, false
	}
	return id, true
}

// GET /bookings/current
func (h *Handler) GetCurrentBooking(c *gin.Context) {
	b, err := h.service.GetOrCreateDraftBooking(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// GET /bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := idParam(c, "booking")
	if !ok {
		return
	}
	staff := domain.UserRole(c.GetString("role")).IsStaff()
	b, err := h.service.GetBooking(c.Request.Context(), id, c.GetInt64("user_id"), staff)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// GET /users/me/bookings
func (h *Handler) GetMyBookings(c *gin.Context) {
	items, err := h.service.ListUserBookings(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": items})
}

// POST /bookings/:id/requests
func (h *Handler) CreateRequest(c *gin.Context) {
	id, ok := idParam(c, "booking")
	if !ok {
		return
	}
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}
	stay, err := daterange.Parse(body.CheckIn, body.CheckOut)
	if err != nil {
		response.FromError(c, apperror.Validation("check_in", err.Error()))
		return
	}

	req, err := h.service.CreateRequest(c.Request.Context(), id, c.GetInt64("user_id"), CreateRequestInput{
		RoomID:         body.RoomID,
		Stay:           stay,
		NumberOfGuests: body.NumberOfGuests,
		Note:           body.Note,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"request": req})
}

// PATCH /bookings/:id/confirm
func (h *Handler) ConfirmBooking(c *gin.Context) {
	id, ok := idParam(c, "booking")
	if !ok {
		return
	}
	b, err := h.service.ConfirmBooking(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// PATCH /bookings/:id/cancel
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := idParam(c, "booking")
	if !ok {
		return
	}
	b, err := h.service.CancelBooking(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// DELETE /bookings/:id
func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := idParam(c, "booking")
	if !ok {
		return
	}
	if err := h.service.DeleteBooking(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /requests/:id
func (h *Handler) RemoveRequest(c *gin.Context) {
	id, ok := idParam(c, "request")
	if !ok {
		return
	}
	if err := h.service.RemoveRequest(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PATCH /requests/:id/cancel
func (h *Handler) CancelRequest(c *gin.Context) {
	id, ok := idParam(c, "request")
	if !ok {
		return
	}
	req, err := h.service.CancelRequest(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": req})
}

// PATCH /admin/bookings/:id/status
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	id, ok := idParam(c, "booking")
	if !ok {
		return
	}
	var body UpdateBookingStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.UpdateBookingStatus(c.Request.Context(), id,
		domain.BookingStatus(body.Status), c.GetInt64("user_id"), body.DeclineReason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// PATCH /admin/requests/:id/status
func (h *Handler) UpdateRequestStatus(c *gin.Context) {
	id, ok := idParam(c, "request")
	if !ok {
		return
	}
	var body UpdateRequestStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	req, err := h.service.UpdateRequestStatus(c.Request.Context(), id,
		domain.RequestStatus(body.Status), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": req})
}

// POST /admin/requests/:id/guests
func (h *Handler) AddGuest(c *gin.Context) {
	id, ok := idParam(c, "request")
	if !ok {
		return
	}
	var body GuestInput
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	g, err := h.service.AddGuest(c.Request.Context(), id, body)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"guest": g})
}
