package booking

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the guest routes on an authenticated group. The
// optional middlewares guard only the routes that change state.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mutate ...gin.HandlerFunc) {
	with := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, mutate...), handler)
	}

	rg.GET("/bookings/current", h.GetCurrentBooking)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.GET("/users/me/bookings", h.GetMyBookings)

	rg.POST("/bookings/:id/requests", with(h.CreateRequest)...)
	rg.PATCH("/bookings/:id/confirm", with(h.ConfirmBooking)...)
	rg.PATCH("/bookings/:id/cancel", with(h.CancelBooking)...)
	rg.DELETE("/bookings/:id", with(h.DeleteBooking)...)

	rg.DELETE("/requests/:id", with(h.RemoveRequest)...)
	rg.PATCH("/requests/:id/cancel", with(h.CancelRequest)...)
}

// RegisterStaffRoutes expects a group already restricted to staff.
func (h *Handler) RegisterStaffRoutes(staff *gin.RouterGroup) {
	staff.PATCH("/bookings/:id/status", h.UpdateBookingStatus)
	staff.PATCH("/requests/:id/status", h.UpdateRequestStatus)
	staff.POST("/requests/:id/guests", h.AddGuest)
}
