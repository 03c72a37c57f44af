package calendar

import "github.com/gin-gonic/gin"

// RegisterAdminRoutes expects a group already restricted to administrators.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	rooms := admin.Group("/rooms/:id/calendar")
	{
		rooms.GET("", h.ListCalendar)
		rooms.PUT("", h.UpsertPricing)
		rooms.PATCH("/availability", h.OverrideAvailability)
	}
}
