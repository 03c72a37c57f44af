package catalog

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	rooms := r.Group("/rooms")
	{
		rooms.GET("/available", h.GetAvailableRooms) // GET /api/v1/rooms/available?check_in=...&check_out=...
		rooms.GET("/:id", h.GetRoom)                 // GET /api/v1/rooms/:id
	}

	r.GET("/room-types", h.GetRoomTypes)
}

// RegisterAdminRoutes expects a group already restricted to admins.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/rooms", h.CreateRoom)
	admin.DELETE("/rooms/:id", h.DeleteRoom)
}
