package review

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the review routes. Any group may be nil; staff must
// already be restricted to staff members.
func (h *Handler) RegisterRoutes(public, protected, staff *gin.RouterGroup) {
	if public != nil {
		public.GET("/rooms/:id/reviews", h.GetByRoom)
	}

	if protected != nil {
		protected.POST("/reviews", h.Create)
		protected.GET("/users/me/reviews", h.GetMyReviews)
		protected.DELETE("/reviews/:id", h.Delete)
	}

	if staff != nil {
		staff.GET("/reviews", h.List)
		staff.PATCH("/reviews/:id", h.Moderate)
	}
}
