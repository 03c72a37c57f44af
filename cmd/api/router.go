package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelbooking/internal/domain/booking"
	"hotelbooking/internal/domain/calendar"
	"hotelbooking/internal/domain/catalog"
	"hotelbooking/internal/domain/notification"
	"hotelbooking/internal/domain/review"
	"hotelbooking/internal/middleware"
	jwtsvc "hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/response"
)

type routerDeps struct {
	JWT                 *jwtsvc.Service
	RateLimiter         *middleware.RateLimiter
	CORSAllowedOrigins  []string
	BookingHandler      *booking.Handler
	CalendarHandler     *calendar.Handler
	CatalogHandler      *catalog.Handler
	NotificationHandler *notification.Handler
	ReviewHandler       *review.Handler
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(d.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		d.CatalogHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(d.JWT))
		{
			d.BookingHandler.RegisterRoutes(protected, d.RateLimiter.Middleware())
			notification.RegisterRoutes(protected, d.NotificationHandler)

			staff := protected.Group("/admin")
			staff.Use(middleware.StaffOnly())
			d.BookingHandler.RegisterStaffRoutes(staff)
			d.ReviewHandler.RegisterRoutes(v1, protected, staff)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			d.CalendarHandler.RegisterAdminRoutes(admin)
			d.CatalogHandler.RegisterAdminRoutes(admin)
		}
	}

	return r
}
