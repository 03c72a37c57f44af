package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/domain/booking"
	"hotelbooking/internal/domain/calendar"
	"hotelbooking/internal/domain/catalog"
	"hotelbooking/internal/domain/notification"
	"hotelbooking/internal/domain/review"
	"hotelbooking/internal/middleware"
	jwtsvc "hotelbooking/internal/pkg/jwt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, database.Options{
		LogLevel:      database.ParseLogLevel(cfg.DBLogLevel),
		SlowThreshold: cfg.DBSlowThreshold,
	})
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	var pub notification.Publisher
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisPub, err := notification.NewRedisPublisher(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Printf("redis unavailable, events stay in the inbox only: %v", err)
		} else {
			defer redisPub.Close()
			pub = redisPub
		}
	}

	notifRepo := notification.NewNotificationRepository(db)
	dispatcher := notification.NewDispatcher(notifRepo, pub, notification.Options{
		Workers:   cfg.NotifyWorkers,
		QueueSize: cfg.NotifyQueueSize,
		Channel:   cfg.NotifyChannel,
	})

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	cal := calendar.NewStore(db)

	bookingService := booking.NewService(db, cal, dispatcher, cfg.BookingCodeLength)
	catalogService := catalog.NewService(db, cal)
	reviewService := review.NewService(review.NewReviewRepository(db), booking.NewRepository(db))

	router := newRouter(routerDeps{
		JWT:                 j,
		RateLimiter:         middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		BookingHandler:      booking.NewHandler(bookingService),
		CalendarHandler:     calendar.NewHandler(cal),
		CatalogHandler:      catalog.NewHandler(catalogService),
		NotificationHandler: notification.NewHandler(notification.NewService(notifRepo)),
		ReviewHandler:       review.NewHandler(reviewService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server started port=%s env=%s", cfg.Port, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	if err := dispatcher.Close(ctx); err != nil {
		log.Printf("notification queue not drained: %v", err)
	}

	log.Println("server exited")
}
