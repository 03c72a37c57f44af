package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/domain/calendar"
	"hotelbooking/internal/domain/notification"
)

func main() {
	keepDays := flag.Int("notifications-keep-days", 90, "delete notifications older than this many days")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, database.Options{
		LogLevel:      database.ParseLogLevel(cfg.DBLogLevel),
		SlowThreshold: cfg.DBSlowThreshold,
	})
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()

	cells, err := calendar.NewStore(db).PrunePast(ctx)
	if err != nil {
		log.Fatalf("cleanup calendar_cells failed: %v", err)
	}

	notifs, err := notification.NewCleanupService(notification.NewNotificationRepository(db)).
		CleanupOldNotifications(ctx, *keepDays)
	if err != nil {
		log.Fatalf("cleanup notifications failed: %v", err)
	}

	log.Printf("calendar prune completed: calendar_cells=%d notifications=%d", cells, notifs)
}
