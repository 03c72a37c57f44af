// Package dbtest opens migrated in-memory SQLite databases for package tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
)

// New returns a fresh database private to the running test.
func New(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:hotel_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Room inserts a room type on first use and a room with the given number.
func Room(t *testing.T, db *gorm.DB, number string, capacity int) *domain.Room {
	t.Helper()
	rt := domain.RoomType{Name: "Standard", BasePrice: 100}
	if err := db.Where(domain.RoomType{Name: rt.Name}).FirstOrCreate(&rt).Error; err != nil {
		t.Fatalf("failed to create room type: %v", err)
	}
	room := &domain.Room{
		RoomNumber:  number,
		RoomTypeID:  rt.ID,
		Capacity:    capacity,
		Description: "Room " + number,
	}
	if err := db.Create(room).Error; err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	return room
}

// Cells inserts available cells for every day from..to inclusive.
func Cells(t *testing.T, db *gorm.DB, roomID int64, from, to time.Time, price float64) []domain.CalendarCell {
	t.Helper()
	var cells []domain.CalendarCell
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		cells = append(cells, domain.CalendarCell{RoomID: roomID, Date: d, Price: price, Available: true})
	}
	if err := db.Omit("Room").Create(&cells).Error; err != nil {
		t.Fatalf("failed to create calendar cells: %v", err)
	}
	return cells
}

// User inserts a user with the given role.
func User(t *testing.T, db *gorm.DB, email string, role domain.UserRole) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Role: role, Name: email}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

// Date builds midnight UTC of the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
