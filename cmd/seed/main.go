package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/domain/calendar"
	"hotelbooking/internal/pkg/daterange"
	jwtsvc "hotelbooking/internal/pkg/jwt"
)

type seedRoom struct {
	Number   string
	Type     string
	Capacity int
	Desc     string
}

func main() {
	days := flag.Int("days", 60, "number of calendar days to open from today")
	printTokens := flag.Bool("tokens", false, "print access tokens for the demo users")
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
		log.Fatal("DB connection failed:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	// ================== ROOM TYPES ==================
	log.Println("Upserting room types...")
	types := []domain.RoomType{
		{Name: "Standard", Description: "Queen bed, city view", BasePrice: 90},
		{Name: "Deluxe", Description: "King bed, balcony", BasePrice: 140},
		{Name: "Suite", Description: "Separate living room", BasePrice: 260},
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "base_price", "updated_at"}),
	}).Create(&types).Error; err != nil {
		log.Fatal("room types:", err)
	}

	typeIDs := map[string]domain.RoomType{}
	var stored []domain.RoomType
	if err := db.Find(&stored).Error; err != nil {
		log.Fatal("room types:", err)
	}
	for _, rt := range stored {
		typeIDs[rt.Name] = rt
	}

	// ================== ROOMS ==================
	log.Println("Upserting rooms...")
	plan := []seedRoom{
		{"101", "Standard", 2, "Quiet room facing the courtyard"},
		{"102", "Standard", 2, "Close to the elevator"},
		{"103", "Standard", 3, "Extra sofa bed"},
		{"201", "Deluxe", 2, "Balcony over the main street"},
		{"202", "Deluxe", 3, "Corner room, two balconies"},
		{"301", "Suite", 4, "Top floor with living room"},
	}
	rooms := make([]domain.Room, 0, len(plan))
	for _, p := range plan {
		room := domain.Room{
			RoomNumber:  p.Number,
			RoomTypeID:  typeIDs[p.Type].ID,
			Capacity:    p.Capacity,
			Description: p.Desc,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"room_type_id", "capacity", "description", "updated_at"}),
		}).Omit(clause.Associations).Create(&room).Error; err != nil {
			log.Fatalf("room %s: %v", p.Number, err)
		}
		var saved domain.Room
		if err := db.Where("room_number = ?", p.Number).First(&saved).Error; err != nil {
			log.Fatalf("room %s: %v", p.Number, err)
		}
		saved.RoomType = ptr(typeIDs[p.Type])
		rooms = append(rooms, saved)
	}

	// ================== CALENDAR ==================
	log.Printf("Opening %d calendar days...", *days)
	cal := calendar.NewStore(db)
	today := daterange.Day(time.Now())
	window := daterange.New(today, today.AddDate(0, 0, *days-1))
	for _, room := range rooms {
		if _, err := cal.UpsertRange(context.Background(), room.ID, window, room.RoomType.BasePrice); err != nil {
			log.Fatalf("calendar for room %s: %v", room.RoomNumber, err)
		}
	}

	// ================== USERS ==================
	log.Println("Upserting users...")
	users := []struct {
		Email    string
		Password string
		Role     domain.UserRole
		Name     string
	}{
		{"admin@hotel.local", "admin123", domain.RoleAdmin, "Administrator"},
		{"frontdesk@hotel.local", "staff123", domain.RoleStaff, "Front Desk"},
		{"guest1@mail.local", "guest123", domain.RoleGuest, "Guest 1"},
		{"guest2@mail.local", "guest123", domain.RoleGuest, "Guest 2"},
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	for _, u := range users {
		user, err := upsertUser(db, u.Email, u.Password, u.Role, u.Name)
		if err != nil {
			log.Fatalf("user %s: %v", u.Email, err)
		}
		log.Printf("%s ready: %s / %s", u.Role, u.Email, u.Password)

		if *printTokens {
			token, err := j.GenerateToken(user.ID, user.Role)
			if err != nil {
				log.Fatalf("token for %s: %v", u.Email, err)
			}
			fmt.Printf("%s\t%s\n", u.Email, token)
		}
	}

	log.Println("Seed completed")
}

func upsertUser(db *gorm.DB, email, password string, role domain.UserRole, name string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := domain.User{Email: email, PasswordHash: string(hash), Role: role, Name: name}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "role", "name", "updated_at"}),
	}).Create(&user).Error; err != nil {
		return nil, err
	}
	var saved domain.User
	if err := db.Where("email = ?", email).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func ptr[T any](v T) *T { return &v }
