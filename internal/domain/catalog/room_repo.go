package catalog

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotelbooking/internal/domain"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) WithTx(tx *gorm.DB) *RoomRepository {
	return &RoomRepository{db: tx}
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Preload("RoomType").
		First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// LockByID reads the room under a row lock.
func (r *RoomRepository) LockByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(room).Error
}

func (r *RoomRepository) NumberTaken(ctx context.Context, number string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("room_number = ?", number).
		Count(&n).Error
	return n > 0, err
}

func (r *RoomRepository) RoomTypeExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.RoomType{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, err
}

func (r *RoomRepository) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var types []domain.RoomType
	err := r.db.WithContext(ctx).Order("name").Find(&types).Error
	return types, err
}

// HasBlockingRequests reports whether any request in a blocking status still
// holds the room.
func (r *RoomRepository) HasBlockingRequests(ctx context.Context, roomID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("room_id = ? AND status IN ?", roomID, domain.BlockingStatusValues()).
		Count(&n).Error
	return n > 0, err
}

// Delete removes the room together with its remaining requests, their guests
// and links, and its calendar.
func (r *RoomRepository) Delete(ctx context.Context, roomID int64) error {
	db := r.db.WithContext(ctx)
	requests := db.Model(&domain.Request{}).Select("id").Where("room_id = ?", roomID)
	cells := db.Model(&domain.CalendarCell{}).Select("id").Where("room_id = ?", roomID)

	if err := db.Where("request_id IN (?)", requests).Delete(&domain.Guest{}).Error; err != nil {
		return err
	}
	if err := db.Where("request_id IN (?) OR calendar_cell_id IN (?)", requests, cells).Delete(&domain.RequestCell{}).Error; err != nil {
		return err
	}
	if err := db.Where("room_id = ?", roomID).Delete(&domain.Request{}).Error; err != nil {
		return err
	}
	if err := db.Where("room_id = ?", roomID).Delete(&domain.CalendarCell{}).Error; err != nil {
		return err
	}
	return db.Delete(&domain.Room{}, roomID).Error
}

// RoomFilters narrows the available-rooms listing.
type RoomFilters struct {
	From     time.Time
	To       time.Time
	RoomType string
	SortBy   string
	Limit    int
	Offset   int
}

// Available lists rooms that no blocking request holds on any day of
// [From, To], with the same inclusive bounds as the overlap detector.
func (r *RoomRepository) Available(ctx context.Context, f RoomFilters) ([]domain.Room, int64, error) {
	db := r.db.WithContext(ctx)
	held := db.Model(&domain.Request{}).
		Select("room_id").
		Where("status IN ?", domain.BlockingStatusValues()).
		Where("check_in <= ? AND check_out >= ?", f.To, f.From)

	q := db.Model(&domain.Room{}).Where("rooms.id NOT IN (?)", held)
	if f.RoomType != "" {
		q = q.Joins("JOIN room_types ON room_types.id = rooms.room_type_id").
			Where("room_types.name = ?", f.RoomType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.SortBy {
	case "price_asc", "price_desc":
		if f.RoomType == "" {
			q = q.Joins("JOIN room_types ON room_types.id = rooms.room_type_id")
		}
		dir := "ASC"
		if f.SortBy == "price_desc" {
			dir = "DESC"
		}
		q = q.Order("room_types.base_price " + dir).Order("rooms.id")
	default:
		q = q.Order("rooms.room_number")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var rooms []domain.Room
	if err := q.Preload("RoomType").Find(&rooms).Error; err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}
