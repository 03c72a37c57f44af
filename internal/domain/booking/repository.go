package booking

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotelbooking/internal/domain"
)

// Repository wraps the booking, request and guest tables. Use WithTx to run
// its queries inside a transaction.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) DB() *gorm.DB { return r.db }

// LockBooking loads the booking with SELECT ... FOR UPDATE.
func (r *Repository) LockBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, id).Error
	if err != nil {
		return nil, notFound(err, ErrBookingNotFound)
	}
	return &b, nil
}

func (r *Repository) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Requests", func(db *gorm.DB) *gorm.DB { return db.Order("requests.id") }).
		Preload("Requests.Room").
		Preload("Requests.Guests").
		First(&b, id).Error
	if err != nil {
		return nil, notFound(err, ErrBookingNotFound)
	}
	return &b, nil
}

func (r *Repository) FindDraft(ctx context.Context, userID int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(domain.BookingDraft)).
		Preload("Requests", func(db *gorm.DB) *gorm.DB { return db.Order("requests.id") }).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) CreateBooking(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Requests", func(db *gorm.DB) *gorm.DB { return db.Order("requests.id") }).
		Preload("Requests.Room").
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *Repository) UpdateBooking(ctx context.Context, id int64, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("booking_code = ?", code).
		Count(&n).Error
	return n > 0, err
}

// RequestsOf lists the requests of a booking, ordered by id.
func (r *Repository) RequestsOf(ctx context.Context, bookingID int64) ([]domain.Request, error) {
	var out []domain.Request
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id").
		Find(&out).Error
	return out, err
}

func (r *Repository) LockRequest(ctx context.Context, id int64) (*domain.Request, error) {
	var req domain.Request
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, id).Error
	if err != nil {
		return nil, notFound(err, ErrRequestNotFound)
	}
	return &req, nil
}

func (r *Repository) CreateRequest(ctx context.Context, req *domain.Request) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
}

func (r *Repository) UpdateRequestStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now().UTC()}).Error
}

// LockRooms takes row locks on the rooms in ascending id order so that two
// transactions locking overlapping sets cannot deadlock.
func (r *Repository) LockRooms(ctx context.Context, ids []int64) ([]domain.Room, error) {
	ids = uniqueSorted(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&rooms).Error
	return rooms, err
}

func (r *Repository) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, notFound(err, ErrRoomNotFound)
	}
	return &room, nil
}

// BlockingOverlaps returns the requests on roomID, other than excludeID, in a
// blocking status whose stay overlaps [from, to] with inclusive bounds.
func (r *Repository) BlockingOverlaps(ctx context.Context, roomID, excludeID int64, from, to time.Time) ([]domain.Request, error) {
	var out []domain.Request
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND id <> ?", roomID, excludeID).
		Where("status IN ?", domain.BlockingStatusValues()).
		Where("check_in <= ? AND check_out >= ?", to, from).
		Order("id").
		Find(&out).Error
	return out, err
}

// LinkedCellIDs returns the occupancy set of a request.
func (r *Repository) LinkedCellIDs(ctx context.Context, requestID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.RequestCell{}).
		Where("request_id = ?", requestID).
		Pluck("calendar_cell_id", &ids).Error
	return ids, err
}

// ReplaceLinks swaps the occupancy set of a request for cellIDs.
func (r *Repository) ReplaceLinks(ctx context.Context, requestID int64, cellIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("request_id = ?", requestID).Delete(&domain.RequestCell{}).Error; err != nil {
		return err
	}
	if len(cellIDs) == 0 {
		return nil
	}
	links := make([]domain.RequestCell, len(cellIDs))
	for i, id := range cellIDs {
		links[i] = domain.RequestCell{RequestID: requestID, CalendarCellID: id}
	}
	return db.Create(&links).Error
}

// DeleteRequests removes requests with their guests and occupancy rows.
func (r *Repository) DeleteRequests(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("request_id IN ?", ids).Delete(&domain.Guest{}).Error; err != nil {
		return err
	}
	if err := db.Where("request_id IN ?", ids).Delete(&domain.RequestCell{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", ids).Delete(&domain.Request{}).Error
}

func (r *Repository) DeleteBooking(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Booking{}, id).Error
}

func (r *Repository) CountGuests(ctx context.Context, requestID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Guest{}).
		Where("request_id = ?", requestID).
		Count(&n).Error
	return n, err
}

func (r *Repository) CreateGuest(ctx context.Context, g *domain.Guest) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// StayOf returns a request with the user who owns its booking.
func (r *Repository) StayOf(ctx context.Context, requestID int64) (*domain.Request, int64, error) {
	var req domain.Request
	if err := r.db.WithContext(ctx).First(&req, requestID).Error; err != nil {
		return nil, 0, notFound(err, ErrRequestNotFound)
	}
	var b domain.Booking
	if err := r.db.WithContext(ctx).Select("id", "user_id").First(&b, req.BookingID).Error; err != nil {
		return nil, 0, notFound(err, ErrBookingNotFound)
	}
	return &req, b.UserID, nil
}
