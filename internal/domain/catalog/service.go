package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/domain/calendar"
	"hotelbooking/internal/pkg/apperror"
	"hotelbooking/internal/pkg/daterange"
	"hotelbooking/internal/pkg/validator"
)

var (
	ErrRoomNotFound  = apperror.NotFound("room")
	ErrRoomHeld      = apperror.Validation("room", "room has active reservations and cannot be deleted")
	ErrNumberTaken   = apperror.Validation("room_number", "room number is already taken")
	ErrUnknownType   = apperror.Validation("room_type_id", "room type does not exist")
	ErrInvalidWindow = apperror.Validation("check_out", "check-out must not be before check-in")
)

type Service struct {
	db      *gorm.DB
	rooms   *RoomRepository
	pricing Pricing
	now     func() time.Time
}

func NewService(db *gorm.DB, pricing Pricing) *Service {
	return &Service{
		db:      db,
		rooms:   NewRoomRepository(db),
		pricing: pricing,
		now:     time.Now,
	}
}

type PricingInput struct {
	Stay  daterange.Range
	Price float64
}

type CreateRoomInput struct {
	RoomNumber  string `json:"room_number" validate:"required,max=32"`
	RoomTypeID  int64  `json:"room_type_id" validate:"required"`
	Capacity    int    `json:"capacity" validate:"required,gt=0"`
	Description string `json:"description" validate:"required,max=140"`
}

// CreateRoom stores the room and, when pricing is given, writes its calendar
// in the same transaction. A pricing failure rolls the room back.
func (s *Service) CreateRoom(ctx context.Context, in CreateRoomInput, pricing *PricingInput) (*domain.Room, *calendar.UpsertResult, error) {
	in.RoomNumber = strings.TrimSpace(in.RoomNumber)
	in.Description = strings.TrimSpace(in.Description)
	if errs := validator.Validate(in); errs != nil {
		return nil, nil, apperror.ValidationFields(errs)
	}

	room := &domain.Room{
		RoomNumber:  in.RoomNumber,
		RoomTypeID:  in.RoomTypeID,
		Capacity:    in.Capacity,
		Description: in.Description,
	}
	var priced *calendar.UpsertResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.rooms.WithTx(tx)

		ok, err := repo.RoomTypeExists(ctx, in.RoomTypeID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownType
		}
		taken, err := repo.NumberTaken(ctx, in.RoomNumber)
		if err != nil {
			return err
		}
		if taken {
			return ErrNumberTaken
		}

		if err := repo.Create(ctx, room); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrNumberTaken
			}
			return err
		}
		if pricing == nil {
			return nil
		}
		priced, err = s.pricing.UpsertRangeTx(ctx, tx, room.ID, pricing.Stay, pricing.Price)
		return err
	})
	if err != nil {
		return nil, nil, createFailed(err)
	}

	log.Printf("room_created room_id=%d room_number=%s priced=%t", room.ID, room.RoomNumber, priced != nil)
	return room, priced, nil
}

func createFailed(err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	if database.IsRetryable(err) {
		return apperror.Concurrency("failed to create room", err)
	}
	return fmt.Errorf("create room: %w", err)
}

// DeleteRoom removes a room that no blocking request holds.
func (s *Service) DeleteRoom(ctx context.Context, roomID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.rooms.WithTx(tx)
		if _, err := repo.LockByID(ctx, roomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		held, err := repo.HasBlockingRequests(ctx, roomID)
		if err != nil {
			return err
		}
		if held {
			return ErrRoomHeld
		}
		return repo.Delete(ctx, roomID)
	})
	if err != nil {
		return err
	}
	log.Printf("room_deleted room_id=%d", roomID)
	return nil
}

func (s *Service) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	return room, err
}

type AvailableQuery struct {
	CheckIn  *time.Time
	CheckOut *time.Time
	RoomType string
	SortBy   string
	Limit    int
	Offset   int
}

// AvailableRooms lists rooms free on every day of the window. Check-in
// defaults to today and check-out to check-in.
func (s *Service) AvailableRooms(ctx context.Context, q AvailableQuery) ([]domain.Room, int64, error) {
	from := daterange.Day(s.now())
	if q.CheckIn != nil {
		from = daterange.Day(*q.CheckIn)
	}
	to := from
	if q.CheckOut != nil {
		to = daterange.Day(*q.CheckOut)
	}
	if to.Before(from) {
		return nil, 0, ErrInvalidWindow
	}

	return s.rooms.Available(ctx, RoomFilters{
		From:     from,
		To:       to,
		RoomType: q.RoomType,
		SortBy:   q.SortBy,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
}

func (s *Service) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	return s.rooms.ListRoomTypes(ctx)
}
