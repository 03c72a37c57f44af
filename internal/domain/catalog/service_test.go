package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotelbooking/internal/database/dbtest"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/domain/calendar"
	"hotelbooking/internal/pkg/apperror"
	"hotelbooking/internal/pkg/daterange"
)

func setupService(t *testing.T) (*Service, *gorm.DB, *domain.RoomType) {
	t.Helper()
	db := dbtest.New(t)
	rt := &domain.RoomType{Name: "Deluxe", BasePrice: 150}
	require.NoError(t, db.Create(rt).Error)
	return NewService(db, calendar.NewStore(db)), db, rt
}

func today() time.Time { return daterange.Day(time.Now()) }

func roomInput(number string, typeID int64) CreateRoomInput {
	return CreateRoomInput{RoomNumber: number, RoomTypeID: typeID, Capacity: 2, Description: "Sea view"}
}

// hold inserts a request on the room in the given status without calendar
// cells.
func hold(t *testing.T, db *gorm.DB, roomID int64, from, to time.Time, status domain.RequestStatus) *domain.Request {
	t.Helper()
	b := domain.Booking{UserID: 500 + roomID, Status: domain.BookingPending}
	require.NoError(t, db.Create(&b).Error)
	req := &domain.Request{BookingID: b.ID, RoomID: roomID, CheckIn: from, CheckOut: to, NumberOfGuests: 1, Status: status}
	require.NoError(t, db.Omit("Room", "Guests").Create(req).Error)
	return req
}

func TestCreateRoom_WithPricing(t *testing.T) {
	s, db, rt := setupService(t)
	ctx := context.Background()

	from := today().AddDate(0, 0, 1)
	room, priced, err := s.CreateRoom(ctx, roomInput("301", rt.ID), &PricingInput{
		Stay:  daterange.New(from, from.AddDate(0, 0, 4)),
		Price: 120,
	})
	require.NoError(t, err)
	require.NotNil(t, priced)
	assert.Equal(t, 5, priced.Inserted)

	var cells []domain.CalendarCell
	require.NoError(t, db.Where("room_id = ?", room.ID).Find(&cells).Error)
	assert.Len(t, cells, 5)
	for _, c := range cells {
		assert.True(t, c.Available)
		assert.InDelta(t, 120.0, c.Price, 0.001)
	}
}

func TestCreateRoom_PricingFailureRollsBack(t *testing.T) {
	s, db, rt := setupService(t)
	ctx := context.Background()

	past := today().AddDate(0, 0, -3)
	_, _, err := s.CreateRoom(ctx, roomInput("302", rt.ID), &PricingInput{
		Stay:  daterange.New(past, past.AddDate(0, 0, 1)),
		Price: 120,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	var n int64
	require.NoError(t, db.Model(&domain.Room{}).Where("room_number = ?", "302").Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateRoom_Validation(t *testing.T) {
	s, _, rt := setupService(t)
	ctx := context.Background()

	_, _, err := s.CreateRoom(ctx, CreateRoomInput{RoomNumber: "", RoomTypeID: rt.ID, Capacity: 0}, nil)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, _, err = s.CreateRoom(ctx, roomInput("303", 999), nil)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, _, err = s.CreateRoom(ctx, roomInput("303", rt.ID), nil)
	require.NoError(t, err)
	_, _, err = s.CreateRoom(ctx, roomInput("303", rt.ID), nil)
	assert.Equal(t, ErrNumberTaken, err)
}

func TestDeleteRoom(t *testing.T) {
	s, db, rt := setupService(t)
	ctx := context.Background()

	room, _, err := s.CreateRoom(ctx, roomInput("401", rt.ID), nil)
	require.NoError(t, err)
	day := today().AddDate(0, 0, 2)
	held := hold(t, db, room.ID, day, day, domain.RequestConfirmed)

	assert.Equal(t, ErrRoomHeld, s.DeleteRoom(ctx, room.ID))

	require.NoError(t, db.Model(held).Update("status", string(domain.RequestCancelled)).Error)
	require.NoError(t, s.DeleteRoom(ctx, room.ID))

	var n int64
	require.NoError(t, db.Model(&domain.Request{}).Where("room_id = ?", room.ID).Count(&n).Error)
	assert.Zero(t, n)

	assert.True(t, errors.Is(s.DeleteRoom(ctx, room.ID), apperror.ErrNotFound))
}

func TestAvailableRooms(t *testing.T) {
	s, db, rt := setupService(t)
	ctx := context.Background()
	s.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }

	suite := &domain.RoomType{Name: "Suite", BasePrice: 400}
	require.NoError(t, db.Create(suite).Error)

	free, _, err := s.CreateRoom(ctx, roomInput("101", rt.ID), nil)
	require.NoError(t, err)
	busy, _, err := s.CreateRoom(ctx, roomInput("102", rt.ID), nil)
	require.NoError(t, err)
	draftOnly, _, err := s.CreateRoom(ctx, roomInput("103", suite.ID), nil)
	require.NoError(t, err)

	june := func(d int) time.Time { return dbtest.Date(2025, time.June, d) }
	hold(t, db, busy.ID, june(5), june(7), domain.RequestPending)
	hold(t, db, draftOnly.ID, june(5), june(7), domain.RequestDraft)

	ptr := func(t time.Time) *time.Time { return &t }
	numbers := func(rooms []domain.Room) []string {
		out := make([]string, len(rooms))
		for i, r := range rooms {
			out[i] = r.RoomNumber
		}
		return out
	}

	rooms, total, err := s.AvailableRooms(ctx, AvailableQuery{CheckIn: ptr(june(7)), CheckOut: ptr(june(9))})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"101", "103"}, numbers(rooms))

	rooms, _, err = s.AvailableRooms(ctx, AvailableQuery{CheckIn: ptr(june(8)), CheckOut: ptr(june(9))})
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102", "103"}, numbers(rooms))

	rooms, _, err = s.AvailableRooms(ctx, AvailableQuery{CheckIn: ptr(june(1)), CheckOut: ptr(june(9)), RoomType: "Suite"})
	require.NoError(t, err)
	assert.Equal(t, []string{"103"}, numbers(rooms))

	rooms, _, err = s.AvailableRooms(ctx, AvailableQuery{CheckIn: ptr(june(1)), CheckOut: ptr(june(2)), SortBy: "price_desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"103", "101", "102"}, numbers(rooms))

	rooms, _, err = s.AvailableRooms(ctx, AvailableQuery{})
	require.NoError(t, err)
	assert.Len(t, rooms, 3)
	assert.Equal(t, free.ID, rooms[0].ID)
	require.NotNil(t, rooms[0].RoomType)
	assert.Equal(t, "Deluxe", rooms[0].RoomType.Name)

	_, _, err = s.AvailableRooms(ctx, AvailableQuery{CheckIn: ptr(june(9)), CheckOut: ptr(june(1))})
	assert.Equal(t, ErrInvalidWindow, err)
}

func TestGetRoom(t *testing.T) {
	s, _, rt := setupService(t)
	ctx := context.Background()

	room, _, err := s.CreateRoom(ctx, roomInput("501", rt.ID), nil)
	require.NoError(t, err)

	got, err := s.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "501", got.RoomNumber)
	require.NotNil(t, got.RoomType)
	assert.Equal(t, "Deluxe", got.RoomType.Name)

	_, err = s.GetRoom(ctx, 999)
	assert.Equal(t, ErrRoomNotFound, err)
}
