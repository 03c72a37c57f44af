package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotelbooking/internal/database/dbtest"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/domain/booking"
	"hotelbooking/internal/pkg/apperror"
)

const (
	guestID = int64(10)
	staffID = int64(3)
)

func setupService(t *testing.T) (*Service, *gorm.DB, *domain.Room) {
	t.Helper()
	db := dbtest.New(t)
	room := dbtest.Room(t, db, "101", 2)
	return NewService(NewReviewRepository(db), booking.NewRepository(db)), db, room
}

// stay stores a booked request of userID in the given status.
func stay(t *testing.T, db *gorm.DB, userID, roomID int64, status domain.RequestStatus) *domain.Request {
	t.Helper()
	b := domain.Booking{UserID: userID, Status: domain.BookingConfirmed}
	require.NoError(t, db.Omit("User", "Requests").Create(&b).Error)
	req := &domain.Request{
		BookingID:      b.ID,
		RoomID:         roomID,
		CheckIn:        dbtest.Date(2025, time.June, 10),
		CheckOut:       dbtest.Date(2025, time.June, 12),
		NumberOfGuests: 1,
		Status:         status,
	}
	require.NoError(t, db.Omit("Room", "Guests").Create(req).Error)
	return req
}

type MockStayGate struct {
	mock.Mock
}

func (m *MockStayGate) StayOf(ctx context.Context, requestID int64) (*domain.Request, int64, error) {
	args := m.Called(ctx, requestID)
	req, _ := args.Get(0).(*domain.Request)
	return req, args.Get(1).(int64), args.Error(2)
}

func TestCreate_CheckedOutStayOfOwner(t *testing.T) {
	s, _, room := setupService(t)
	ctx := context.Background()
	req := stay(t, s.reviews.DB(), guestID, room.ID, domain.RequestCheckedOut)

	rv, err := s.Create(ctx, guestID, CreateReviewInput{RequestID: req.ID, Rating: 4, Comment: "  Quiet and clean  "})
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewPending, rv.Status)
	assert.Equal(t, 4, rv.Rating)
	assert.Equal(t, "Quiet and clean", rv.Comment)
	assert.Nil(t, rv.ApprovedBy)

	_, err = s.Create(ctx, guestID, CreateReviewInput{RequestID: req.ID, Rating: 5})
	assert.True(t, errors.Is(err, apperror.ErrValidation), "one review per stay")

	mine, err := s.ListMine(ctx, guestID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Request)
	assert.Equal(t, room.ID, mine[0].Request.RoomID)
}

func TestCreate_Rejections(t *testing.T) {
	s, db, room := setupService(t)
	ctx := context.Background()
	finished := stay(t, db, guestID, room.ID, domain.RequestCheckedOut)
	inHouse := stay(t, db, guestID, room.ID, domain.RequestCheckedIn)
	declined := stay(t, db, guestID, room.ID, domain.RequestDeclined)
	someoneElses := stay(t, db, 11, room.ID, domain.RequestCheckedOut)

	tests := []struct {
		name  string
		in    CreateReviewInput
		kind  error
		field string
	}{
		{"rating too low", CreateReviewInput{RequestID: finished.ID, Rating: 0}, apperror.ErrValidation, "rating"},
		{"rating too high", CreateReviewInput{RequestID: finished.ID, Rating: 6}, apperror.ErrValidation, "rating"},
		{"missing request", CreateReviewInput{Rating: 3}, apperror.ErrValidation, "request_id"},
		{"still in house", CreateReviewInput{RequestID: inHouse.ID, Rating: 3}, apperror.ErrValidation, "request_id"},
		{"declined stay", CreateReviewInput{RequestID: declined.ID, Rating: 3}, apperror.ErrValidation, "request_id"},
		{"another guest's stay", CreateReviewInput{RequestID: someoneElses.ID, Rating: 3}, apperror.ErrForbidden, ""},
		{"unknown request", CreateReviewInput{RequestID: 999, Rating: 3}, apperror.ErrNotFound, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Create(ctx, guestID, tc.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), err.Error())
			if tc.field != "" {
				appErr, ok := apperror.As(err)
				require.True(t, ok)
				assert.Contains(t, appErr.Fields, tc.field)
			}
		})
	}

	var n int64
	require.NoError(t, db.Model(&domain.Review{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreate_GateFailurePropagates(t *testing.T) {
	db := dbtest.New(t)
	gate := new(MockStayGate)
	gate.On("StayOf", mock.Anything, int64(7)).Return(nil, int64(0), errors.New("connection reset"))
	s := NewService(NewReviewRepository(db), gate)

	_, err := s.Create(context.Background(), guestID, CreateReviewInput{RequestID: 7, Rating: 5})
	require.Error(t, err)
	_, isApp := apperror.As(err)
	assert.False(t, isApp)
	gate.AssertExpectations(t)
}

func TestModerate_RecordsStaffMember(t *testing.T) {
	s, db, room := setupService(t)
	ctx := context.Background()
	req := stay(t, db, guestID, room.ID, domain.RequestCheckedOut)
	rv, err := s.Create(ctx, guestID, CreateReviewInput{RequestID: req.ID, Rating: 5})
	require.NoError(t, err)

	for _, status := range []domain.ReviewStatus{domain.ReviewPending, "hidden", ""} {
		_, err = s.Moderate(ctx, rv.ID, status, staffID)
		assert.True(t, errors.Is(err, apperror.ErrValidation), string(status))
	}

	_, err = s.Moderate(ctx, 999, domain.ReviewApproved, staffID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	got, err := s.Moderate(ctx, rv.ID, domain.ReviewApproved, staffID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, staffID, *got.ApprovedBy)

	got, err = s.Moderate(ctx, rv.ID, domain.ReviewRejected, 4)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewRejected, got.Status)
	assert.Equal(t, int64(4), *got.ApprovedBy)
}

func TestListForRoom_OnlyApproved(t *testing.T) {
	s, db, room := setupService(t)
	ctx := context.Background()
	other := dbtest.Room(t, db, "102", 2)

	var ids []int64
	for i, roomID := range []int64{room.ID, room.ID, other.ID} {
		req := stay(t, db, guestID, roomID, domain.RequestCheckedOut)
		rv, err := s.Create(ctx, guestID, CreateReviewInput{RequestID: req.ID, Rating: i + 3})
		require.NoError(t, err)
		ids = append(ids, rv.ID)
	}
	_, err := s.Moderate(ctx, ids[0], domain.ReviewApproved, staffID)
	require.NoError(t, err)
	_, err = s.Moderate(ctx, ids[2], domain.ReviewApproved, staffID)
	require.NoError(t, err)

	got, err := s.ListForRoom(ctx, room.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ids[0], got[0].ID)

	pending, total, err := s.List(ctx, domain.ReviewPending, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, ids[1], pending[0].ID)

	_, total, err = s.List(ctx, "", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, _, err = s.List(ctx, "hidden", 0, 0)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestDelete_OwnReviewOnly(t *testing.T) {
	s, db, room := setupService(t)
	ctx := context.Background()
	req := stay(t, db, guestID, room.ID, domain.RequestCheckedOut)
	rv, err := s.Create(ctx, guestID, CreateReviewInput{RequestID: req.ID, Rating: 2})
	require.NoError(t, err)

	assert.True(t, errors.Is(s.Delete(ctx, rv.ID, 11), apperror.ErrForbidden))
	require.NoError(t, s.Delete(ctx, rv.ID, guestID))
	assert.True(t, errors.Is(s.Delete(ctx, rv.ID, guestID), apperror.ErrNotFound))

	// The stay can be reviewed again once the old review is gone.
	_, err = s.Create(ctx, guestID, CreateReviewInput{RequestID: req.ID, Rating: 3})
	require.NoError(t, err)
}
