package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/apperror"
	"hotelbooking/internal/pkg/daterange"
	"hotelbooking/internal/pkg/validator"
)

const defaultCodeLength = 6

const settledDeclineReason = "every request was declined"

type Service struct {
	db         *gorm.DB
	repo       *Repository
	calendar   Calendar
	notifs     NotificationSender
	codeLength int

	genCode func(n int) (string, error)
	now     func() time.Time
}

func NewService(db *gorm.DB, calendar Calendar, notifs NotificationSender, codeLength int) *Service {
	if codeLength <= 0 {
		codeLength = defaultCodeLength
	}
	return &Service{
		db:         db,
		repo:       NewRepository(db),
		calendar:   calendar,
		notifs:     notifs,
		codeLength: codeLength,
		genCode:    generateCode,
		now:        time.Now,
	}
}

func (s *Service) today() time.Time {
	return daterange.Day(s.now())
}

func (s *Service) validateStay(r daterange.Range) error {
	fields := map[string]string{}
	if r.From.IsZero() || r.To.IsZero() {
		fields["check_in"] = "check-in and check-out dates are required"
	} else {
		if !r.Valid() {
			fields["check_out"] = "check-out must not be before check-in"
		}
		if r.From.Before(s.today()) {
			fields["check_in"] = "check-in must not be in the past"
		}
	}
	if len(fields) > 0 {
		return apperror.ValidationFields(fields)
	}
	return nil
}

// GetOrCreateDraftBooking returns the user's current draft, creating it on
// first use. A concurrent creation loses on the unique draft index and reads
// the winner's row.
func (s *Service) GetOrCreateDraftBooking(ctx context.Context, userID int64) (*domain.Booking, error) {
	for attempt := 0; attempt < 2; attempt++ {
		b, err := s.repo.FindDraft(ctx, userID)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		b = &domain.Booking{UserID: userID, Status: domain.BookingDraft}
		err = s.repo.CreateBooking(ctx, b)
		if err == nil {
			return b, nil
		}
		if !database.IsUniqueViolation(err) {
			return nil, err
		}
	}
	return nil, apperror.Concurrency("failed to load draft booking", nil)
}

type CreateRequestInput struct {
	RoomID         int64
	Stay           daterange.Range
	NumberOfGuests int
	Note           string
}

// CreateRequest adds a room and date range line to a draft booking of userID.
func (s *Service) CreateRequest(ctx context.Context, bookingID, userID int64, in CreateRequestInput) (*domain.Request, error) {
	stay := daterange.New(in.Stay.From, in.Stay.To)
	if err := s.validateStay(stay); err != nil {
		return nil, err
	}

	var out *domain.Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		b, err := repo.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return ErrNotOwner
		}
		if b.Status != domain.BookingDraft {
			return ErrNotDraft
		}

		room, err := repo.GetRoom(ctx, in.RoomID)
		if err != nil {
			return err
		}
		if in.NumberOfGuests < 1 || in.NumberOfGuests > room.Capacity {
			return apperror.Validation("number_of_guests",
				fmt.Sprintf("number of guests must be between 1 and %d", room.Capacity))
		}

		req := &domain.Request{
			BookingID:      b.ID,
			RoomID:         room.ID,
			CheckIn:        stay.From,
			CheckOut:       stay.To,
			NumberOfGuests: in.NumberOfGuests,
			Note:           strings.TrimSpace(in.Note),
			Status:         domain.RequestDraft,
		}
		if err := req.Validate(); err != nil {
			return err
		}
		if err := repo.CreateRequest(ctx, req); err != nil {
			return err
		}
		if err := s.syncOccupancy(ctx, tx, req); err != nil {
			return err
		}
		req.Room = room
		out = req
		return nil
	})
	if err != nil {
		return nil, txFailed("create request", err)
	}
	return out, nil
}

// lockRequestOf locks the booking first and then the request, the same order
// every booking-level operation uses.
func (s *Service) lockRequestOf(ctx context.Context, repo *Repository, requestID int64) (*domain.Booking, *domain.Request, error) {
	var head domain.Request
	if err := repo.DB().WithContext(ctx).Select("id", "booking_id").First(&head, requestID).Error; err != nil {
		return nil, nil, notFound(err, ErrRequestNotFound)
	}
	b, err := repo.LockBooking(ctx, head.BookingID)
	if err != nil {
		return nil, nil, err
	}
	req, err := repo.LockRequest(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	return b, req, nil
}

// RemoveRequest deletes a draft line of the user's booking.
func (s *Service) RemoveRequest(ctx context.Context, requestID, userID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		b, req, err := s.lockRequestOf(ctx, repo, requestID)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return ErrNotOwner
		}
		if req.Status != domain.RequestDraft {
			return apperror.Validation("status", "only draft requests can be removed")
		}

		cells, err := repo.LinkedCellIDs(ctx, req.ID)
		if err != nil {
			return err
		}
		if err := repo.DeleteRequests(ctx, []int64{req.ID}); err != nil {
			return err
		}
		return s.releaseCells(ctx, tx, cells)
	})
	return txFailed("remove request", err)
}

// CancelRequest lets the owner withdraw a single pending line.
func (s *Service) CancelRequest(ctx context.Context, requestID, userID int64) (*domain.Request, error) {
	var out *domain.Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		b, req, err := s.lockRequestOf(ctx, repo, requestID)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return ErrNotOwner
		}
		if req.Status != domain.RequestPending {
			return apperror.InvalidTransition("request", string(req.Status), string(domain.RequestCancelled))
		}
		if err := s.applyStatusTransition(ctx, tx, req, domain.RequestCancelled); err != nil {
			return err
		}
		if _, err := s.settleBooking(ctx, repo, b, 0); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, txFailed("cancel request", err)
	}
	return out, nil
}

// UpdateRequestStatus is the staff path for a single request: confirm or
// decline it, check it in or check it out. Checking out needs at least one
// registered guest, and the last check-out of a confirmed booking completes it.
// Pending and cancelled are reached only through the guest flows. Once no
// request of a pending booking waits for a decision the booking follows its
// requests.
func (s *Service) UpdateRequestStatus(ctx context.Context, requestID int64, status domain.RequestStatus, staffID int64) (*domain.Request, error) {
	switch status {
	case domain.RequestConfirmed, domain.RequestDeclined, domain.RequestCheckedIn, domain.RequestCheckedOut:
	default:
		return nil, apperror.Validation("status", "status must be confirmed, declined, checked_in or checked_out")
	}

	var out *domain.Request
	var completed bool
	var settled *domain.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		b, req, err := s.lockRequestOf(ctx, repo, requestID)
		if err != nil {
			return err
		}

		if status == domain.RequestCheckedOut {
			n, err := repo.CountGuests(ctx, req.ID)
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrNoGuests
			}
		}

		if err := s.applyStatusTransition(ctx, tx, req, status); err != nil {
			return err
		}

		switch status {
		case domain.RequestConfirmed, domain.RequestDeclined:
			settled, err = s.settleBooking(ctx, repo, b, staffID)
		case domain.RequestCheckedOut:
			completed, err = s.completeIfCheckedOut(ctx, repo, b, staffID)
		}
		if err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, txFailed("update request status", err)
	}

	log.Printf("request_status request_id=%d status=%s actor_id=%d booking_completed=%t",
		requestID, status, staffID, completed)
	if settled != nil {
		log.Printf("booking_status booking_id=%d status=%s actor_id=%d", settled.ID, settled.Status, staffID)
		s.notify(ctx, settled)
	}
	return out, nil
}

// settleBooking moves a pending booking on once none of its requests is
// pending: confirmed when at least one stay goes ahead, declined when the
// rest were declined, cancelled when the guest withdrew every line. It
// returns the settled booking, or nil when the booking stays as it is.
// b must be locked by the caller. A zero actorID leaves status_changed_by
// untouched.
func (s *Service) settleBooking(ctx context.Context, repo *Repository, b *domain.Booking, actorID int64) (*domain.Booking, error) {
	if b.Status != domain.BookingPending {
		return nil, nil
	}
	reqs, err := repo.RequestsOf(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	var accepted, declined bool
	for _, r := range reqs {
		switch r.Status {
		case domain.RequestPending:
			return nil, nil
		case domain.RequestConfirmed, domain.RequestCheckedIn, domain.RequestCheckedOut:
			accepted = true
		case domain.RequestDeclined:
			declined = true
		}
	}

	to := domain.BookingCancelled
	fields := map[string]any{}
	switch {
	case accepted:
		to = domain.BookingConfirmed
	case declined:
		to = domain.BookingDeclined
		fields["decline_reason"] = settledDeclineReason
	}
	fields["status"] = string(to)
	if actorID > 0 {
		fields["status_changed_by"] = actorID
	}
	if err := repo.UpdateBooking(ctx, b.ID, fields); err != nil {
		return nil, err
	}

	b.Status = to
	b.Requests = reqs
	if actorID > 0 {
		b.StatusChangedBy = &actorID
	}
	if to == domain.BookingDeclined {
		b.DeclineReason = settledDeclineReason
	}
	return b, nil
}

// completeIfCheckedOut moves a confirmed booking to completed once every one
// of its requests is checked out. b must be locked by the caller.
func (s *Service) completeIfCheckedOut(ctx context.Context, repo *Repository, b *domain.Booking, actorID int64) (bool, error) {
	if b.Status != domain.BookingConfirmed {
		return false, nil
	}
	reqs, err := repo.RequestsOf(ctx, b.ID)
	if err != nil {
		return false, err
	}
	b.Requests = reqs
	if !b.AllRequestsCheckedOut() {
		return false, nil
	}
	err = repo.UpdateBooking(ctx, b.ID, map[string]any{
		"status":            string(domain.BookingCompleted),
		"status_changed_by": actorID,
	})
	if err != nil {
		return false, err
	}
	b.Status = domain.BookingCompleted
	return true, nil
}

type GuestInput struct {
	FullName       string `json:"full_name" validate:"required"`
	IdentityType   string `json:"identity_type" validate:"required,oneof=national_id passport identity_number"`
	IdentityNumber string `json:"identity_number" validate:"required"`
}

// AddGuest registers a person on a request that is still going to be stayed.
func (s *Service) AddGuest(ctx context.Context, requestID int64, in GuestInput) (*domain.Guest, error) {
	if errs := validator.Validate(in); errs != nil {
		return nil, apperror.ValidationFields(errs)
	}

	var out *domain.Guest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		_, req, err := s.lockRequestOf(ctx, repo, requestID)
		if err != nil {
			return err
		}
		switch req.Status {
		case domain.RequestPending, domain.RequestConfirmed, domain.RequestCheckedIn:
		default:
			return apperror.Validation("status", "guests can only be added to pending, confirmed or checked-in requests")
		}

		g := &domain.Guest{
			RequestID:      req.ID,
			FullName:       strings.TrimSpace(in.FullName),
			IdentityType:   domain.IdentityType(in.IdentityType),
			IdentityNumber: strings.TrimSpace(in.IdentityNumber),
		}
		if err := repo.CreateGuest(ctx, g); err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, txFailed("add guest", err)
	}
	return out, nil
}

// ConfirmBooking is the guest confirmation: in one transaction it locks the
// booking and the rooms it asks for, runs the overlap detector and, when the
// dates are free, assigns a booking code and moves the booking and all its
// draft requests to pending.
func (s *Service) ConfirmBooking(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		b, err := repo.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return ErrNotOwner
		}
		if b.Status != domain.BookingDraft {
			return apperror.InvalidTransition("booking", string(b.Status), string(domain.BookingPending))
		}

		reqs, err := repo.RequestsOf(ctx, b.ID)
		if err != nil {
			return err
		}
		drafts := make([]domain.Request, 0, len(reqs))
		for _, r := range reqs {
			if r.Status == domain.RequestDraft {
				drafts = append(drafts, r)
			}
		}
		if len(drafts) == 0 {
			return ErrEmptyBooking
		}
		for _, r := range drafts {
			if r.CheckIn.Before(s.today()) {
				return apperror.Validation("check_in", "check-in must not be in the past")
			}
		}

		roomIDs := make([]int64, len(drafts))
		for i, r := range drafts {
			roomIDs[i] = r.RoomID
		}
		rooms, err := repo.LockRooms(ctx, roomIDs)
		if err != nil {
			return err
		}

		conflicts, err := s.conflictingRooms(ctx, tx, drafts)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return apperror.Conflict(roomNumbers(rooms, conflicts))
		}

		code, err := s.newBookingCode(ctx, repo)
		if err != nil {
			return err
		}
		err = repo.UpdateBooking(ctx, b.ID, map[string]any{
			"status":       string(domain.BookingPending),
			"booking_code": code,
		})
		if err != nil {
			return err
		}

		for i := range drafts {
			if err := s.applyStatusTransition(ctx, tx, &drafts[i], domain.RequestPending); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, txFailed("confirm booking", err)
	}

	log.Printf("booking_status booking_id=%d status=%s actor_id=%d", bookingID, domain.BookingPending, userID)
	return s.repo.GetBooking(ctx, bookingID)
}

// UpdateBookingStatus is the staff path. Under a row lock on the booking it
// sets confirmed, declined (reason required) or completed, cascades confirmed
// and declined to every pending request and records the acting staff member.
// One notification is queued after the commit.
func (s *Service) UpdateBookingStatus(ctx context.Context, bookingID int64, status domain.BookingStatus, staffID int64, declineReason string) (*domain.Booking, error) {
	var cascade domain.RequestStatus
	switch status {
	case domain.BookingConfirmed:
		cascade = domain.RequestConfirmed
	case domain.BookingDeclined:
		cascade = domain.RequestDeclined
	case domain.BookingCompleted:
	default:
		return nil, apperror.Validation("status", "status must be confirmed, declined or completed")
	}
	declineReason = strings.TrimSpace(declineReason)
	if status == domain.BookingDeclined && declineReason == "" {
		return nil, ErrDeclineReason
	}

	var changed domain.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		b, err := repo.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if !b.Status.CanTransitionTo(status) {
			return apperror.InvalidTransition("booking", string(b.Status), string(status))
		}

		reqs, err := repo.RequestsOf(ctx, b.ID)
		if err != nil {
			return err
		}
		if status == domain.BookingCompleted {
			b.Requests = reqs
			if !b.AllRequestsCheckedOut() {
				return ErrNotAllOut
			}
		}

		fields := map[string]any{
			"status":            string(status),
			"status_changed_by": staffID,
		}
		if status == domain.BookingDeclined {
			fields["decline_reason"] = declineReason
		}
		if err := repo.UpdateBooking(ctx, b.ID, fields); err != nil {
			return err
		}

		if cascade != "" {
			for i := range reqs {
				if reqs[i].Status != domain.RequestPending {
					continue
				}
				if err := s.applyStatusTransition(ctx, tx, &reqs[i], cascade); err != nil {
					return err
				}
			}
		}

		changed = *b
		changed.Status = status
		changed.StatusChangedBy = &staffID
		if status == domain.BookingDeclined {
			changed.DeclineReason = declineReason
		}
		changed.Requests = reqs
		return nil
	})
	if err != nil {
		return nil, txFailed("update booking status", err)
	}

	log.Printf("booking_status booking_id=%d status=%s actor_id=%d", bookingID, status, staffID)
	s.notify(ctx, &changed)

	out, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return &changed, nil
	}
	return out, nil
}

func (s *Service) notify(ctx context.Context, b *domain.Booking) {
	if s.notifs == nil {
		return
	}
	switch b.Status {
	case domain.BookingConfirmed:
		s.notifs.NotifyBookingConfirmed(ctx, b)
	case domain.BookingDeclined:
		s.notifs.NotifyBookingDeclined(ctx, b)
	}
}

// CancelBooking lets the owner cancel a draft or pending booking. Every
// request of the booking is cancelled, whatever its status.
func (s *Service) CancelBooking(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		b, err := repo.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return ErrNotOwner
		}
		if !b.Status.CanBeCancelled() {
			return apperror.InvalidTransition("booking", string(b.Status), string(domain.BookingCancelled))
		}

		err = repo.UpdateBooking(ctx, b.ID, map[string]any{"status": string(domain.BookingCancelled)})
		if err != nil {
			return err
		}

		reqs, err := repo.RequestsOf(ctx, b.ID)
		if err != nil {
			return err
		}
		for i := range reqs {
			if reqs[i].Status == domain.RequestCancelled {
				continue
			}
			if err := s.forceRequestStatus(ctx, tx, &reqs[i], domain.RequestCancelled); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, txFailed("cancel booking", err)
	}

	log.Printf("booking_status booking_id=%d status=%s actor_id=%d", bookingID, domain.BookingCancelled, userID)
	return s.repo.GetBooking(ctx, bookingID)
}

// DeleteBooking removes a draft booking with its requests.
func (s *Service) DeleteBooking(ctx context.Context, bookingID, userID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		b, err := repo.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return ErrNotOwner
		}
		if b.Status != domain.BookingDraft {
			return ErrNotDraft
		}

		reqs, err := repo.RequestsOf(ctx, b.ID)
		if err != nil {
			return err
		}
		var reqIDs, cells []int64
		for _, r := range reqs {
			reqIDs = append(reqIDs, r.ID)
			linked, err := repo.LinkedCellIDs(ctx, r.ID)
			if err != nil {
				return err
			}
			cells = append(cells, linked...)
		}
		if err := repo.DeleteRequests(ctx, reqIDs); err != nil {
			return err
		}
		if err := repo.DeleteBooking(ctx, b.ID); err != nil {
			return err
		}
		return s.releaseCells(ctx, tx, cells)
	})
	return txFailed("delete booking", err)
}

// GetBooking returns the booking with its requests, rooms and guests. Only the
// owner and staff may read it.
func (s *Service) GetBooking(ctx context.Context, bookingID, userID int64, staff bool) (*domain.Booking, error) {
	b, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !staff && b.UserID != userID {
		return nil, ErrNotOwner
	}
	return b, nil
}

type BookingSummary struct {
	domain.Booking
	TotalRequests int     `json:"total_requests"`
	TotalGuests   int     `json:"total_guests"`
	TotalPrice    float64 `json:"total_price"`
}

// ListUserBookings lists the user's bookings, newest first, with totals over
// their requests. The price of a request is the sum of its calendar cells.
func (s *Service) ListUserBookings(ctx context.Context, userID int64) ([]BookingSummary, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]BookingSummary, 0, len(bookings))
	for _, b := range bookings {
		sum := BookingSummary{Booking: b, TotalRequests: len(b.Requests)}
		for _, r := range b.Requests {
			if r.Status == domain.RequestCancelled || r.Status == domain.RequestDeclined {
				continue
			}
			sum.TotalGuests += r.NumberOfGuests
			price, err := s.calendar.RoomPrice(ctx, nil, r.RoomID, r.Range())
			if err != nil {
				return nil, err
			}
			sum.TotalPrice += price
		}
		out = append(out, sum)
	}
	return out, nil
}

func roomNumbers(rooms []domain.Room, ids []int64) []string {
	byID := make(map[int64]string, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r.RoomNumber
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		} else {
			out = append(out, fmt.Sprintf("#%d", id))
		}
	}
	sort.Strings(out)
	return out
}
