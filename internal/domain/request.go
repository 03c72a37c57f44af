package domain

import (
	"time"

	"hotelbooking/internal/pkg/apperror"
	"hotelbooking/internal/pkg/daterange"
)

type RequestStatus string

const (
	RequestDraft      RequestStatus = "draft"
	RequestPending    RequestStatus = "pending"
	RequestConfirmed  RequestStatus = "confirmed"
	RequestDeclined   RequestStatus = "declined"
	RequestCancelled  RequestStatus = "cancelled"
	RequestCheckedIn  RequestStatus = "checked_in"
	RequestCheckedOut RequestStatus = "checked_out"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestDraft:      {RequestPending, RequestCancelled},
	RequestPending:    {RequestConfirmed, RequestDeclined, RequestCancelled},
	RequestConfirmed:  {RequestCheckedIn},
	RequestCheckedIn:  {RequestCheckedOut},
	RequestCheckedOut: {},
	RequestDeclined:   {},
	RequestCancelled:  {},
}

// BlockingRequestStatuses reserve the calendar cells of a request.
var BlockingRequestStatuses = []RequestStatus{
	RequestPending,
	RequestConfirmed,
	RequestCheckedIn,
	RequestCheckedOut,
}

// BlockingStatusValues is BlockingRequestStatuses as plain strings for IN clauses.
func BlockingStatusValues() []string {
	out := make([]string, len(BlockingRequestStatuses))
	for i, s := range BlockingRequestStatuses {
		out[i] = string(s)
	}
	return out
}

func (s RequestStatus) IsValid() bool {
	_, ok := requestTransitions[s]
	return ok
}

func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	for _, t := range requestTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s RequestStatus) IsBlocking() bool {
	for _, b := range BlockingRequestStatuses {
		if s == b {
			return true
		}
	}
	return false
}

func (s RequestStatus) String() string { return string(s) }

// Request is one room + date range line of a booking.
type Request struct {
	ID             int64         `json:"id"`
	BookingID      int64         `json:"booking_id" gorm:"not null;index"`
	RoomID         int64         `json:"room_id" gorm:"not null;index:idx_requests_room_status,priority:1"`
	CheckIn        time.Time     `json:"check_in" gorm:"type:date;not null"`
	CheckOut       time.Time     `json:"check_out" gorm:"type:date;not null"`
	NumberOfGuests int           `json:"number_of_guests" gorm:"not null"`
	Note           string        `json:"note,omitempty" gorm:"type:text"`
	Status         RequestStatus `json:"status" gorm:"type:varchar(16);not null;default:draft;index:idx_requests_room_status,priority:2"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Room   *Room   `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	Guests []Guest `json:"guests,omitempty" gorm:"foreignKey:RequestID"`
}

func (r *Request) Range() daterange.Range {
	return daterange.New(r.CheckIn, r.CheckOut)
}

// Validate checks the fields every persisted request must satisfy.
func (r *Request) Validate() error {
	fields := map[string]string{}
	if r.RoomID <= 0 {
		fields["room_id"] = "room is required"
	}
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		fields["check_in"] = "check-in and check-out dates are required"
	} else if !r.Range().Valid() {
		fields["check_out"] = "check-out must not be before check-in"
	}
	if r.NumberOfGuests < 1 {
		fields["number_of_guests"] = "at least one guest is required"
	}
	if !r.Status.IsValid() {
		fields["status"] = "unknown status"
	}
	if len(fields) > 0 {
		return apperror.ValidationFields(fields)
	}
	return nil
}

type IdentityType string

const (
	IdentityNationalID     IdentityType = "national_id"
	IdentityPassport       IdentityType = "passport"
	IdentityIdentityNumber IdentityType = "identity_number"
)

// Guest is a person registered on a request at check-in.
type Guest struct {
	ID             int64        `json:"id"`
	RequestID      int64        `json:"request_id" gorm:"not null;index"`
	FullName       string       `json:"full_name" gorm:"not null" validate:"required"`
	IdentityType   IdentityType `json:"identity_type" gorm:"type:varchar(24)" validate:"required,oneof=national_id passport identity_number"`
	IdentityNumber string       `json:"identity_number" validate:"required"`
	CreatedAt      time.Time    `json:"created_at"`
}
