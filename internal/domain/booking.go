package domain

import "time"

type BookingStatus string

const (
	BookingDraft     BookingStatus = "draft"
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingDraft:     {BookingPending, BookingCancelled},
	BookingPending:   {BookingConfirmed, BookingDeclined, BookingCancelled},
	BookingConfirmed: {BookingCompleted},
	BookingDeclined:  {},
	BookingCancelled: {},
	BookingCompleted: {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) CanBeCancelled() bool {
	return s.CanTransitionTo(BookingCancelled)
}

func (s BookingStatus) String() string { return string(s) }

type Booking struct {
	ID              int64         `json:"id"`
	UserID          int64         `json:"user_id" gorm:"not null;index"`
	BookingCode     *string       `json:"booking_code,omitempty" gorm:"type:varchar(32);uniqueIndex"`
	Status          BookingStatus `json:"status" gorm:"type:varchar(16);not null;default:draft;index"`
	DeclineReason   string        `json:"decline_reason,omitempty" gorm:"type:text"`
	StatusChangedBy *int64        `json:"status_changed_by,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Requests []Request `json:"requests,omitempty" gorm:"foreignKey:BookingID"`
}

// Code returns the booking code or "" for drafts.
func (b *Booking) Code() string {
	if b.BookingCode == nil {
		return ""
	}
	return *b.BookingCode
}

// AllRequestsCheckedOut is false for a booking without requests.
func (b *Booking) AllRequestsCheckedOut() bool {
	if len(b.Requests) == 0 {
		return false
	}
	for _, r := range b.Requests {
		if r.Status != RequestCheckedOut {
			return false
		}
	}
	return true
}
