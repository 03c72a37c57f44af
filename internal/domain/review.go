package domain

import "time"

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// IsModeration reports the statuses staff may set.
func (s ReviewStatus) IsModeration() bool {
	return s == ReviewApproved || s == ReviewRejected
}

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a guest's rating of a checked-out stay. One per request.
type Review struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id" gorm:"not null;index"`
	RequestID  int64        `json:"request_id" gorm:"not null;uniqueIndex"`
	Rating     int          `json:"rating" gorm:"not null"`
	Comment    string       `json:"comment,omitempty" gorm:"type:text"`
	Status     ReviewStatus `json:"status" gorm:"type:varchar(16);not null;default:pending;index"`
	ApprovedBy *int64       `json:"approved_by,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	Request *Request `json:"request,omitempty" gorm:"foreignKey:RequestID"`
}
