package review

import (
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/daterange"
)

type ModerateReviewBody struct {
	Status string `json:"status" binding:"required"`
}

type ReviewListResponse struct {
	Reviews []ReviewItem `json:"reviews"`
	Total   int64        `json:"total"`
}

// ReviewItem is a review as staff see it, with the stay it rates.
type ReviewItem struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	RequestID  int64  `json:"request_id"`
	RoomID     int64  `json:"room_id,omitempty"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	Status     string `json:"status"`
	ApprovedBy *int64 `json:"approved_by,omitempty"`
	CheckIn    string `json:"check_in,omitempty"`
	CheckOut   string `json:"check_out,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func ReviewItemFromEntity(rv *domain.Review) ReviewItem {
	item := ReviewItem{
		ID:         rv.ID,
		UserID:     rv.UserID,
		RequestID:  rv.RequestID,
		Rating:     rv.Rating,
		Comment:    rv.Comment,
		Status:     string(rv.Status),
		ApprovedBy: rv.ApprovedBy,
		CreatedAt:  rv.CreatedAt.Format(time.RFC3339),
	}
	if rv.Request != nil {
		item.RoomID = rv.Request.RoomID
		item.CheckIn = rv.Request.CheckIn.Format(daterange.Layout)
		item.CheckOut = rv.Request.CheckOut.Format(daterange.Layout)
	}
	return item
}

func itemsOf(reviews []domain.Review) []ReviewItem {
	out := make([]ReviewItem, len(reviews))
	for i := range reviews {
		out[i] = ReviewItemFromEntity(&reviews[i])
	}
	return out
}
