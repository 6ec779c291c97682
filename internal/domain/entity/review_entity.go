package entity

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is one user's rating of one composition. At most one exists per
// (UserID, CompositionID).
type Review struct {
	ID            string
	CompositionID string
	UserID        string
	Rating        int
	Comment       *string
	NumLiked      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LikedReview records that UserID liked ReviewID.
type LikedReview struct {
	UserID    string
	ReviewID  string
	CreatedAt time.Time
}
