package entity

import (
	"time"
)

// User is a registered reviewer.
// Passwords are stored as bcrypt hashes in Password field.
// AverageReview and TotalReviews are derived from the user's reviews and only
// change through the review workflows.
type User struct {
	ID            string
	Username      string
	Email         string
	Password      string
	Bio           string
	AvatarURL     string
	IsVerified    bool
	AverageReview float64
	TotalReviews  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
