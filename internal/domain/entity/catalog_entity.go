package entity

import "time"

// Composer owns many compositions.
type Composer struct {
	ID            string
	Name          string
	BirthDate     *time.Time
	DeathDate     *time.Time
	AverageReview float64
	TotalReviews  int
}

type Composition struct {
	ID            string
	ComposerID    string
	Title         string
	Subtitle      string
	Genre         string
	AverageReview float64
	TotalReviews  int
}
