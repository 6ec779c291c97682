package handlers

import (
	"time"

	"github.com/oksasatya/classical-review/internal/domain/entity"
)

// publicUser is what other users see; email and password hash stay private.
type publicUser struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Bio           string    `json:"bio"`
	AvatarURL     string    `json:"avatarUrl"`
	AverageReview float64   `json:"averageReview"`
	TotalReviews  int       `json:"totalReviews"`
	CreatedAt     time.Time `json:"createdAt"`
}

// accountUser is the caller's own profile.
type accountUser struct {
	publicUser
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
}

type composerDTO struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	BirthDate     *time.Time `json:"birthDate,omitempty"`
	DeathDate     *time.Time `json:"deathDate,omitempty"`
	AverageReview float64    `json:"averageReview"`
	TotalReviews  int        `json:"totalReviews"`
}

type compositionDTO struct {
	ID            string  `json:"id"`
	ComposerID    string  `json:"composerId"`
	Title         string  `json:"title"`
	Subtitle      string  `json:"subtitle,omitempty"`
	Genre         string  `json:"genre,omitempty"`
	AverageReview float64 `json:"averageReview"`
	TotalReviews  int     `json:"totalReviews"`
}

type reviewDTO struct {
	ID            string    `json:"id"`
	CompositionID string    `json:"compositionId"`
	UserID        string    `json:"userId"`
	Rating        int       `json:"rating"`
	Comment       *string   `json:"comment"`
	NumLiked      int       `json:"numLiked"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toPublicUser(u *entity.User) publicUser {
	return publicUser{
		ID:            u.ID,
		Username:      u.Username,
		Bio:           u.Bio,
		AvatarURL:     u.AvatarURL,
		AverageReview: u.AverageReview,
		TotalReviews:  u.TotalReviews,
		CreatedAt:     u.CreatedAt,
	}
}

func toAccountUser(u *entity.User) accountUser {
	return accountUser{publicUser: toPublicUser(u), Email: u.Email, IsVerified: u.IsVerified}
}

func toComposer(c *entity.Composer) composerDTO {
	return composerDTO{
		ID:            c.ID,
		Name:          c.Name,
		BirthDate:     c.BirthDate,
		DeathDate:     c.DeathDate,
		AverageReview: c.AverageReview,
		TotalReviews:  c.TotalReviews,
	}
}

func toComposition(c *entity.Composition) compositionDTO {
	return compositionDTO{
		ID:            c.ID,
		ComposerID:    c.ComposerID,
		Title:         c.Title,
		Subtitle:      c.Subtitle,
		Genre:         c.Genre,
		AverageReview: c.AverageReview,
		TotalReviews:  c.TotalReviews,
	}
}

func toReview(r *entity.Review) reviewDTO {
	return reviewDTO{
		ID:            r.ID,
		CompositionID: r.CompositionID,
		UserID:        r.UserID,
		Rating:        r.Rating,
		Comment:       r.Comment,
		NumLiked:      r.NumLiked,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// mapAll converts a slice with one of the to* functions above.
func mapAll[E, D any](in []E, fn func(*E) D) []D {
	out := make([]D, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}
