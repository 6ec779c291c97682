package repository

import (
	"context"

	"github.com/oksasatya/classical-review/internal/domain/entity"
)

// ReviewFilter narrows review listings. Empty fields are ignored; Comment is
// a case-insensitive substring match.
type ReviewFilter struct {
	CompositionID string
	UserID        string
	Comment       string
	Limit         int
}

type ReviewRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*entity.Review, error)
	UserReviewExists(ctx context.Context, userID, compositionID string) (bool, error)
	Insert(ctx context.Context, r *entity.Review) error
	// Update overwrites rating and comment and returns the updated row.
	Update(ctx context.Context, id string, rating int, comment *string) (*entity.Review, error)
	Delete(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
	DecrementLikes(ctx context.Context, id string) error
	ResetLikes(ctx context.Context, id string) error
	Search(ctx context.Context, f ReviewFilter) ([]entity.Review, error)
}

type LikedReviewRepository interface {
	Exists(ctx context.Context, userID, reviewID string) (bool, error)
	Insert(ctx context.Context, userID, reviewID string) error
	Delete(ctx context.Context, userID, reviewID string) error
	DeleteForReview(ctx context.Context, reviewID string) error
}
