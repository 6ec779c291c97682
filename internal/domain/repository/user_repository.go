package repository

import (
	"context"

	"github.com/oksasatya/classical-review/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	Get(ctx context.Context, id entity.UserIdentifier) (*entity.User, error)
	Exists(ctx context.Context, id entity.UserIdentifier) (bool, error)
	SetVerified(ctx context.Context, userID string) error
	UpdateBio(ctx context.Context, userID, bio string) (*entity.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) (*entity.User, error)
	Search(ctx context.Context, username string, limit int) ([]entity.User, error)
	AggregateRepository
}

// AggregateRepository maintains average_review/total_reviews on the row with
// the given id. Each method is a single atomic statement.
type AggregateRepository interface {
	IncrementReviewData(ctx context.Context, id string, rating int) error
	UpdateReviewData(ctx context.Context, id string, oldRating, newRating int) error
	RemoveReviewData(ctx context.Context, id string, rating int) error
}
