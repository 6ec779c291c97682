package repository

import (
	"context"
	"time"

	"github.com/oksasatya/classical-review/internal/domain/entity"
)

// SessionRepository stores one session per user. Get returns
// apperror.ErrNotFound when the user has no live session.
type SessionRepository interface {
	Save(ctx context.Context, s *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, userID string) (*entity.Session, error)
	Delete(ctx context.Context, userID string) error
}
