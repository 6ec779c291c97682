package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/classical-review/internal/domain/entity"
	"github.com/oksasatya/classical-review/internal/domain/repository"
	"github.com/oksasatya/classical-review/pkg/apperror"
	"github.com/oksasatya/classical-review/pkg/helpers"
)

// SessionRepository keeps each user's session as a hash under
// helpers.SessionKey(userID).
type SessionRepository struct {
	rdb redis.Cmdable
}

func NewSessionRepository(rdb redis.Cmdable) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func (r *SessionRepository) Save(ctx context.Context, s *entity.Session, ttl time.Duration) error {
	key := helpers.SessionKey(s.UserID)
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    s.UserID,
		"sid":        s.SessionID,
		"username":   s.Username,
		"email":      s.Email,
		"created_at": s.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at": s.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperror.Storage("Session store error encountered.", err, map[string]any{"operation": "sessions.save"})
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (*entity.Session, error) {
	data, err := r.rdb.HGetAll(ctx, helpers.SessionKey(userID)).Result()
	if err != nil {
		return nil, apperror.Storage("Session store error encountered.", err, map[string]any{"operation": "sessions.get"})
	}
	if len(data) == 0 || data["sid"] == "" {
		return nil, apperror.ErrNotFound
	}
	return sessionFromHash(data), nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	if err := r.rdb.Del(ctx, helpers.SessionKey(userID)).Err(); err != nil {
		return apperror.Storage("Session store error encountered.", err, map[string]any{"operation": "sessions.delete"})
	}
	return nil
}

func sessionFromHash(data map[string]string) *entity.Session {
	s := &entity.Session{
		UserID:    data["user_id"],
		SessionID: data["sid"],
		Username:  data["username"],
		Email:     data["email"],
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339Nano, data["created_at"])
	s.UpdatedAt, _ = time.Parse(time.RFC3339Nano, data["updated_at"])
	return s
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
