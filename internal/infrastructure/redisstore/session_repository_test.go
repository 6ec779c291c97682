package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/classical-review/pkg/apperror"
)

func TestSessionFromHash(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := sessionFromHash(map[string]string{
		"user_id":    "u1",
		"sid":        "s1",
		"username":   "clara",
		"email":      "clara@example.com",
		"created_at": created.Format(time.RFC3339Nano),
	})
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "s1", s.SessionID)
	assert.Equal(t, "clara", s.Username)
	assert.True(t, created.Equal(s.CreatedAt))
	assert.True(t, s.UpdatedAt.IsZero())
}

func TestSessionRepository_UnreachableRedisIsStorageError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = rdb.Close() }()
	repo := NewSessionRepository(rdb)

	_, err := repo.Get(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindStorage))

	err = repo.Delete(context.Background(), "u1")
	assert.True(t, apperror.IsKind(err, apperror.KindStorage))
}
