package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/classical-review/internal/domain/repository"
	"github.com/oksasatya/classical-review/pkg/apperror"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository
// can run inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txBeginner is the part of *pgxpool.Pool the store needs.
type txBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store hands out repositories bound to the pool or to a transaction.
type Store struct {
	db txBeginner
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

// Repositories returns accessors that run each statement on its own.
func (s *Store) Repositories() repository.Repositories {
	return repositoriesFor(s.db)
}

// WithinTx implements repository.TxManager.
func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperror.Storage("Database error encountered.", err, map[string]any{"operation": "begin"})
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(repositoriesFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.Storage("Database error encountered.", err, map[string]any{"operation": "commit"})
	}
	return nil
}

func repositoriesFor(db DBTX) repository.Repositories {
	return repository.Repositories{
		Users:        NewUserRepository(db),
		Composers:    NewComposerRepository(db),
		Compositions: NewCompositionRepository(db),
		Reviews:      NewReviewRepository(db),
		LikedReviews: NewLikedReviewRepository(db),
	}
}

var _ repository.TxManager = (*Store)(nil)
