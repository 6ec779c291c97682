package repository

import "context"

// Repositories groups the accessors that share one connection or transaction.
type Repositories struct {
	Users        UserRepository
	Composers    ComposerRepository
	Compositions CompositionRepository
	Reviews      ReviewRepository
	LikedReviews LikedReviewRepository
}

// TxManager runs fn with repositories bound to a single transaction. The
// transaction commits only when fn returns nil.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
