package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/classical-review/internal/domain/entity"
	repo "github.com/oksasatya/classical-review/internal/domain/repository"
	"github.com/oksasatya/classical-review/internal/metrics"
	"github.com/oksasatya/classical-review/pkg/apperror"
)

const (
	MsgCompositionMissing = "Composition does not exist."
	MsgReviewMissing      = "Review does not exist."
	MsgReviewNotOwned     = "Review does not match user ID."
	MsgReviewLiked        = "Review is already liked."
	MsgReviewNotLiked     = "Review is not liked."
	MsgAlreadyReviewed    = "User has already reviewed this composition."
	MsgRatingRange        = "Rating must be an integer between 1 and 5."
)

// ReviewIndexer mirrors reviews into the full-text index.
type ReviewIndexer interface {
	IndexReview(ctx context.Context, r *entity.Review) error
	DeleteReview(ctx context.Context, id string) error
}

// ReviewService runs the review workflows. Every workflow that touches more
// than one row does so inside one transaction, so the aggregates on users,
// compositions and composers never drift from the reviews they summarize.
type ReviewService struct {
	Repos   repo.Repositories
	Tx      repo.TxManager
	Index   ReviewIndexer
	Metrics metrics.MetricsCollector
	Logger  *logrus.Logger
}

func NewReviewService(repos repo.Repositories, tx repo.TxManager, index ReviewIndexer, m metrics.MetricsCollector, logger *logrus.Logger) *ReviewService {
	if m == nil {
		m = metrics.Nop{}
	}
	return &ReviewService{Repos: repos, Tx: tx, Index: index, Metrics: m, Logger: logger}
}

type CreateReviewInput struct {
	UserID        string
	CompositionID string
	Rating        int
	Comment       *string
}

type ChangeReviewInput struct {
	UserID   string
	ReviewID string
	Rating   int
	Comment  *string
}

// Create inserts a review and folds its rating into the user, composition
// and composer aggregates.
func (s *ReviewService) Create(ctx context.Context, in CreateReviewInput) (rv *entity.Review, err error) {
	defer func() { s.Metrics.RecordReviewOperation(metrics.OpCreate, err) }()

	if err = validateRating(in.Rating); err != nil {
		return nil, err
	}
	ok, err := s.Repos.Compositions.Exists(ctx, in.CompositionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Validation("compositionId", MsgCompositionMissing)
	}
	dup, err := s.Repos.Reviews.UserReviewExists(ctx, in.UserID, in.CompositionID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, apperror.Conflict(MsgAlreadyReviewed)
	}

	rv = &entity.Review{
		CompositionID: in.CompositionID,
		UserID:        in.UserID,
		Rating:        in.Rating,
		Comment:       in.Comment,
	}
	err = s.Tx.WithinTx(ctx, func(r repo.Repositories) error {
		if err := r.Reviews.Insert(ctx, rv); err != nil {
			return err
		}
		if err := r.Users.IncrementReviewData(ctx, in.UserID, in.Rating); err != nil {
			return err
		}
		comp, err := r.Compositions.Get(ctx, in.CompositionID)
		if err != nil {
			return err
		}
		if err := r.Compositions.IncrementReviewData(ctx, comp.ID, in.Rating); err != nil {
			return err
		}
		return r.Composers.IncrementReviewData(ctx, comp.ComposerID, in.Rating)
	})
	if errors.Is(err, apperror.ErrNotFound) {
		// composition removed after the precondition check
		return nil, apperror.Validation("compositionId", MsgCompositionMissing)
	}
	if err != nil {
		return nil, err
	}

	s.index(ctx, rv)
	return rv, nil
}

// Change replaces the rating and comment of the caller's review. Existing
// likes are cleared and the old rating is swapped for the new one in every
// aggregate.
func (s *ReviewService) Change(ctx context.Context, in ChangeReviewInput) (rv *entity.Review, err error) {
	defer func() { s.Metrics.RecordReviewOperation(metrics.OpChange, err) }()

	if err = validateRating(in.Rating); err != nil {
		return nil, err
	}
	if err = s.checkOwner(ctx, in.UserID, in.ReviewID); err != nil {
		return nil, err
	}

	err = s.Tx.WithinTx(ctx, func(r repo.Repositories) error {
		if err := r.LikedReviews.DeleteForReview(ctx, in.ReviewID); err != nil {
			return err
		}
		if err := r.Reviews.ResetLikes(ctx, in.ReviewID); err != nil {
			return err
		}
		// the old rating has to be read before the row is overwritten
		old, err := r.Reviews.Get(ctx, in.ReviewID)
		if err != nil {
			return err
		}
		updated, err := r.Reviews.Update(ctx, in.ReviewID, in.Rating, in.Comment)
		if err != nil {
			return err
		}
		if err := r.Users.UpdateReviewData(ctx, old.UserID, old.Rating, in.Rating); err != nil {
			return err
		}
		comp, err := r.Compositions.Get(ctx, old.CompositionID)
		if err != nil {
			return err
		}
		if err := r.Composers.UpdateReviewData(ctx, comp.ComposerID, old.Rating, in.Rating); err != nil {
			return err
		}
		if err := r.Compositions.UpdateReviewData(ctx, comp.ID, old.Rating, in.Rating); err != nil {
			return err
		}
		rv = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.index(ctx, rv)
	return rv, nil
}

// Delete removes the caller's review with its likes and takes its rating out
// of every aggregate.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID string) (err error) {
	defer func() { s.Metrics.RecordReviewOperation(metrics.OpDelete, err) }()

	if err = s.checkOwner(ctx, userID, reviewID); err != nil {
		return err
	}

	err = s.Tx.WithinTx(ctx, func(r repo.Repositories) error {
		old, err := r.Reviews.Get(ctx, reviewID)
		if err != nil {
			return err
		}
		if err := r.LikedReviews.DeleteForReview(ctx, reviewID); err != nil {
			return err
		}
		if err := r.Reviews.Delete(ctx, reviewID); err != nil {
			return err
		}
		if err := r.Users.RemoveReviewData(ctx, old.UserID, old.Rating); err != nil {
			return err
		}
		comp, err := r.Compositions.Get(ctx, old.CompositionID)
		if err != nil {
			return err
		}
		if err := r.Compositions.RemoveReviewData(ctx, comp.ID, old.Rating); err != nil {
			return err
		}
		return r.Composers.RemoveReviewData(ctx, comp.ComposerID, old.Rating)
	})
	if err != nil {
		return err
	}

	if s.Index != nil {
		if iErr := s.Index.DeleteReview(ctx, reviewID); iErr != nil && s.Logger != nil {
			s.Logger.WithError(iErr).WithField("review_id", reviewID).Warn("review index delete failed")
		}
	}
	return nil
}

// Like records that userID likes reviewID and bumps its like counter.
func (s *ReviewService) Like(ctx context.Context, userID, reviewID string) (err error) {
	defer func() { s.Metrics.RecordReviewOperation(metrics.OpLike, err) }()

	if err = s.checkExists(ctx, reviewID); err != nil {
		return err
	}
	liked, err := s.Repos.LikedReviews.Exists(ctx, userID, reviewID)
	if err != nil {
		return err
	}
	if liked {
		return apperror.Validation("reviewId", MsgReviewLiked)
	}

	err = s.Tx.WithinTx(ctx, func(r repo.Repositories) error {
		if err := r.LikedReviews.Insert(ctx, userID, reviewID); err != nil {
			return err
		}
		return r.Reviews.IncrementLikes(ctx, reviewID)
	})
	if apperror.IsKind(err, apperror.KindConflict) {
		// lost a race with a concurrent like from the same user
		return apperror.Validation("reviewId", MsgReviewLiked)
	}
	if errors.Is(err, apperror.ErrNotFound) {
		// review deleted after the precondition check
		return apperror.Validation("reviewId", MsgReviewMissing)
	}
	if err != nil {
		return err
	}

	s.reindex(ctx, reviewID)
	return nil
}

// Unlike removes userID's like from reviewID.
func (s *ReviewService) Unlike(ctx context.Context, userID, reviewID string) (err error) {
	defer func() { s.Metrics.RecordReviewOperation(metrics.OpUnlike, err) }()

	if err = s.checkExists(ctx, reviewID); err != nil {
		return err
	}
	liked, err := s.Repos.LikedReviews.Exists(ctx, userID, reviewID)
	if err != nil {
		return err
	}
	if !liked {
		return apperror.Validation("reviewId", MsgReviewNotLiked)
	}

	err = s.Tx.WithinTx(ctx, func(r repo.Repositories) error {
		if err := r.LikedReviews.Delete(ctx, userID, reviewID); err != nil {
			return err
		}
		return r.Reviews.DecrementLikes(ctx, reviewID)
	})
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.Validation("reviewId", MsgReviewNotLiked)
	}
	if err != nil {
		return err
	}

	s.reindex(ctx, reviewID)
	return nil
}

func validateRating(rating int) error {
	if rating < entity.MinRating || rating > entity.MaxRating {
		return apperror.Validation("rating", MsgRatingRange)
	}
	return nil
}

func (s *ReviewService) checkExists(ctx context.Context, reviewID string) error {
	ok, err := s.Repos.Reviews.Exists(ctx, reviewID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Validation("reviewId", MsgReviewMissing)
	}
	return nil
}

func (s *ReviewService) checkOwner(ctx context.Context, userID, reviewID string) error {
	rv, err := s.Repos.Reviews.Get(ctx, reviewID)
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.Validation("reviewId", MsgReviewMissing)
	}
	if err != nil {
		return err
	}
	if rv.UserID != userID {
		return apperror.Validation("reviewId", MsgReviewNotOwned)
	}
	return nil
}

// index is best-effort; the database stays the source of truth.
func (s *ReviewService) index(ctx context.Context, rv *entity.Review) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexReview(ctx, rv); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("review_id", rv.ID).Warn("review index failed")
	}
}

func (s *ReviewService) reindex(ctx context.Context, reviewID string) {
	if s.Index == nil {
		return
	}
	rv, err := s.Repos.Reviews.Get(ctx, reviewID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("review_id", reviewID).Warn("review reload for index failed")
		}
		return
	}
	s.index(ctx, rv)
}
