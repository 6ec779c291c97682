package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/classical-review/internal/domain/entity"
	"github.com/oksasatya/classical-review/internal/domain/repository"
)

type ReviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, composition_id, user_id, rating, comment, num_liked, created_at, updated_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	rv := &entity.Review{}
	err := row.Scan(&rv.ID, &rv.CompositionID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.NumLiked,
		&rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *ReviewRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE id = $1)`, id).Scan(&ok)
	return existsResult("reviews.exists", ok, err)
}

func (r *ReviewRepository) Get(ctx context.Context, id string) (*entity.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		return nil, translate("reviews.get", err)
	}
	return rv, nil
}

func (r *ReviewRepository) UserReviewExists(ctx context.Context, userID, compositionID string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = $1 AND composition_id = $2)
	`, userID, compositionID).Scan(&ok)
	return existsResult("reviews.user_review_exists", ok, err)
}

func (r *ReviewRepository) Insert(ctx context.Context, rv *entity.Review) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO reviews (composition_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, num_liked, created_at, updated_at
	`, rv.CompositionID, rv.UserID, rv.Rating, rv.Comment)
	return translate("reviews.insert", row.Scan(&rv.ID, &rv.NumLiked, &rv.CreatedAt, &rv.UpdatedAt))
}

func (r *ReviewRepository) Update(ctx context.Context, id string, rating int, comment *string) (*entity.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx, `
		UPDATE reviews
		SET rating = $1, comment = $2, updated_at = now()
		WHERE id = $3
		RETURNING `+reviewColumns, rating, comment, id))
	if err != nil {
		return nil, translate("reviews.update", err)
	}
	return rv, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return affectedOne("reviews.delete", tag, err)
}

func (r *ReviewRepository) IncrementLikes(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE reviews SET num_liked = num_liked + 1 WHERE id = $1`, id)
	return affectedOne("reviews.increment_likes", tag, err)
}

func (r *ReviewRepository) DecrementLikes(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE reviews SET num_liked = GREATEST(num_liked - 1, 0) WHERE id = $1`, id)
	return affectedOne("reviews.decrement_likes", tag, err)
}

func (r *ReviewRepository) ResetLikes(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE reviews SET num_liked = 0 WHERE id = $1`, id)
	return affectedOne("reviews.reset_likes", tag, err)
}

func (r *ReviewRepository) Search(ctx context.Context, f repository.ReviewFilter) ([]entity.Review, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE ($1 = '' OR composition_id::text = $1)
		  AND ($2 = '' OR user_id::text = $2)
		  AND ($3 = '' OR comment ILIKE '%' || $3 || '%')
		ORDER BY created_at DESC
		LIMIT $4
	`, f.CompositionID, f.UserID, f.Comment, clampLimit(f.Limit))
	if err != nil {
		return nil, translate("reviews.search", err)
	}
	defer rows.Close()

	var out []entity.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, translate("reviews.search", err)
		}
		out = append(out, *rv)
	}
	return out, translate("reviews.search", rows.Err())
}

type LikedReviewRepository struct {
	db DBTX
}

func NewLikedReviewRepository(db DBTX) *LikedReviewRepository {
	return &LikedReviewRepository{db: db}
}

func (r *LikedReviewRepository) Exists(ctx context.Context, userID, reviewID string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM liked_reviews WHERE user_id = $1 AND review_id = $2)
	`, userID, reviewID).Scan(&ok)
	return existsResult("liked_reviews.exists", ok, err)
}

func (r *LikedReviewRepository) Insert(ctx context.Context, userID, reviewID string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO liked_reviews (user_id, review_id) VALUES ($1, $2)`, userID, reviewID)
	return translate("liked_reviews.insert", err)
}

func (r *LikedReviewRepository) Delete(ctx context.Context, userID, reviewID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM liked_reviews WHERE user_id = $1 AND review_id = $2`, userID, reviewID)
	return affectedOne("liked_reviews.delete", tag, err)
}

// DeleteForReview removes every like on a review; zero rows is not an error.
func (r *LikedReviewRepository) DeleteForReview(ctx context.Context, reviewID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM liked_reviews WHERE review_id = $1`, reviewID)
	return translate("liked_reviews.delete_for_review", err)
}

var (
	_ repository.ReviewRepository      = (*ReviewRepository)(nil)
	_ repository.LikedReviewRepository = (*LikedReviewRepository)(nil)
)
