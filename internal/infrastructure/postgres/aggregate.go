package postgres

import (
	"context"
	"fmt"
)

// aggregateColumns maintains average_review/total_reviews on one table.
// Postgres evaluates every SET expression against the pre-update row, so each
// statement reads and writes the pair atomically.
type aggregateColumns struct {
	db    DBTX
	table string
}

func (a aggregateColumns) IncrementReviewData(ctx context.Context, id string, rating int) error {
	q := fmt.Sprintf(`
		UPDATE %s
		SET average_review = (average_review * total_reviews + $1) / (total_reviews + 1),
		    total_reviews = total_reviews + 1
		WHERE id = $2
	`, a.table)
	tag, err := a.db.Exec(ctx, q, float64(rating), id)
	return affectedOne(a.table+".increment_review_data", tag, err)
}

func (a aggregateColumns) UpdateReviewData(ctx context.Context, id string, oldRating, newRating int) error {
	q := fmt.Sprintf(`
		UPDATE %s
		SET average_review = CASE WHEN total_reviews = 0 THEN 0
		        ELSE (average_review * total_reviews - $1 + $2) / total_reviews END
		WHERE id = $3
	`, a.table)
	tag, err := a.db.Exec(ctx, q, float64(oldRating), float64(newRating), id)
	return affectedOne(a.table+".update_review_data", tag, err)
}

func (a aggregateColumns) RemoveReviewData(ctx context.Context, id string, rating int) error {
	q := fmt.Sprintf(`
		UPDATE %s
		SET average_review = CASE WHEN total_reviews <= 1 THEN 0
		        ELSE (average_review * total_reviews - $1) / (total_reviews - 1) END,
		    total_reviews = GREATEST(total_reviews - 1, 0)
		WHERE id = $2
	`, a.table)
	tag, err := a.db.Exec(ctx, q, float64(rating), id)
	return affectedOne(a.table+".remove_review_data", tag, err)
}
