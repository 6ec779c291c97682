package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/classical-review/internal/domain/entity"
	"github.com/oksasatya/classical-review/internal/domain/repository"
)

type ComposerRepository struct {
	aggregateColumns
	db DBTX
}

func NewComposerRepository(db DBTX) *ComposerRepository {
	return &ComposerRepository{aggregateColumns: aggregateColumns{db: db, table: "composers"}, db: db}
}

const composerColumns = `id, name, birth_date, death_date, average_review, total_reviews`

func scanComposer(row pgx.Row) (*entity.Composer, error) {
	c := &entity.Composer{}
	if err := row.Scan(&c.ID, &c.Name, &c.BirthDate, &c.DeathDate, &c.AverageReview, &c.TotalReviews); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ComposerRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM composers WHERE id = $1)`, id).Scan(&ok)
	return existsResult("composers.exists", ok, err)
}

func (r *ComposerRepository) Get(ctx context.Context, id string) (*entity.Composer, error) {
	c, err := scanComposer(r.db.QueryRow(ctx, `SELECT `+composerColumns+` FROM composers WHERE id = $1`, id))
	if err != nil {
		return nil, translate("composers.get", err)
	}
	return c, nil
}

func (r *ComposerRepository) Insert(ctx context.Context, c *entity.Composer) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO composers (name, birth_date, death_date)
		VALUES ($1, $2, $3)
		RETURNING id, average_review, total_reviews
	`, c.Name, c.BirthDate, c.DeathDate)
	return translate("composers.insert", row.Scan(&c.ID, &c.AverageReview, &c.TotalReviews))
}

func (r *ComposerRepository) Search(ctx context.Context, name string, limit int) ([]entity.Composer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+composerColumns+`
		FROM composers
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2
	`, name, clampLimit(limit))
	if err != nil {
		return nil, translate("composers.search", err)
	}
	defer rows.Close()

	var out []entity.Composer
	for rows.Next() {
		c, err := scanComposer(rows)
		if err != nil {
			return nil, translate("composers.search", err)
		}
		out = append(out, *c)
	}
	return out, translate("composers.search", rows.Err())
}

type CompositionRepository struct {
	aggregateColumns
	db DBTX
}

func NewCompositionRepository(db DBTX) *CompositionRepository {
	return &CompositionRepository{aggregateColumns: aggregateColumns{db: db, table: "compositions"}, db: db}
}

const compositionColumns = `id, composer_id, title, subtitle, genre, average_review, total_reviews`

func scanComposition(row pgx.Row) (*entity.Composition, error) {
	c := &entity.Composition{}
	if err := row.Scan(&c.ID, &c.ComposerID, &c.Title, &c.Subtitle, &c.Genre, &c.AverageReview, &c.TotalReviews); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CompositionRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM compositions WHERE id = $1)`, id).Scan(&ok)
	return existsResult("compositions.exists", ok, err)
}

func (r *CompositionRepository) Get(ctx context.Context, id string) (*entity.Composition, error) {
	c, err := scanComposition(r.db.QueryRow(ctx, `SELECT `+compositionColumns+` FROM compositions WHERE id = $1`, id))
	if err != nil {
		return nil, translate("compositions.get", err)
	}
	return c, nil
}

func (r *CompositionRepository) Insert(ctx context.Context, c *entity.Composition) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO compositions (composer_id, title, subtitle, genre)
		VALUES ($1, $2, $3, $4)
		RETURNING id, average_review, total_reviews
	`, c.ComposerID, c.Title, c.Subtitle, c.Genre)
	return translate("compositions.insert", row.Scan(&c.ID, &c.AverageReview, &c.TotalReviews))
}

func (r *CompositionRepository) Search(ctx context.Context, title, composerID string, limit int) ([]entity.Composition, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+compositionColumns+`
		FROM compositions
		WHERE (title ILIKE '%' || $1 || '%' OR subtitle ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR composer_id::text = $2)
		ORDER BY title
		LIMIT $3
	`, title, composerID, clampLimit(limit))
	if err != nil {
		return nil, translate("compositions.search", err)
	}
	defer rows.Close()

	var out []entity.Composition
	for rows.Next() {
		c, err := scanComposition(rows)
		if err != nil {
			return nil, translate("compositions.search", err)
		}
		out = append(out, *c)
	}
	return out, translate("compositions.search", rows.Err())
}

var (
	_ repository.ComposerRepository    = (*ComposerRepository)(nil)
	_ repository.CompositionRepository = (*CompositionRepository)(nil)
)
