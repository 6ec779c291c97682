package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/classical-review/internal/domain/entity"
	"github.com/oksasatya/classical-review/internal/domain/repository"
)

const userColumns = `id, username, email, password_hash, bio, avatar_url, is_verified,
	average_review, total_reviews, created_at, updated_at`

type UserRepository struct {
	aggregateColumns
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{aggregateColumns: aggregateColumns{db: db, table: "users"}, db: db}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Bio, &u.AvatarURL, &u.IsVerified,
		&u.AverageReview, &u.TotalReviews, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	u.Email = strings.ToLower(u.Email)
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, bio)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_verified, average_review, total_reviews, created_at, updated_at
	`, u.Username, u.Email, u.Password, u.Bio)

	err := row.Scan(&u.ID, &u.IsVerified, &u.AverageReview, &u.TotalReviews, &u.CreatedAt, &u.UpdatedAt)
	return translate("users.create", err)
}

func (r *UserRepository) Get(ctx context.Context, id entity.UserIdentifier) (*entity.User, error) {
	// Column comes from a closed set of identifier variants.
	q := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, id.Column())
	u, err := scanUser(r.db.QueryRow(ctx, q, id.Value()))
	if err != nil {
		return nil, translate("users.get", err)
	}
	return u, nil
}

func (r *UserRepository) Exists(ctx context.Context, id entity.UserIdentifier) (bool, error) {
	var ok bool
	q := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM users WHERE %s = $1)`, id.Column())
	err := r.db.QueryRow(ctx, q, id.Value()).Scan(&ok)
	return existsResult("users.exists", ok, err)
}

func (r *UserRepository) SetVerified(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET is_verified = TRUE, updated_at = now() WHERE id = $1
	`, userID)
	return affectedOne("users.set_verified", tag, err)
}

func (r *UserRepository) UpdateBio(ctx context.Context, userID, bio string) (*entity.User, error) {
	q := `UPDATE users SET bio = $1, updated_at = now() WHERE id = $2 RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, q, bio, userID))
	if err != nil {
		return nil, translate("users.update_bio", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) (*entity.User, error) {
	q := `UPDATE users SET avatar_url = $1, updated_at = now() WHERE id = $2 RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, q, avatarURL, userID))
	if err != nil {
		return nil, translate("users.update_avatar", err)
	}
	return u, nil
}

func (r *UserRepository) Search(ctx context.Context, username string, limit int) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username ILIKE '%' || $1 || '%'
		ORDER BY username
		LIMIT $2
	`, username, clampLimit(limit))
	if err != nil {
		return nil, translate("users.search", err)
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translate("users.search", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("users.search", err)
	}
	return out, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
