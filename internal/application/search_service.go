package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/classical-review/internal/domain/entity"
	repo "github.com/oksasatya/classical-review/internal/domain/repository"
)

// FullTextSearcher queries the full-text index.
type FullTextSearcher interface {
	SearchUsers(ctx context.Context, q string, limit int) ([]entity.User, error)
	SearchReviews(ctx context.Context, q string, limit int) ([]entity.Review, error)
}

// SearchService serves the read side: listings and single-entity lookups.
// Free-text user and review queries use the full-text index when one is
// configured and fall back to Postgres when it is not or when it fails.
type SearchService struct {
	Repos    repo.Repositories
	FullText FullTextSearcher
	Logger   *logrus.Logger
}

func NewSearchService(repos repo.Repositories, fullText FullTextSearcher, logger *logrus.Logger) *SearchService {
	return &SearchService{Repos: repos, FullText: fullText, Logger: logger}
}

type ReviewQuery struct {
	CompositionID string
	UserID        string
	Text          string
	Limit         int
}

func (s *SearchService) Composers(ctx context.Context, name string, limit int) ([]entity.Composer, error) {
	return s.Repos.Composers.Search(ctx, name, limit)
}

func (s *SearchService) Composer(ctx context.Context, id string) (*entity.Composer, error) {
	return s.Repos.Composers.Get(ctx, id)
}

func (s *SearchService) Compositions(ctx context.Context, title, composerID string, limit int) ([]entity.Composition, error) {
	return s.Repos.Compositions.Search(ctx, title, composerID, limit)
}

func (s *SearchService) Composition(ctx context.Context, id string) (*entity.Composition, error) {
	return s.Repos.Compositions.Get(ctx, id)
}

func (s *SearchService) Users(ctx context.Context, q string, limit int) ([]entity.User, error) {
	if s.FullText != nil && q != "" {
		users, err := s.FullText.SearchUsers(ctx, q, limit)
		if err == nil {
			return users, nil
		}
		s.fallback(err, "users")
	}
	return s.Repos.Users.Search(ctx, q, limit)
}

func (s *SearchService) User(ctx context.Context, id string) (*entity.User, error) {
	return s.Repos.Users.Get(ctx, entity.ByID(id))
}

// Reviews goes to the full-text index only for a pure text query; any id
// filter is answered by Postgres.
func (s *SearchService) Reviews(ctx context.Context, q ReviewQuery) ([]entity.Review, error) {
	if s.FullText != nil && q.Text != "" && q.CompositionID == "" && q.UserID == "" {
		reviews, err := s.FullText.SearchReviews(ctx, q.Text, q.Limit)
		if err == nil {
			return reviews, nil
		}
		s.fallback(err, "reviews")
	}
	return s.Repos.Reviews.Search(ctx, repo.ReviewFilter{
		CompositionID: q.CompositionID,
		UserID:        q.UserID,
		Comment:       q.Text,
		Limit:         q.Limit,
	})
}

func (s *SearchService) Review(ctx context.Context, id string) (*entity.Review, error) {
	return s.Repos.Reviews.Get(ctx, id)
}

func (s *SearchService) fallback(err error, index string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("index", index).Warn("full-text search failed; falling back to postgres")
	}
}
