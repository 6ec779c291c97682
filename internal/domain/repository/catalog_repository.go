package repository

import (
	"context"

	"github.com/oksasatya/classical-review/internal/domain/entity"
)

type ComposerRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*entity.Composer, error)
	Insert(ctx context.Context, c *entity.Composer) error
	Search(ctx context.Context, name string, limit int) ([]entity.Composer, error)
	AggregateRepository
}

type CompositionRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*entity.Composition, error)
	Insert(ctx context.Context, c *entity.Composition) error
	// Search matches title case-insensitively; an empty composerID matches any composer.
	Search(ctx context.Context, title, composerID string, limit int) ([]entity.Composition, error)
	AggregateRepository
}
