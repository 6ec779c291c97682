package router

import (
	"github.com/oksasatya/classical-review/internal/application"
	"github.com/oksasatya/classical-review/internal/container"
	repo "github.com/oksasatya/classical-review/internal/domain/repository"
	"github.com/oksasatya/classical-review/internal/infrastructure/redisstore"
	"github.com/oksasatya/classical-review/internal/infrastructure/search"
	"github.com/oksasatya/classical-review/internal/infrastructure/storage"
	handlers "github.com/oksasatya/classical-review/internal/interface/http"
	"github.com/oksasatya/classical-review/internal/interface/middleware"
	"github.com/oksasatya/classical-review/internal/router/modules"
)

// Deps holds the services shared by the feature modules.
type Deps struct {
	Account *application.AccountService
	Reviews *application.ReviewService
	Search  *application.SearchService
}

// adapters backed by optional services; each stays nil when its backend is not configured
type adapters struct {
	sessions repo.SessionRepository
	avatars  application.AvatarStore
	users    application.UserIndexer
	reviews  application.ReviewIndexer
	fullText application.FullTextSearcher
}

func buildAdapters() adapters {
	var a adapters
	if rdb := container.GetRedis(); rdb != nil {
		a.sessions = redisstore.NewSessionRepository(rdb)
	}
	if gcs := container.GetGCS(); gcs != nil {
		a.avatars = storage.NewAvatarStore(gcs, container.GetConfig().GCSBucket)
	}
	if es := container.GetES(); es != nil {
		cfg := container.GetConfig()
		idx := search.NewIndex(es, cfg.ESUsersIndex, cfg.ESReviewsIndex)
		a.users, a.reviews, a.fullText = idx, idx, idx
	}
	return a
}

func buildDeps(a adapters) Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()
	repos := store.Repositories()

	return Deps{
		Account: application.NewAccountService(
			repos.Users,
			a.sessions,
			container.GetJWT(),
			container.GetMailSender(),
			a.avatars,
			a.users,
			cfg.RefreshTTL,
			logger,
		),
		Reviews: application.NewReviewService(repos, store, a.reviews, container.GetMetrics(), logger),
		Search:  application.NewSearchService(repos, a.fullText, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	a := buildAdapters()
	deps := buildDeps(a)

	auth := middleware.Auth(container.GetJWT(), a.sessions, logger)

	r.Add(modules.NewAccountModule(handlers.NewAccountHandler(deps.Account, logger, cfg.CookieDomain, cfg.CookieSecure), auth, rdb))
	r.Add(modules.NewReviewModule(handlers.NewReviewHandler(deps.Reviews, logger), auth, rdb))
	r.Add(modules.NewSearchModule(handlers.NewSearchHandler(deps.Search, logger), rdb))
	if reg := container.GetMetricsRegistry(); reg != nil {
		r.Add(modules.NewMetricsModule(reg))
	}
}
