package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/classical-review/config"
	"github.com/oksasatya/classical-review/internal/infrastructure/postgres"
	"github.com/oksasatya/classical-review/internal/metrics"
	"github.com/oksasatya/classical-review/pkg/helpers"
	"github.com/oksasatya/classical-review/pkg/mailer"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	store       *postgres.Store
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	mailSender mailer.Sender
	esClient   *elasticsearch.Client

	metricsRegistry  *prometheus.Registry
	metricsCollector *metrics.Collector
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }
func SetRedis(r *redis.Client)   { redisClient = r }
func GetRedis() *redis.Client    { return redisClient }
func SetGCS(s *storage.Client)   { gcsClient = s }
func GetGCS() *storage.Client    { return gcsClient }

// SetPGPool builds the Store every module shares.
func SetPGPool(p *pgxpool.Pool) { store = postgres.NewStore(p) }
func GetStore() *postgres.Store { return store }

func SetJWT(m *helpers.JWTManager) { jwtManager = m }

// GetJWT falls back to a manager built from the loaded config.
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil && cfg != nil {
		jwtManager = helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTEmailSecret,
			cfg.AccessTTL, cfg.RefreshTTL, cfg.EmailTokenTTL)
	}
	return jwtManager
}

func SetMailSender(s mailer.Sender)  { mailSender = s }
func GetMailSender() mailer.Sender   { return mailSender }
func SetES(c *elasticsearch.Client)  { esClient = c }
func GetES() *elasticsearch.Client   { return esClient }

// SetMetrics registers the collector on reg.
func SetMetrics(reg *prometheus.Registry) {
	metricsRegistry = reg
	metricsCollector = metrics.NewCollector(reg)
}
func GetMetricsRegistry() *prometheus.Registry { return metricsRegistry }

// GetMetrics returns the collector, or a no-op when metrics are disabled.
func GetMetrics() metrics.MetricsCollector {
	if metricsCollector == nil {
		return metrics.Nop{}
	}
	return metricsCollector
}
