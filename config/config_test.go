package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_ACCESS_TTL", "")

	cfg := Load()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.EmailTokenTTL)
	assert.True(t, cfg.MailSendEnabled)
	assert.Empty(t, cfg.ESAddrs())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("JWT_REFRESH_TTL", "2h")
	t.Setenv("MAIL_SEND_ENABLED", "false")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200, http://es2:9200,")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, 2*time.Hour, cfg.RefreshTTL)
	assert.False(t, cfg.MailSendEnabled)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MIN_CONNS", "many")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("JWT_ACCESS_TTL", "soon")

	cfg := Load()
	assert.Equal(t, int32(2), cfg.DBMinConns)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "cr", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/cr?sslmode=disable", cfg.PostgresDSN())
}
