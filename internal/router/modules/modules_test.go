package modules

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/classical-review/internal/application"
	handlers "github.com/oksasatya/classical-review/internal/interface/http"
	"github.com/oksasatya/classical-review/internal/interface/middleware"
	"github.com/oksasatya/classical-review/internal/metrics"
	"github.com/oksasatya/classical-review/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(engine *gin.Engine, method, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if remote != "" {
		req.RemoteAddr = remote
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestMetricsModule_PrivateOnly(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)
	c.RecordReviewOperation(metrics.OpCreate, nil)

	engine := gin.New()
	NewMetricsModule(reg).Register(engine.Group("/api"))

	w := serve(engine, http.MethodGet, "/api/metrics", "10.1.2.3:5555")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "classical_review_review_operations_total")

	w = serve(engine, http.MethodGet, "/api/metrics", "203.0.113.9:5555")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewModule_RequiresAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("a", "r", "e", time.Hour, time.Hour, time.Hour)
	h := handlers.NewReviewHandler(&application.ReviewService{}, nil)

	engine := gin.New()
	NewReviewModule(h, middleware.Auth(jwt, nil, nil), nil).Register(engine.Group("/api"))

	routes := map[string]string{}
	for _, ri := range engine.Routes() {
		routes[ri.Method+" "+ri.Path] = ri.Handler
	}
	for _, want := range []string{
		"POST /api/review",
		"PUT /api/review/:id",
		"DELETE /api/review/:id",
		"POST /api/review/:id/like",
		"DELETE /api/review/:id/like",
	} {
		assert.Contains(t, routes, want)
	}

	w := serve(engine, http.MethodDelete, "/api/review/r1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccountAndSearchModules_Routes(t *testing.T) {
	jwt := helpers.NewJWTManager("a", "r", "e", time.Hour, time.Hour, time.Hour)
	engine := gin.New()
	api := engine.Group("/api")
	NewAccountModule(handlers.NewAccountHandler(&application.AccountService{}, nil, "", false), middleware.Auth(jwt, nil, nil), nil).Register(api)
	NewSearchModule(handlers.NewSearchHandler(&application.SearchService{}, nil), nil).Register(api)

	routes := map[string]bool{}
	for _, ri := range engine.Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"POST /api/account/register",
		"POST /api/account/verify",
		"POST /api/account/verify/resend",
		"POST /api/account/login",
		"POST /api/account/refresh",
		"POST /api/account/logout",
		"GET /api/account/me",
		"PUT /api/account/bio",
		"POST /api/account/avatar",
		"GET /api/search/composers",
		"GET /api/search/composers/:id",
		"GET /api/search/compositions",
		"GET /api/search/compositions/:id",
		"GET /api/search/users",
		"GET /api/search/users/:id",
		"GET /api/search/reviews",
		"GET /api/search/reviews/:id",
	} {
		assert.True(t, routes[want], want)
	}

	w := serve(engine, http.MethodGet, "/api/account/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
