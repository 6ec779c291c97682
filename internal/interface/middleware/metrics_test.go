package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method, route string
	status        int
}

type requestRecorder struct {
	seen []recordedRequest
}

func (r *requestRecorder) RecordReviewOperation(string, error) {}

func (r *requestRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	r.seen = append(r.seen, recordedRequest{method, route, status})
}

func TestMetrics_RecordsMatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &requestRecorder{}
	r := gin.New()
	r.Use(Metrics(rec))
	r.GET("/api/search/reviews/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/search/reviews/r1", nil))

	require.Len(t, rec.seen, 1)
	assert.Equal(t, recordedRequest{http.MethodGet, "/api/search/reviews/:id", http.StatusNotFound}, rec.seen[0])
}
