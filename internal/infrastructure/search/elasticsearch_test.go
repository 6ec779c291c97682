package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/classical-review/internal/domain/entity"
	"github.com/oksasatya/classical-review/pkg/helpers"
)

type esRequest struct {
	method string
	path   string
	body   string
}

type fakeES struct {
	mu       sync.Mutex
	requests []esRequest
	status   int
	reply    string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, esRequest{method: r.Method, path: r.URL.Path, body: string(b)})
	status, reply := f.status, f.reply
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if reply == "" {
		reply = `{}`
	}
	_, _ = io.WriteString(w, reply)
}

func (f *fakeES) respond(status int, reply string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.reply = status, reply
}

func (f *fakeES) last() esRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestIndex(t *testing.T) (*fakeES, *Index) {
	t.Helper()
	fake := &fakeES{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	es, err := helpers.NewESClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	return fake, NewIndex(es, "users", "reviews")
}

func TestIndexUser_OmitsPrivateFields(t *testing.T) {
	fake, idx := newTestIndex(t)

	err := idx.IndexUser(context.Background(), &entity.User{
		ID: "u1", Username: "clara", Email: "clara@example.com", Password: "hash", Bio: "pianist",
	})
	require.NoError(t, err)

	req := fake.last()
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/users/_doc/u1", req.path)
	assert.Contains(t, req.body, `"username":"clara"`)
	assert.NotContains(t, req.body, "clara@example.com")
	assert.NotContains(t, req.body, "hash")
}

func TestIndexReview_AndDelete(t *testing.T) {
	fake, idx := newTestIndex(t)
	comment := "luminous"

	require.NoError(t, idx.IndexReview(context.Background(), &entity.Review{ID: "r1", Rating: 4, Comment: &comment}))
	assert.Equal(t, "/reviews/_doc/r1", fake.last().path)
	assert.Contains(t, fake.last().body, `"comment":"luminous"`)

	fake.respond(http.StatusNotFound, "")
	require.NoError(t, idx.DeleteReview(context.Background(), "r1"))
	assert.Equal(t, http.MethodDelete, fake.last().method)

	fake.respond(http.StatusInternalServerError, "")
	assert.Error(t, idx.DeleteReview(context.Background(), "r1"))
	assert.Error(t, idx.IndexReview(context.Background(), &entity.Review{ID: "r2"}))
}

func TestSearchUsers_DecodesHits(t *testing.T) {
	fake, idx := newTestIndex(t)
	fake.respond(http.StatusOK, `{"hits":{"hits":[
		{"_id":"u1","_source":{"id":"u1","username":"clara","bio":"pianist","total_reviews":3}},
		{"_id":"u2","_source":{"id":"u2","username":"clarinetist"}}
	]}}`)

	users, err := idx.SearchUsers(context.Background(), "clara", 5)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "clara", users[0].Username)
	assert.Equal(t, 3, users[0].TotalReviews)

	req := fake.last()
	assert.Equal(t, "/users/_search", req.path)
	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.body), &q))
	assert.EqualValues(t, 5, q["size"])
}

func TestSearchReviews_DecodesComment(t *testing.T) {
	fake, idx := newTestIndex(t)
	fake.respond(http.StatusOK, `{"hits":{"hits":[{"_id":"r1","_source":{"id":"r1","rating":5,"comment":"sublime"}},{"_id":"r2","_source":{"id":"r2","rating":2}}]}}`)

	reviews, err := idx.SearchReviews(context.Background(), "sublime", 0)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	require.NotNil(t, reviews[0].Comment)
	assert.Equal(t, "sublime", *reviews[0].Comment)
	assert.Nil(t, reviews[1].Comment)
	assert.True(t, strings.HasSuffix(fake.last().path, "/reviews/_search"))
}

func TestSearch_ErrorStatus(t *testing.T) {
	fake, idx := newTestIndex(t)
	fake.respond(http.StatusServiceUnavailable, "")

	_, err := idx.SearchUsers(context.Background(), "x", 10)
	assert.Error(t, err)

	// one attempt plus two retries
	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.requests, 3)
}
