package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/classical-review/pkg/response"
)

type pingModule struct{ path string }

func (m pingModule) Register(rg *gin.RouterGroup) {
	rg.GET(m.path, func(c *gin.Context) { c.String(http.StatusOK, c.GetString("tag")) })
}

func TestRegistry_RegisterAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	r := NewRegistry(engine)
	r.Use(func(c *gin.Context) { c.Set("tag", "api"); c.Next() })
	r.Add(pingModule{path: "/one"})
	r.Add(pingModule{path: "/two"})
	r.RegisterAll()

	for _, p := range []string{"/api/one", "/api/two"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, w.Code, p)
		assert.Equal(t, "api", w.Body.String())
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/one", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `false`, jsonField(t, w.Body.Bytes(), "success"))
	assert.JSONEq(t, `"`+response.MsgNotFound+`"`, jsonField(t, w.Body.Bytes(), "message"))
}

func TestRegistry_SkipsNilModule(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRegistry(gin.New())
	r.Add(nil)
	r.Add(pingModule{path: "/one"})
	assert.Len(t, r.modules, 1)
	assert.NotPanics(t, r.RegisterAll)
}

func jsonField(t *testing.T, body []byte, key string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return string(m[key])
}
