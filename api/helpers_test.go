package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type stubPrincipal struct {
	identity *domain.Identity
}

func (p stubPrincipal) ID() string                 { return "s1" }
func (p stubPrincipal) Credential() string         { return "tok" }
func (p stubPrincipal) Identity() *domain.Identity { return p.identity }

var (
	signedIn  = stubPrincipal{identity: &domain.Identity{ID: "u1", Email: "jane@example.com"}}
	anonymous = stubPrincipal{}
)

type registrar interface {
	Register(router *gin.RouterGroup)
}

// newRouter mounts h behind a middleware that puts p on the request the way SessionMiddleware does.
func newRouter(p domain.Principal, h registrar) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(sessionKey, p)
		c.Next()
	})
	h.Register(&r.RouterGroup)
	return r
}

func serve(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
