package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyHeaders_SetsBaselineAndStrips(t *testing.T) {
	h := http.Header{}
	h.Set("X-Powered-By", "Express")
	h.Set("Server", "nginx")

	ApplyHeaders(h)

	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", h.Get("X-XSS-Protection"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Equal(t, "off", h.Get("X-DNS-Prefetch-Control"))
	assert.Equal(t, "none", h.Get("X-Permitted-Cross-Domain-Policies"))

	assert.Empty(t, h.Get("X-Powered-By"))
	assert.Empty(t, h.Get("Server"))
}

func TestAllowSameOriginFrame(t *testing.T) {
	h := http.Header{}
	ApplyHeaders(h)
	AllowSameOriginFrame(h)
	assert.Equal(t, "SAMEORIGIN", h.Get("X-Frame-Options"))
}

func TestHeadersMiddleware_CoversErrorPaths(t *testing.T) {
	handler := HeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("X-Powered-By"))
}
