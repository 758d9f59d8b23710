package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkravets/paperjobs/internal/common"
	"github.com/mkravets/paperjobs/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateTestLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func runGate(t *testing.T, enabled bool, path string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var seen *http.Request
	gate := NewRequestGate(enabled, gateTestLogger())
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec, seen
}

func TestGate_NoncePropagation(t *testing.T) {
	rec, seen := runGate(t, true, "/jobs")

	nonce := seen.Header.Get(common.NonceHeaderName)
	require.NotEmpty(t, nonce, "nonce must reach the forwarded request header")
	assert.Equal(t, nonce, NonceFromContext(seen.Context()))

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "'nonce-"+nonce+"'")
	assert.Contains(t, csp, "'strict-dynamic'")
	assert.NotContains(t, csp, "unsafe-inline")
}

func TestGate_DistinctNoncesPerRequest(t *testing.T) {
	_, first := runGate(t, true, "/jobs")
	_, second := runGate(t, true, "/jobs")
	assert.NotEqual(t,
		first.Header.Get(common.NonceHeaderName),
		second.Header.Get(common.NonceHeaderName))
}

func TestGate_ClientSuppliedNonceOverwritten(t *testing.T) {
	var seen *http.Request
	gate := NewRequestGate(true, gateTestLogger())
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
	}))

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set(common.NonceHeaderName, "attacker-chosen")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEqual(t, "attacker-chosen", seen.Header.Get(common.NonceHeaderName))
}

func TestGate_Disabled_StaticPolicy(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		wantRelaxed bool
	}{
		{"listing stays strict", "/jobs", false},
		{"new-job form stays strict", "/jobs/new", false},
		{"preview page relaxed", "/jobs/abc123", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, seen := runGate(t, false, tc.path)

			csp := rec.Header().Get("Content-Security-Policy")
			assert.NotContains(t, csp, "'nonce-")
			assert.Empty(t, seen.Header.Get(common.NonceHeaderName))
			assert.Equal(t, tc.wantRelaxed, strings.Contains(csp, "'unsafe-inline'"))
		})
	}
}

func TestGate_HardeningHeadersBothBranches(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		rec, _ := runGate(t, enabled, "/jobs")
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Empty(t, rec.Header().Get("X-Powered-By"))
	}
}
