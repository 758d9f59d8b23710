// Package web is the HTTP transport: the request gate, the session layer,
// the chi router and the page/API handlers.
package web

import (
	"net/http"

	"github.com/mkravets/paperjobs/internal/common"
	"github.com/mkravets/paperjobs/internal/logging"
	"github.com/mkravets/paperjobs/internal/server/security"
)

// RequestGate runs before route dispatch on every page route. With nonce-based
// CSP enabled it generates the per-request nonce, propagates it via the x-nonce
// request header and the context, and sets the matching Content-Security-Policy
// on the response. Disabled, it falls back to the route-aware static policy.
//
// The gate is mounted on page routes only; /api, /static and the favicon are
// served outside it and get the hardening baseline from the outer middleware.
type RequestGate struct {
	enabled bool
	logger  logging.Logger
}

// NewRequestGate builds a gate; enabled selects nonce-based CSP.
func NewRequestGate(enabled bool, logger logging.Logger) *RequestGate {
	return &RequestGate{enabled: enabled, logger: logger.With("module", "request_gate")}
}

// Middleware is the chi middleware form of the gate. All response headers are
// set before the next handler runs; handlers may add headers but never remove
// the ones set here.
func (g *RequestGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		security.ApplyHeaders(w.Header())

		if !g.enabled {
			w.Header().Set("Content-Security-Policy", security.StaticCSP(r.URL.Path))
			next.ServeHTTP(w, r)
			return
		}

		nonce, err := security.GenerateNonce()
		if err != nil {
			// No nonce means no safe policy to publish. Fail the request
			// rather than degrade.
			g.logger.Error(r.Context(), "nonce generation failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		// The inbound header is overwritten unconditionally: the nonce is
		// internal propagation and never client-supplied.
		r.Header.Set(common.NonceHeaderName, nonce)
		w.Header().Set("Content-Security-Policy", security.BuildCSP(nonce))

		next.ServeHTTP(w, r.WithContext(WithNonce(r.Context(), nonce)))
	})
}
