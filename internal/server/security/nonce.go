// Package security implements the request-time security layer: per-request
// CSP nonces, the Content-Security-Policy builders, the double-submit CSRF
// guard, and the fixed hardening header set.
package security

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mkravets/paperjobs/internal/common"
)

// nonceSize is the entropy of one CSP nonce, in bytes.
const nonceSize = 16

// ReportPath is where browsers POST CSP violation reports.
const ReportPath = "/api/csp-report"

// GenerateNonce returns a fresh nonce backed by 16 bytes from the OS CSPRNG.
// The value is unpadded URL-safe base64: its alphabet survives HTML attribute
// escaping unchanged, so the script-tag copy stays byte-identical to the one
// in the policy header. When the random source fails the error is propagated
// and the request must be aborted; there is no weaker fallback.
func GenerateNonce() (string, error) {
	buf, err := common.GenerateRandByteArray(nonceSize)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// BuildCSP maps a nonce to the full Content-Security-Policy header value.
// Only same-origin or nonce-tagged scripts execute; strict-dynamic lets
// nonce-approved scripts load further scripts without re-noncing.
func BuildCSP(nonce string) string {
	return strings.Join([]string{
		"default-src 'self'",
		fmt.Sprintf("script-src 'self' 'nonce-%s' 'strict-dynamic'", nonce),
		fmt.Sprintf("style-src 'self' 'nonce-%s'", nonce),
		"img-src 'self' data: blob:",
		"font-src 'self' data:",
		"object-src 'self' data:",
		"base-uri 'self'",
		"form-action 'self'",
		"frame-ancestors 'self'",
		"frame-src 'self' data:",
		"block-all-mixed-content",
		"upgrade-insecure-requests",
		"report-uri " + ReportPath,
	}, "; ")
}

// StaticCSP is the route-aware fallback used when nonce-based CSP is turned
// off. Document-preview pages render embedded PDF content and need the
// relaxed variant; every other path keeps the strict static policy. The
// relaxation is scoped to exactly this path class and must never leak into
// the default.
func StaticCSP(path string) string {
	scriptSrc := "script-src 'self'"
	styleSrc := "style-src 'self'"
	if IsPreviewPath(path) {
		scriptSrc = "script-src 'self' 'unsafe-inline' 'unsafe-eval'"
		styleSrc = "style-src 'self' 'unsafe-inline'"
	}
	return strings.Join([]string{
		"default-src 'self'",
		scriptSrc,
		styleSrc,
		"img-src 'self' data: blob:",
		"font-src 'self' data:",
		"object-src 'self' data:",
		"base-uri 'self'",
		"form-action 'self'",
		"frame-ancestors 'self'",
		"frame-src 'self' data:",
		"block-all-mixed-content",
		"upgrade-insecure-requests",
		"report-uri " + ReportPath,
	}, "; ")
}

// IsPreviewPath reports whether path is a document-preview page: a job detail
// view of the form /jobs/{id}. Listing and form pages are not previews.
func IsPreviewPath(path string) bool {
	rest, ok := strings.CutPrefix(path, "/jobs/")
	if !ok || rest == "" {
		return false
	}
	if strings.Contains(rest, "/") {
		return false
	}
	return rest != "new"
}
