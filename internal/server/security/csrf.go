package security

import (
	"crypto/subtle"
	"net/http"

	"github.com/mkravets/paperjobs/internal/common"
)

// csrfTokenSize is the entropy of one CSRF token, in bytes (hex-encoded on
// the wire, so the cookie value is twice as long).
const csrfTokenSize = 32

// csrfMaxAge is the cookie lifetime: 24 hours.
const csrfMaxAge = 86400

// CSRFGuard implements the double-submit pattern: one copy of the token in an
// httpOnly cookie, one embedded as a hidden field in every mutating form. A
// submission is accepted only when both copies match exactly.
type CSRFGuard struct {
	// Production controls the Secure cookie attribute.
	Production bool
}

// NewCSRFGuard returns a guard whose cookies are Secure iff production is set.
func NewCSRFGuard(production bool) *CSRFGuard {
	return &CSRFGuard{Production: production}
}

// Issue generates a fresh token, stores it in the csrf-token cookie and
// returns the value so the caller can embed it in a form. Issue and Validate
// are deliberately separate effectful operations; validation never refreshes
// or clears the cookie.
func (g *CSRFGuard) Issue(w http.ResponseWriter) (string, error) {
	token, err := common.MakeRandHexString(csrfTokenSize)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.Production,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   csrfMaxAge,
	})

	return token, nil
}

// Validate compares the presented token against the cookie copy in constant
// time. Absence of either side yields false, never an error. The cookie is
// left untouched; the token stays valid until natural expiry.
func (g *CSRFGuard) Validate(r *http.Request, presented string) bool {
	if presented == "" {
		return false
	}
	cookie, err := r.Cookie(common.CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(presented)) == 1
}
