package common

const (
	// CSRFCookieName is the cookie holding the server copy of the
	// double-submit CSRF token.
	CSRFCookieName = "csrf-token"

	// SessionCookieName is the cookie carrying the signed session claim.
	SessionCookieName = "session-token"

	// CSRFFieldName is the hidden form field carrying the client copy of the
	// CSRF token on state-changing submissions.
	CSRFFieldName = "csrf_token"

	// NonceHeaderName carries the per-request CSP nonce on the forwarded
	// request so the renderer can embed it into script tags. It is internal
	// propagation and never trusted when supplied by the client.
	NonceHeaderName = "x-nonce"
)
