package web

import "context"

type contextKey int

const (
	nonceContextKey contextKey = iota
	userIDContextKey
)

// WithNonce stores the per-request CSP nonce in the context.
func WithNonce(ctx context.Context, nonce string) context.Context {
	return context.WithValue(ctx, nonceContextKey, nonce)
}

// NonceFromContext returns the per-request CSP nonce, or "" when the request
// did not pass through the gate.
func NonceFromContext(ctx context.Context) string {
	nonce, _ := ctx.Value(nonceContextKey).(string)
	return nonce
}

// WithUserID stores the authenticated user ID in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user ID, or "" for an anonymous
// request.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDContextKey).(string)
	return userID
}
