package web

import (
	"net/http"
	"time"

	"github.com/mkravets/paperjobs/internal/common"
	"github.com/mkravets/paperjobs/internal/server/auth"
)

// sessionContext resolves the session cookie into a user ID on the request
// context. An absent or invalid cookie leaves the request anonymous; access
// decisions belong to requireSession / requireSessionJSON.
func (h *Handlers) sessionContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(common.SessionCookieName)
		if err == nil && cookie.Value != "" {
			userID, err := auth.GetUserIDFromToken(cookie.Value, []byte(h.config.SecretKey))
			if err == nil {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireSession redirects anonymous page requests to the login form.
func (h *Handlers) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromContext(r.Context()) == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireSessionJSON rejects anonymous API requests with a JSON 401.
func (h *Handlers) requireSessionJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromContext(r.Context()) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setSessionCookie issues the signed session cookie after a successful login.
func (h *Handlers) setSessionCookie(w http.ResponseWriter, userID string) error {
	token, err := auth.GenerateToken(userID, []byte(h.config.SecretKey), h.config.SessionValidityDuration)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.config.Production,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.config.SessionValidityDuration / time.Second),
	})
	return nil
}

// clearSessionCookie expires the session cookie on logout.
func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.config.Production,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
