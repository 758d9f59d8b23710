package web

import (
	"database/sql"
	"net/http"

	"github.com/mkravets/paperjobs/internal/common"
	"github.com/mkravets/paperjobs/internal/logging"
	sc "github.com/mkravets/paperjobs/internal/server/config"
	"github.com/mkravets/paperjobs/internal/server/security"
	"github.com/mkravets/paperjobs/internal/server/services"
)

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	users    *services.UserService
	jobs     *services.JobService
	csrf     *security.CSRFGuard
	config   *sc.Config
	renderer *Renderer
	logger   logging.Logger
	db       *sql.DB
}

// NewHandlers wires the handler set.
func NewHandlers(users *services.UserService, jobs *services.JobService, csrf *security.CSRFGuard,
	cfg *sc.Config, renderer *Renderer, logger logging.Logger, db *sql.DB) *Handlers {
	return &Handlers{
		users:    users,
		jobs:     jobs,
		csrf:     csrf,
		config:   cfg,
		renderer: renderer,
		logger:   logger.With("module", "web"),
		db:       db,
	}
}

// checkCSRF validates the hidden form field against the cookie copy. It runs
// after the session check and before any input validation or persistence.
func (h *Handlers) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	if h.csrf.Validate(r, r.PostFormValue(common.CSRFFieldName)) {
		return true
	}
	h.logger.Warn(r.Context(), "request rejected: invalid CSRF token", "path", r.URL.Path)
	http.Error(w, "Invalid CSRF token", http.StatusForbidden)
	return false
}

type loginPage struct {
	Title     string
	Nonce     string
	CSRFToken string
	Error     string
}

func (h *Handlers) loginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, "")
}

func (h *Handlers) renderLogin(w http.ResponseWriter, r *http.Request, errMsg string) {
	token, err := h.csrf.Issue(w)
	if err != nil {
		h.logger.Error(r.Context(), "csrf token generation failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_ = h.renderer.Render(w, http.StatusOK, "login.html", loginPage{
		Title:     "Sign in",
		Nonce:     NonceFromContext(r.Context()),
		CSRFToken: token,
		Error:     errMsg,
	})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}

	res, err := h.users.LoginOrRegister(r.Context(),
		r.PostFormValue("email"), r.PostFormValue("name"), r.PostFormValue("password"))
	if err != nil {
		// One generic message for every failure class.
		h.renderLogin(w, r, "Invalid email or password")
		return
	}

	if err := h.setSessionCookie(w, res.UserID); err != nil {
		h.logger.Error(r.Context(), "session token signing failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/jobs", http.StatusSeeOther)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
