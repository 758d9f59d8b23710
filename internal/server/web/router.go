package web

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mkravets/paperjobs/internal/server/security"
)

// NewRouter assembles the route tree. Page routes run behind the request
// gate; /api, /static and the favicon are outside it and get the hardening
// baseline from the outer middleware only.
func NewRouter(h *Handlers, gate *RequestGate) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(security.HeadersMiddleware)

	// Page routes: gated, session-aware.
	r.Group(func(r chi.Router) {
		r.Use(gate.Middleware)
		r.Use(h.sessionContext)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/jobs", http.StatusSeeOther)
		})
		r.Get("/login", h.loginForm)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Get("/jobs", h.jobsList)
			r.Get("/jobs/new", h.jobForm)
			r.Post("/jobs", h.jobCreate)
			r.Get("/jobs/{id}", h.jobDetail)
			r.Post("/jobs/{id}/delete", h.jobDelete)
			r.Get("/jobs/{id}/download", h.jobDownload)
		})
	})

	// API routes: no gate, no CSP.
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Post("/csp-report", h.cspReport)
		r.Options("/csp-report", h.cspReportPreflight)

		r.Group(func(r chi.Router) {
			r.Use(h.sessionContext)
			r.Use(h.requireSessionJSON)
			r.Get("/jobs", h.apiJobsList)
		})
	})

	// Static assets, served from the embedded filesystem.
	staticRoot, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))))
	r.Get("/favicon.ico", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
