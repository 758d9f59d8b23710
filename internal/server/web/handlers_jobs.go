package web

import (
	"encoding/base64"
	"errors"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mkravets/paperjobs/internal/common"
	"github.com/mkravets/paperjobs/internal/server/models"
	"github.com/mkravets/paperjobs/internal/server/security"
	"github.com/mkravets/paperjobs/internal/server/services"
)

// multipartMemoryLimit bounds the in-memory part of multipart parsing; the
// 10 MB document limit itself is enforced by the job service.
const multipartMemoryLimit = 12 << 20

type jobsPage struct {
	Title      string
	Nonce      string
	CSRFToken  string
	Jobs       []*models.Job
	Page       int
	PrevPage   int
	NextPage   int
	TotalPages int
}

func (h *Handlers) jobsList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	jobs, totalPages, err := h.jobs.List(r.Context(), page)
	if err != nil {
		h.logger.Error(r.Context(), "job listing failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	token, err := h.csrf.Issue(w)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_ = h.renderer.Render(w, http.StatusOK, "jobs.html", jobsPage{
		Title:      "Jobs",
		Nonce:      NonceFromContext(r.Context()),
		CSRFToken:  token,
		Jobs:       jobs,
		Page:       page,
		PrevPage:   page - 1,
		NextPage:   page + 1,
		TotalPages: totalPages,
	})
}

type jobFormPage struct {
	Title     string
	Nonce     string
	CSRFToken string
	Error     string
}

func (h *Handlers) jobForm(w http.ResponseWriter, r *http.Request) {
	h.renderJobForm(w, r, "")
}

func (h *Handlers) renderJobForm(w http.ResponseWriter, r *http.Request, errMsg string) {
	token, err := h.csrf.Issue(w)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_ = h.renderer.Render(w, http.StatusOK, "job_new.html", jobFormPage{
		Title:     "New job",
		Nonce:     NonceFromContext(r.Context()),
		CSRFToken: token,
		Error:     errMsg,
	})
}

func (h *Handlers) jobCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if !h.checkCSRF(w, r) {
		return
	}

	input := services.CreateJobInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		UserID:      UserIDFromContext(r.Context()),
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		content, readErr := io.ReadAll(file)
		if readErr != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		input.FileName = header.Filename
		input.MimeType = header.Header.Get("Content-Type")
		input.Content = content
	}

	if _, err := h.jobs.Create(r.Context(), input); err != nil {
		switch {
		case errors.Is(err, common.ErrFileMissing):
			h.renderJobForm(w, r, "Please choose a document to upload")
		case errors.Is(err, common.ErrFileType):
			h.renderJobForm(w, r, "Only PDF documents are accepted")
		case errors.Is(err, common.ErrFileTooLarge):
			h.renderJobForm(w, r, "The document exceeds the 10 MB limit")
		default:
			h.logger.Error(r.Context(), "job creation failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/jobs", http.StatusSeeOther)
}

type jobDetailPage struct {
	Title     string
	Nonce     string
	CSRFToken string
	Job       *models.Job
	// PreviewSrc is typed template.URL: the data: scheme is intentional here
	// and must not be sanitized away by the template URL filter.
	PreviewSrc template.URL
}

func (h *Handlers) jobDetail(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}

	// The preview embeds a same-origin frame; the global DENY would blank it.
	security.AllowSameOriginFrame(w.Header())

	var previewSrc template.URL
	switch {
	case len(job.FileContent) > 0:
		previewSrc = template.URL("data:application/pdf;base64," + base64.StdEncoding.EncodeToString(job.FileContent))
	case job.StorageKey != "":
		previewSrc = template.URL("/jobs/" + job.ID + "/download")
	}

	token, err := h.csrf.Issue(w)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_ = h.renderer.Render(w, http.StatusOK, "job_detail.html", jobDetailPage{
		Title:      job.Title,
		Nonce:      NonceFromContext(r.Context()),
		CSRFToken:  token,
		Job:        job,
		PreviewSrc: previewSrc,
	})
}

func (h *Handlers) jobDelete(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}

	if err := h.jobs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error(r.Context(), "job deletion failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/jobs", http.StatusSeeOther)
}

func (h *Handlers) jobDownload(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}

	if len(job.FileContent) > 0 {
		w.Header().Set("Content-Type", job.MimeType)
		w.Header().Set("Content-Disposition",
			mime.FormatMediaType("inline", map[string]string{"filename": job.FileName}))
		_, _ = w.Write(job.FileContent)
		return
	}

	url, err := h.jobs.PresignDownload(r.Context(), job)
	if err != nil {
		h.logger.Error(r.Context(), "presigning download failed", "job_id", job.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *Handlers) loadJob(w http.ResponseWriter, r *http.Request) (*models.Job, bool) {
	job, err := h.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		h.logger.Error(r.Context(), "job lookup failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	return job, true
}
