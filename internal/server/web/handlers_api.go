package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"
)

// maxReportSize bounds CSP violation report bodies.
const maxReportSize = 64 << 10

// cspReport accepts browser CSP violation reports. The endpoint is
// intentionally permissive about shape: any JSON object is acknowledged, so a
// policy rollout never turns into a client-visible error storm. Reports are
// logged, not stored.
func (h *Handlers) cspReport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxReportSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid report"})
		return
	}

	var report map[string]any
	if err := json.Unmarshal(body, &report); err != nil || report == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid report"})
		return
	}

	h.logger.Warn(r.Context(), "csp violation reported",
		"user_agent", r.UserAgent(),
		"url", r.URL.String(),
		"report", report)
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// cspReportPreflight answers the CORS preflight browsers send before posting
// a report.
func (h *Handlers) cspReportPreflight(w http.ResponseWriter, r *http.Request) {
	header := w.Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
}

type jobItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	FileName  string    `json:"fileName"`
	FileSize  int64     `json:"fileSize"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type jobListResponse struct {
	Jobs       []jobItem `json:"jobs"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// apiJobsList is the JSON pagination endpoint backing client-side refresh.
func (h *Handlers) apiJobsList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	jobs, totalPages, err := h.jobs.List(r.Context(), page)
	if err != nil {
		h.logger.Error(r.Context(), "job listing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}

	resp := jobListResponse{Jobs: make([]jobItem, 0, len(jobs)), Page: page, TotalPages: totalPages}
	for _, j := range jobs {
		resp.Jobs = append(resp.Jobs, jobItem{
			ID:        j.ID,
			Title:     j.Title,
			FileName:  j.FileName,
			FileSize:  j.FileSize,
			Status:    j.Status,
			CreatedAt: j.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// health pings the database so load balancers see storage trouble early.
func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
