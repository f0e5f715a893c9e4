package handlers

import (
	"net/http"

	"imagequest/internal/jobs"
)

// JobsHandler exposes generation-job status so clients can watch an upload's
// images arrive instead of guessing.
type JobsHandler struct {
	repo *jobs.Repository
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(repo *jobs.Repository) *JobsHandler {
	return &JobsHandler{repo: repo}
}

// GetJob returns one job with its per-image items.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")

	job, err := h.repo.GetJob(jobID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load job", err)
		return
	}
	if job == nil {
		respondError(w, http.StatusNotFound, "Job not found", nil)
		return
	}

	items, err := h.repo.GetJobItems(jobID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load job items", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"job":   job,
		"items": items,
	})
}
