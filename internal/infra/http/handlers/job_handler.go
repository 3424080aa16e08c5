package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/leadgen-api/internal/infra/http/middleware"
	"github.com/xavierca1/leadgen-api/internal/usecase"
)

type JobHandler struct {
	CreateJobUC    *usecase.CreateJobUseCase
	ListJobsUC     *usecase.ListJobsUseCase
	UpdateStatusUC *usecase.UpdateJobStatusUseCase
}

func NewJobHandler(create *usecase.CreateJobUseCase, list *usecase.ListJobsUseCase, update *usecase.UpdateJobStatusUseCase) *JobHandler {
	return &JobHandler{CreateJobUC: create, ListJobsUC: list, UpdateStatusUC: update}
}

// ListActive atende GET /jobs: pending e running, mais antigos primeiro.
func (h *JobHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	p, ok := profile(w, r)
	if !ok {
		return
	}

	out, err := h.ListJobsUC.Active(r.Context(), p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := profile(w, r)
	if !ok {
		return
	}

	var input usecase.CreateJobInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.UserID = p.ID

	out, err := h.CreateJobUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.RecordJobCreated(string(out.Job.Platform))
	writeJSON(w, http.StatusCreated, out)
}

// UpdateStatus atende PATCH /jobs com job_id no corpo.
func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := profile(w, r)
	if !ok {
		return
	}

	var input usecase.UpdateJobStatusInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.UserID = p.ID

	out, err := h.UpdateStatusUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.RecordJobTransition(string(out.Job.Status))
	writeJSON(w, http.StatusOK, out)
}

func (h *JobHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	p, ok := profile(w, r)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	out, err := h.ListJobsUC.All(r.Context(), p.ID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := profile(w, r)
	if !ok {
		return
	}

	out, err := h.ListJobsUC.Get(r.Context(), p.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *JobHandler) Stop(w http.ResponseWriter, r *http.Request) {
	p, ok := profile(w, r)
	if !ok {
		return
	}

	out, err := h.UpdateStatusUC.Stop(r.Context(), p.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.RecordJobTransition(string(out.Job.Status))
	writeJSON(w, http.StatusOK, out)
}
