package handlers

import (
	"net/http"

	"github.com/xavierca1/leadgen-api/internal/infra/http/middleware"
	"github.com/xavierca1/leadgen-api/internal/usecase"
)

type LeadHandler struct {
	IngestUC    *usecase.IngestLeadsUseCase
	ListLeadsUC *usecase.ListLeadsUseCase
}

func NewLeadHandler(ingest *usecase.IngestLeadsUseCase, list *usecase.ListLeadsUseCase) *LeadHandler {
	return &LeadHandler{IngestUC: ingest, ListLeadsUC: list}
}

// Ingest atende POST /leads: o lote inteiro entra ou nada entra.
func (h *LeadHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	p, ok := profile(w, r)
	if !ok {
		return
	}

	var input usecase.IngestLeadsInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.UserID = p.ID

	out, err := h.IngestUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.RecordLeadsIngested(out.Inserted, out.HotLeads)
	writeJSON(w, http.StatusCreated, out)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := profile(w, r)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset")
	if !ok {
		return
	}

	q := r.URL.Query()
	out, err := h.ListLeadsUC.Execute(r.Context(), usecase.ListLeadsInput{
		UserID: p.ID,
		Filter: q.Get("filter"),
		JobID:  q.Get("job_id"),
		Search: q.Get("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
