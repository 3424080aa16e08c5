package handlers

import (
	"net/http"

	"github.com/xavierca1/leadgen-api/internal/usecase"
)

// Verify atende GET /verify. O middleware já autenticou; aqui só devolve o resumo do profile.
func Verify(w http.ResponseWriter, r *http.Request) {
	p, ok := profile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, usecase.VerifyOutputFromProfile(p))
}
