package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/xavierca1/leadgen-api/internal/entity"
	"github.com/xavierca1/leadgen-api/internal/infra/http/middleware"
	"github.com/xavierca1/leadgen-api/internal/usecase"
)

const maxBodyBytes = 10 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ Falha ao escrever resposta: %v", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError traduz os erros do usecase para status HTTP. Detalhe técnico só vai pro log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeErrorMessage(w, domainStatus(de.Code), de.Message)
		return
	}

	log.Printf("❌ %s %s: %v", r.Method, r.URL.Path, err)
	writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeUnauthenticated:
		return http.StatusUnauthorized
	case usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeInvalidTransition:
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorMessage(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeErrorMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// profile devolve o tenant autenticado. Sem ele a rota foi montada sem AgentAuth.
func profile(w http.ResponseWriter, r *http.Request) (*entity.Profile, bool) {
	p, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return nil, false
	}
	return p, true
}

func queryInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, key+": must be an integer")
		return 0, false
	}
	return n, true
}
