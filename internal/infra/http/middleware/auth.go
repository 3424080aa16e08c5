package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/leadgen-api/internal/entity"
	"github.com/xavierca1/leadgen-api/internal/usecase"
)

type contextKey string

const ProfileContextKey = contextKey("agent_profile")

// Authenticator resolve o header Authorization num Profile.
type Authenticator interface {
	Execute(ctx context.Context, authorizationHeader string) (*entity.Profile, error)
}

// AgentAuth exige "Bearer <api_key>" e guarda o Profile no contexto da requisição.
func AgentAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := auth.Execute(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				var de *usecase.DomainError
				if errors.As(err, &de) {
					RecordAuthFailure()
					writeError(w, http.StatusUnauthorized, de.Message)
					return
				}
				log.Printf("❌ Falha ao autenticar agente: %v", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), ProfileContextKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ProfileFromContext(ctx context.Context) (*entity.Profile, bool) {
	p, ok := ctx.Value(ProfileContextKey).(*entity.Profile)
	return p, ok && p != nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
