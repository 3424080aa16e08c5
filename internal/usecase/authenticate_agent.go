package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

const (
	msgMissingAuthHeader = "Missing or invalid Authorization header"
	msgInvalidAPIKey     = "Invalid API key"
)

type AuthenticateAgentUseCase struct {
	ProfileRepo entity.ProfileRepositoryInterface
}

func NewAuthenticateAgentUseCase(profileRepo entity.ProfileRepositoryInterface) *AuthenticateAgentUseCase {
	return &AuthenticateAgentUseCase{ProfileRepo: profileRepo}
}

// Execute recebe o header Authorization inteiro e devolve o tenant dono da chave.
func (uc *AuthenticateAgentUseCase) Execute(ctx context.Context, authorization string) (*entity.Profile, error) {
	apiKey, ok := strings.CutPrefix(authorization, "Bearer ")
	apiKey = strings.TrimSpace(apiKey)
	if !ok || apiKey == "" {
		return nil, ErrUnauthenticated(msgMissingAuthHeader)
	}

	profile, err := uc.ProfileRepo.FindByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, entity.ErrProfileNotFound) {
			return nil, ErrUnauthenticated(msgInvalidAPIKey)
		}
		return nil, ErrPersistence("failed to look up api key", err)
	}

	return profile, nil
}

func VerifyOutputFromProfile(p *entity.Profile) VerifyOutput {
	return VerifyOutput{
		Valid: true,
		User: VerifyUser{
			ID:         p.ID,
			Name:       p.FullName,
			Plan:       p.Plan,
			LeadsCount: p.LeadsCount,
			JobsCount:  p.JobsCount,
		},
	}
}
