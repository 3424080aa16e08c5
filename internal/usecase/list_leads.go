package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

const (
	defaultLeadsLimit = 100
	maxLeadsLimit     = 1000
)

type ListLeadsUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
}

func NewListLeadsUseCase(leadRepo entity.LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{LeadRepo: leadRepo}
}

func (uc *ListLeadsUseCase) Execute(ctx context.Context, input ListLeadsInput) (*LeadsOutput, error) {
	filter, ok := entity.ParseLeadFilter(input.Filter)
	if !ok {
		return nil, ErrValidation([]ValidationError{{"filter", "must be one of all, hot, website, high_value"}})
	}
	if input.Offset < 0 {
		return nil, ErrValidation([]ValidationError{{"offset", "must not be negative"}})
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLeadsLimit
	}
	if limit > maxLeadsLimit {
		limit = maxLeadsLimit
	}

	leads, err := uc.LeadRepo.List(ctx, entity.LeadQuery{
		UserID: input.UserID,
		Filter: filter,
		JobID:  strings.TrimSpace(input.JobID),
		Search: strings.TrimSpace(input.Search),
		Limit:  limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, ErrPersistence("failed to list leads", err)
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}

	return &LeadsOutput{Leads: leads}, nil
}
