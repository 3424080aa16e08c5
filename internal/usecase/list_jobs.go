package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

const (
	defaultJobsLimit = 50
	maxJobsLimit     = 500
)

type ListJobsUseCase struct {
	JobRepo entity.JobRepositoryInterface
}

func NewListJobsUseCase(jobRepo entity.JobRepositoryInterface) *ListJobsUseCase {
	return &ListJobsUseCase{JobRepo: jobRepo}
}

// Active devolve o que o agente ainda tem a fazer, do mais antigo para o mais novo.
func (uc *ListJobsUseCase) Active(ctx context.Context, userID string) (*JobsOutput, error) {
	jobs, err := uc.JobRepo.ListByStatus(ctx, userID, entity.ActiveJobStatuses)
	if err != nil {
		return nil, ErrPersistence("failed to list jobs", err)
	}
	if jobs == nil {
		jobs = []*entity.Job{}
	}
	return &JobsOutput{Jobs: jobs}, nil
}

// All é a visão do dashboard: todos os jobs, mais novos primeiro.
func (uc *ListJobsUseCase) All(ctx context.Context, userID string, limit int) (*JobsOutput, error) {
	if limit <= 0 {
		limit = defaultJobsLimit
	}
	if limit > maxJobsLimit {
		limit = maxJobsLimit
	}

	jobs, err := uc.JobRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, ErrPersistence("failed to list jobs", err)
	}
	if jobs == nil {
		jobs = []*entity.Job{}
	}
	return &JobsOutput{Jobs: jobs}, nil
}

func (uc *ListJobsUseCase) Get(ctx context.Context, userID, jobID string) (*JobOutput, error) {
	job, err := uc.JobRepo.FindByID(ctx, userID, jobID)
	if err != nil {
		if errors.Is(err, entity.ErrJobNotFound) {
			return nil, ErrNotFound("Job not found")
		}
		return nil, ErrPersistence("failed to load job", err)
	}
	return &JobOutput{Job: job}, nil
}
