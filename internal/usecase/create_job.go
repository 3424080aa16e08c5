package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

type CreateJobUseCase struct {
	JobRepo   entity.JobRepositoryInterface
	Publisher entity.EventPublisher
}

func NewCreateJobUseCase(jobRepo entity.JobRepositoryInterface, publisher entity.EventPublisher) *CreateJobUseCase {
	return &CreateJobUseCase{JobRepo: jobRepo, Publisher: publisher}
}

func (uc *CreateJobUseCase) Execute(ctx context.Context, input CreateJobInput) (*JobOutput, error) {
	if errs := ValidateCreateJobInput(input); len(errs) > 0 {
		return nil, ErrValidation(errs)
	}

	platform, _ := entity.ParsePlatform(input.Platform)
	job, err := entity.NewJob(input.UserID, platform, input.City, input.Category)
	if err != nil {
		return nil, ErrValidation([]ValidationError{{"job", err.Error()}})
	}

	if err := uc.JobRepo.Create(ctx, job); err != nil {
		return nil, ErrPersistence("failed to create job", err)
	}

	log.Printf("🆕 Job %s criado: %s em %s (%s)", job.ID, job.Category, job.City, job.Platform)
	publishBestEffort(ctx, uc.Publisher, entity.NewJobEvent(entity.EventJobCreated, job))

	return &JobOutput{Job: job}, nil
}
