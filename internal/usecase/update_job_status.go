package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

type UpdateJobStatusUseCase struct {
	JobRepo   entity.JobRepositoryInterface
	Publisher entity.EventPublisher
	Now       func() time.Time
}

func NewUpdateJobStatusUseCase(jobRepo entity.JobRepositoryInterface, publisher entity.EventPublisher) *UpdateJobStatusUseCase {
	return &UpdateJobStatusUseCase{
		JobRepo:   jobRepo,
		Publisher: publisher,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Execute aplica a transição. A posse do job é garantida pelo predicado do UPDATE
// (id + user_id), nunca por uma checagem prévia aqui.
func (uc *UpdateJobStatusUseCase) Execute(ctx context.Context, input UpdateJobStatusInput) (*JobOutput, error) {
	if errs := ValidateUpdateJobInput(input); len(errs) > 0 {
		return nil, ErrValidation(errs)
	}

	status, _ := entity.ParseJobStatus(input.Status)
	job, err := uc.JobRepo.UpdateStatus(ctx, entity.JobStatusUpdate{
		JobID:      input.JobID,
		UserID:     input.UserID,
		Status:     status,
		LeadsFound: input.LeadsFound,
		At:         uc.Now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrJobNotFound):
			return nil, ErrNotFound("Job not found")
		case errors.Is(err, entity.ErrInvalidTransition):
			return nil, ErrInvalidTransition(err.Error())
		}
		return nil, ErrPersistence("failed to update job", err)
	}

	if job.Status.IsTerminal() {
		log.Printf("🏁 Job %s finalizado como %s com %d leads", job.ID, job.Status, job.LeadsFound)
	}
	publishBestEffort(ctx, uc.Publisher, entity.NewJobEvent(entity.EventJobStatusChanged, job))

	return &JobOutput{Job: job}, nil
}

// Stop é o cancelamento pelo dashboard.
func (uc *UpdateJobStatusUseCase) Stop(ctx context.Context, userID, jobID string) (*JobOutput, error) {
	return uc.Execute(ctx, UpdateJobStatusInput{
		UserID: userID,
		JobID:  jobID,
		Status: string(entity.JobStopped),
	})
}
