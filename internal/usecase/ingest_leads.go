package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

type IngestLeadsUseCase struct {
	LeadRepo  entity.LeadRepositoryInterface
	Publisher entity.EventPublisher
}

func NewIngestLeadsUseCase(leadRepo entity.LeadRepositoryInterface, publisher entity.EventPublisher) *IngestLeadsUseCase {
	return &IngestLeadsUseCase{LeadRepo: leadRepo, Publisher: publisher}
}

func (uc *IngestLeadsUseCase) Execute(ctx context.Context, input IngestLeadsInput) (*IngestLeadsOutput, error) {
	items, errs := ValidateIngestLeadsInput(input)
	if len(errs) > 0 {
		return nil, ErrValidation(errs)
	}

	leads, hot, errs := normalizeBatch(input.UserID, input.JobID, items)
	if len(errs) > 0 {
		return nil, ErrValidation(errs)
	}

	inserted, err := uc.LeadRepo.InsertBatch(ctx, input.UserID, input.JobID, leads)
	if err != nil {
		if errors.Is(err, entity.ErrJobNotFound) {
			return nil, ErrNotFound("Job not found")
		}
		return nil, ErrPersistence("failed to insert leads", err)
	}

	log.Printf("📥 %d leads gravados no job %s (%d hot)", inserted, input.JobID, hot)
	publishBestEffort(ctx, uc.Publisher, entity.JobEvent{
		Type:     entity.EventLeadsIngested,
		UserID:   input.UserID,
		JobID:    input.JobID,
		Inserted: inserted,
		HotLeads: hot,
		At:       time.Now().UTC(),
	})

	return &IngestLeadsOutput{
		Inserted: inserted,
		Message:  fmt.Sprintf("%d leads uploaded successfully", inserted),
		HotLeads: hot,
	}, nil
}

func normalizeBatch(userID, jobID string, items []json.RawMessage) ([]*entity.Lead, int, []ValidationError) {
	var errs []ValidationError
	leads := make([]*entity.Lead, 0, len(items))
	hot := 0

	for i, raw := range items {
		lead, err := entity.NewLeadFromRaw(userID, jobID, raw)
		if err != nil {
			errs = append(errs, ValidationError{fmt.Sprintf("leads[%d]", i), "must be an object"})
			continue
		}
		if lead.IsHot {
			hot++
		}
		leads = append(leads, lead)
	}

	return leads, hot, errs
}
