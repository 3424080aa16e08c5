package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

// StaleJobWorker fecha como failed os jobs running cujo agente parou de reportar.
type StaleJobWorker struct {
	jobRepo      entity.JobRepositoryInterface
	publisher    entity.EventPublisher
	idleFor      time.Duration
	tickInterval time.Duration
}

func NewStaleJobWorker(jobRepo entity.JobRepositoryInterface, publisher entity.EventPublisher, idleFor, tickInterval time.Duration) *StaleJobWorker {
	return &StaleJobWorker{
		jobRepo:      jobRepo,
		publisher:    publisher,
		idleFor:      idleFor,
		tickInterval: tickInterval,
	}
}

func (w *StaleJobWorker) Start(ctx context.Context) {
	log.Printf("🕒 Stale Job Worker iniciado (janela %s, ciclo %s)", w.idleFor, w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.failStaleJobs(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Stale Job Worker encerrado")
			return
		case <-ticker.C:
			w.failStaleJobs(ctx)
		}
	}
}

func (w *StaleJobWorker) failStaleJobs(ctx context.Context) int {
	jobs, err := w.jobRepo.FailStale(ctx, w.idleFor)
	if err != nil {
		log.Printf("❌ Erro ao expirar jobs parados: %v", err)
		return 0
	}

	for _, job := range jobs {
		log.Printf("⏱️ Job parado marcado como failed: job=%s user=%s leads=%d", job.ID, job.UserID, job.LeadsFound)
		if w.publisher == nil {
			continue
		}
		if err := w.publisher.PublishJobEvent(ctx, entity.NewJobEvent(entity.EventJobStatusChanged, job)); err != nil {
			log.Printf("⚠️ Falha ao publicar expiração do job %s: %v", job.ID, err)
		}
	}

	if len(jobs) > 0 {
		log.Printf("✅ %d job(s) marcados como failed", len(jobs))
	}
	return len(jobs)
}
