package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

// publishBestEffort nunca falha a requisição: o dado já está no banco.
func publishBestEffort(ctx context.Context, publisher entity.EventPublisher, evt entity.JobEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishJobEvent(ctx, evt); err != nil {
		log.Printf("⚠️ Evento %s do job %s não publicado: %v", evt.Type, evt.JobID, err)
	}
}
