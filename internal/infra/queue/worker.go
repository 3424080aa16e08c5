package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

var errMalformedEvent = errors.New("evento malformado")

// JobNotifier avisa o dono do job que ele terminou.
type JobNotifier interface {
	SendJobFinished(to, name string, evt entity.JobEvent) error
}

// Worker consome q.job-events e manda o resumo por email quando o job termina.
type Worker struct {
	Channel     *amqp.Channel
	ProfileRepo entity.ProfileRepositoryInterface
	Notifier    JobNotifier
}

func NewWorker(ch *amqp.Channel, profileRepo entity.ProfileRepositoryInterface, notifier JobNotifier) *Worker {
	return &Worker{
		Channel:     ch,
		ProfileRepo: profileRepo,
		Notifier:    notifier,
	}
}

// Start bloqueia até ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("canal do RabbitMQ fechado")
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	err := w.processMessage(ctx, d.Body)
	switch {
	case errors.Is(err, errMalformedEvent):
		log.Printf("❌ [WORKER] JSON Inválido: %s", err)
		// Mensagem podre. Rejeita sem requeue para não travar a fila.
		d.Nack(false, false)
	case err != nil:
		log.Printf("❌ [WORKER] Falha ao notificar: %s", err)
		d.Nack(false, false)
	default:
		d.Ack(false)
	}
}

func (w *Worker) processMessage(ctx context.Context, body []byte) error {
	var evt entity.JobEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("%w: %v", errMalformedEvent, err)
	}
	if evt.UserID == "" || evt.JobID == "" {
		return fmt.Errorf("%w: user_id e job_id são obrigatórios", errMalformedEvent)
	}

	if evt.Type != entity.EventJobStatusChanged || !evt.Status.IsTerminal() {
		return nil
	}

	profile, err := w.ProfileRepo.FindByID(ctx, evt.UserID)
	if errors.Is(err, entity.ErrProfileNotFound) {
		log.Printf("⚠️ [WORKER] Profile %s sumiu, ignorando job %s", evt.UserID, evt.JobID)
		return nil
	}
	if err != nil {
		return err
	}
	if profile.Email == "" {
		return nil
	}

	log.Printf("📧 [WORKER] Job %s terminou (%s), avisando %s", evt.JobID, evt.Status, profile.Email)
	return w.Notifier.SendJobFinished(profile.Email, profile.FullName, evt)
}
