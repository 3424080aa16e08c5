package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadgen-api/internal/entity"
	"github.com/xavierca1/leadgen-api/internal/mocks"
)

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

type fakeAck struct {
	acked, nacked, requeue bool
}

func (a *fakeAck) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}
func (a *fakeAck) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func delivery(t *testing.T, ack *fakeAck, evt any) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(evt)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestProducerPublishesPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	evt := entity.JobEvent{Type: entity.EventJobCreated, UserID: "user-1", JobID: "j1", At: time.Now()}

	require.NoError(t, (&RabbitMQProducer{Ch: ch}).PublishJobEvent(context.Background(), evt))

	assert.Equal(t, ExchangeName, ch.exchange)
	assert.Equal(t, RoutingKey, ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, entity.EventJobCreated, ch.msg.Type)

	var got entity.JobEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, "j1", got.JobID)
}

func TestProducerWrapsBrokerError(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}
	err := (&RabbitMQProducer{Ch: ch}).PublishJobEvent(context.Background(), entity.JobEvent{})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestWorkerNotifiesOnTerminalStatus(t *testing.T) {
	profiles := new(mocks.ProfileRepository)
	notifier := new(mocks.JobNotifier)
	evt := entity.JobEvent{Type: entity.EventJobStatusChanged, UserID: "user-1", JobID: "j1", Status: entity.JobCompleted, LeadsFound: 40}

	profiles.On("FindByID", mock.Anything, "user-1").Return(&entity.Profile{ID: "user-1", Email: "a@b.com", FullName: "Asha"}, nil)
	notifier.On("SendJobFinished", "a@b.com", "Asha", mock.MatchedBy(func(e entity.JobEvent) bool {
		return e.JobID == "j1" && e.LeadsFound == 40
	})).Return(nil)

	ack := &fakeAck{}
	(&Worker{ProfileRepo: profiles, Notifier: notifier}).handleDelivery(context.Background(), delivery(t, ack, evt))

	assert.True(t, ack.acked)
	notifier.AssertExpectations(t)
}

func TestWorkerIgnoresNonTerminalEvents(t *testing.T) {
	profiles := new(mocks.ProfileRepository)
	notifier := new(mocks.JobNotifier)

	for _, evt := range []entity.JobEvent{
		{Type: entity.EventJobCreated, UserID: "user-1", JobID: "j1", Status: entity.JobPending},
		{Type: entity.EventJobStatusChanged, UserID: "user-1", JobID: "j1", Status: entity.JobRunning},
		{Type: entity.EventLeadsIngested, UserID: "user-1", JobID: "j1", Inserted: 3},
	} {
		ack := &fakeAck{}
		(&Worker{ProfileRepo: profiles, Notifier: notifier}).handleDelivery(context.Background(), delivery(t, ack, evt))
		assert.True(t, ack.acked)
	}
	profiles.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestWorkerRejectsMalformedMessage(t *testing.T) {
	ack := &fakeAck{}
	(&Worker{}).handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestWorkerDeadLettersNotificationFailure(t *testing.T) {
	profiles := new(mocks.ProfileRepository)
	notifier := new(mocks.JobNotifier)
	profiles.On("FindByID", mock.Anything, "user-1").Return(&entity.Profile{ID: "user-1", Email: "a@b.com"}, nil)
	notifier.On("SendJobFinished", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	ack := &fakeAck{}
	evt := entity.JobEvent{Type: entity.EventJobStatusChanged, UserID: "user-1", JobID: "j1", Status: entity.JobFailed}
	(&Worker{ProfileRepo: profiles, Notifier: notifier}).handleDelivery(context.Background(), delivery(t, ack, evt))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestWorkerSkipsMissingProfile(t *testing.T) {
	profiles := new(mocks.ProfileRepository)
	profiles.On("FindByID", mock.Anything, "user-9").Return(nil, entity.ErrProfileNotFound)

	err := (&Worker{ProfileRepo: profiles}).processMessage(context.Background(),
		[]byte(`{"type":"job.status_changed","user_id":"user-9","job_id":"j1","status":"stopped"}`))
	assert.NoError(t, err)
}
