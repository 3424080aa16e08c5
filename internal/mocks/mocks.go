// Package mocks reúne os dublês testify usados pelos testes de usecase, handlers e workers.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) FindByAPIKey(ctx context.Context, apiKey string) (*entity.Profile, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *ProfileRepository) FindByID(ctx context.Context, id string) (*entity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

type JobRepository struct {
	mock.Mock
}

func (m *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *JobRepository) FindByID(ctx context.Context, userID, id string) (*entity.Job, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Job), args.Error(1)
}

func (m *JobRepository) ListByStatus(ctx context.Context, userID string, statuses []entity.JobStatus) ([]*entity.Job, error) {
	args := m.Called(ctx, userID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Job), args.Error(1)
}

func (m *JobRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Job, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Job), args.Error(1)
}

func (m *JobRepository) UpdateStatus(ctx context.Context, update entity.JobStatusUpdate) (*entity.Job, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Job), args.Error(1)
}

func (m *JobRepository) FailStale(ctx context.Context, idleFor time.Duration) ([]*entity.Job, error) {
	args := m.Called(ctx, idleFor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Job), args.Error(1)
}

type LeadRepository struct {
	mock.Mock
}

func (m *LeadRepository) InsertBatch(ctx context.Context, userID, jobID string, leads []*entity.Lead) (int, error) {
	args := m.Called(ctx, userID, jobID, leads)
	return args.Int(0), args.Error(1)
}

func (m *LeadRepository) List(ctx context.Context, q entity.LeadQuery) ([]*entity.Lead, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *LeadRepository) Count(ctx context.Context, userID string, filter entity.LeadFilter) (int, error) {
	args := m.Called(ctx, userID, filter)
	return args.Int(0), args.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishJobEvent(ctx context.Context, evt entity.JobEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type JobNotifier struct {
	mock.Mock
}

func (m *JobNotifier) SendJobFinished(to, name string, evt entity.JobEvent) error {
	args := m.Called(to, name, evt)
	return args.Error(0)
}
