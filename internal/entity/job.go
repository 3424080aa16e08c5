package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrInvalidTransition = errors.New("invalid job status transition")
	ErrUnknownPlatform   = errors.New("unknown platform")
	ErrUnknownStatus     = errors.New("unknown job status")
)

type Platform string

const (
	PlatformGoogleMaps Platform = "google_maps"
	PlatformJustdial   Platform = "justdial"
	PlatformIndiamart  Platform = "indiamart"
)

func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.TrimSpace(s)); p {
	case PlatformGoogleMaps, PlatformJustdial, PlatformIndiamart:
		return p, nil
	}
	return "", ErrUnknownPlatform
}

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobStopped   JobStatus = "stopped"
)

// Terminal states não aparecem como chave: não há saída deles.
var jobTransitions = map[JobStatus][]JobStatus{
	JobPending: {JobRunning, JobStopped, JobFailed},
	JobRunning: {JobRunning, JobCompleted, JobFailed, JobStopped},
}

func ParseJobStatus(s string) (JobStatus, error) {
	switch st := JobStatus(strings.TrimSpace(s)); st {
	case JobPending, JobRunning, JobCompleted, JobFailed, JobStopped:
		return st, nil
	}
	return "", ErrUnknownStatus
}

func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobStopped
}

func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Predecessors lista os status a partir dos quais é permitido chegar em s.
// O repositório usa a lista como predicado do UPDATE condicional.
func (s JobStatus) Predecessors() []JobStatus {
	var out []JobStatus
	for _, from := range []JobStatus{JobPending, JobRunning} {
		if from.CanTransitionTo(s) {
			out = append(out, from)
		}
	}
	return out
}

// ActiveJobStatuses são os status que o agente ainda pode trabalhar.
var ActiveJobStatuses = []JobStatus{JobPending, JobRunning}

type Job struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Platform    Platform   `json:"platform"`
	City        string     `json:"city"`
	Category    string     `json:"category"`
	Status      JobStatus  `json:"status"`
	LeadsFound  int        `json:"leads_found"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// NewJob cria um job pendente com contador zerado.
func NewJob(userID string, platform Platform, city, category string) (*Job, error) {
	job := &Job{
		ID:        uuid.New().String(),
		UserID:    userID,
		Platform:  platform,
		City:      strings.TrimSpace(city),
		Category:  strings.TrimSpace(category),
		Status:    JobPending,
		CreatedAt: time.Now().UTC(),
	}
	job.UpdatedAt = job.CreatedAt

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func (j *Job) Validate() error {
	if j.UserID == "" {
		return errors.New("user_id is required")
	}
	if _, err := ParsePlatform(string(j.Platform)); err != nil {
		return err
	}
	if j.City == "" {
		return errors.New("city is required")
	}
	if j.Category == "" {
		return errors.New("category is required")
	}
	return nil
}

// JobStatusUpdate descreve um UPDATE condicional escopado ao tenant.
type JobStatusUpdate struct {
	JobID      string
	UserID     string
	Status     JobStatus
	LeadsFound *int
	At         time.Time
}

// CompletedAt devolve o carimbo a gravar, nil quando o status não é terminal.
func (u JobStatusUpdate) CompletedAt() *time.Time {
	if !u.Status.IsTerminal() {
		return nil
	}
	at := u.At
	return &at
}

type JobRepositoryInterface interface {
	Create(ctx context.Context, job *Job) error
	FindByID(ctx context.Context, userID, id string) (*Job, error)
	ListByStatus(ctx context.Context, userID string, statuses []JobStatus) ([]*Job, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*Job, error)
	UpdateStatus(ctx context.Context, update JobStatusUpdate) (*Job, error)
	FailStale(ctx context.Context, idleFor time.Duration) ([]*Job, error)
}
