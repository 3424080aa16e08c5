package entity

import (
	"context"
	"time"
)

const (
	EventJobCreated       = "job.created"
	EventJobStatusChanged = "job.status_changed"
	EventLeadsIngested    = "leads.ingested"
)

// JobEvent é o que sai para a fila e para o feed do dashboard.
type JobEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	JobID      string    `json:"job_id"`
	Status     JobStatus `json:"status,omitempty"`
	LeadsFound int       `json:"leads_found"`
	Inserted   int       `json:"inserted,omitempty"`
	HotLeads   int       `json:"hot_leads,omitempty"`
	Platform   Platform  `json:"platform,omitempty"`
	City       string    `json:"city,omitempty"`
	Category   string    `json:"category,omitempty"`
	At         time.Time `json:"at"`
}

func NewJobEvent(eventType string, job *Job) JobEvent {
	return JobEvent{
		Type:       eventType,
		UserID:     job.UserID,
		JobID:      job.ID,
		Status:     job.Status,
		LeadsFound: job.LeadsFound,
		Platform:   job.Platform,
		City:       job.City,
		Category:   job.Category,
		At:         time.Now().UTC(),
	}
}

type EventPublisher interface {
	PublishJobEvent(ctx context.Context, evt JobEvent) error
}
