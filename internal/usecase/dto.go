package usecase

import (
	"encoding/json"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

type CreateJobInput struct {
	UserID   string `json:"-"`
	Platform string `json:"platform"`
	City     string `json:"city"`
	Category string `json:"category"`
}

type UpdateJobStatusInput struct {
	UserID     string `json:"-"`
	JobID      string `json:"job_id"`
	Status     string `json:"status"`
	LeadsFound *int   `json:"leads_found,omitempty"`
}

type JobOutput struct {
	Job *entity.Job `json:"job"`
}

type JobsOutput struct {
	Jobs []*entity.Job `json:"jobs"`
}

// Leads fica cru: cada item é validado e guardado como veio.
type IngestLeadsInput struct {
	UserID string          `json:"-"`
	JobID  string          `json:"job_id"`
	Leads  json.RawMessage `json:"leads"`
}

type IngestLeadsOutput struct {
	Inserted int    `json:"inserted"`
	Message  string `json:"message"`
	HotLeads int    `json:"-"`
}

type VerifyUser struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Plan       entity.Plan `json:"plan"`
	LeadsCount int         `json:"leads_count"`
	JobsCount  int         `json:"jobs_count"`
}

type VerifyOutput struct {
	Valid bool       `json:"valid"`
	User  VerifyUser `json:"user"`
}

type ListLeadsInput struct {
	UserID string
	Filter string
	JobID  string
	Search string
	Limit  int
	Offset int
}

type LeadsOutput struct {
	Leads []*entity.Lead `json:"leads"`
}

type DashboardStatsOutput struct {
	TotalLeads int           `json:"total_leads"`
	HotLeads   int           `json:"hot_leads"`
	JobsRun    int           `json:"jobs_run"`
	Plan       entity.Plan   `json:"plan"`
	RecentJobs []*entity.Job `json:"recent_jobs"`
}
