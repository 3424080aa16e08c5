package entity

import (
	"context"
	"errors"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Profile é o tenant: dono dos jobs e leads, autenticado pela api_key.
type Profile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email,omitempty"`
	FullName   string    `json:"full_name"`
	APIKey     string    `json:"-"`
	Plan       Plan      `json:"plan"`
	LeadsCount int       `json:"leads_count"`
	JobsCount  int       `json:"jobs_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type ProfileRepositoryInterface interface {
	FindByAPIKey(ctx context.Context, apiKey string) (*Profile, error)
	FindByID(ctx context.Context, id string) (*Profile, error)
}
