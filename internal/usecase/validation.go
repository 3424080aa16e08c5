package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateCreateJobInput(input CreateJobInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Platform) == "" {
		errors = append(errors, ValidationError{"platform", "is required"})
	} else if _, err := entity.ParsePlatform(input.Platform); err != nil {
		errors = append(errors, ValidationError{"platform", "must be one of google_maps, justdial, indiamart"})
	}
	if strings.TrimSpace(input.City) == "" {
		errors = append(errors, ValidationError{"city", "is required"})
	}
	if strings.TrimSpace(input.Category) == "" {
		errors = append(errors, ValidationError{"category", "is required"})
	}

	return errors
}

func ValidateUpdateJobInput(input UpdateJobStatusInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.JobID) == "" {
		errors = append(errors, ValidationError{"job_id", "is required"})
	}
	if strings.TrimSpace(input.Status) == "" {
		errors = append(errors, ValidationError{"status", "is required"})
	} else if _, err := entity.ParseJobStatus(input.Status); err != nil {
		errors = append(errors, ValidationError{"status", "must be one of pending, running, completed, failed, stopped"})
	}
	if input.LeadsFound != nil && *input.LeadsFound < 0 {
		errors = append(errors, ValidationError{"leads_found", "must not be negative"})
	}

	return errors
}

// ValidateIngestLeadsInput devolve os itens já decodificados para o usecase não
// precisar ler o array de novo.
func ValidateIngestLeadsInput(input IngestLeadsInput) ([]json.RawMessage, []ValidationError) {
	var errors []ValidationError

	if strings.TrimSpace(input.JobID) == "" {
		errors = append(errors, ValidationError{"job_id", "is required"})
	}

	leads := []byte(strings.TrimSpace(string(input.Leads)))
	if len(leads) == 0 || string(leads) == "null" {
		errors = append(errors, ValidationError{"leads", "is required"})
		return nil, errors
	}
	if leads[0] != '[' {
		errors = append(errors, ValidationError{"leads", "must be an array"})
		return nil, errors
	}

	var items []json.RawMessage
	if err := json.Unmarshal(leads, &items); err != nil {
		errors = append(errors, ValidationError{"leads", "must be an array"})
	} else if len(items) == 0 {
		errors = append(errors, ValidationError{"leads", "must not be empty"})
	}

	return items, errors
}
