package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

const profileColumns = `id, COALESCE(email, ''), COALESCE(full_name, ''), api_key, plan, leads_count, jobs_count, created_at`

type ProfileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) FindByAPIKey(ctx context.Context, apiKey string) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE api_key = $1`
	return r.findOne(ctx, query, apiKey)
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *ProfileRepository) findOne(ctx context.Context, query string, arg string) (*entity.Profile, error) {
	var p entity.Profile
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&p.ID,
		&p.Email,
		&p.FullName,
		&p.APIKey,
		&p.Plan,
		&p.LeadsCount,
		&p.JobsCount,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, entity.ErrProfileNotFound
		}
		return nil, fmt.Errorf("falha ao buscar profile: %w", err)
	}
	return &p, nil
}
