package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

const jobColumns = `id, user_id, platform, city, category, status, leads_found, created_at, updated_at, completed_at`

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*entity.Job, error) {
	var (
		j           entity.Job
		completedAt sql.NullTime
	)
	err := row.Scan(
		&j.ID,
		&j.UserID,
		&j.Platform,
		&j.City,
		&j.Category,
		&j.Status,
		&j.LeadsFound,
		&j.CreatedAt,
		&j.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		at := completedAt.Time
		j.CompletedAt = &at
	}
	return &j, nil
}

func scanJobs(rows *sql.Rows) ([]*entity.Job, error) {
	defer rows.Close()

	jobs := []*entity.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func statusArray(statuses []entity.JobStatus) any {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return pq.Array(out)
}

// Create grava o job e incrementa profiles.jobs_count na mesma transação.
func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO jobs (id, user_id, platform, city, category, status, leads_found, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			job.ID,
			job.UserID,
			job.Platform,
			job.City,
			job.Category,
			job.Status,
			job.LeadsFound,
			job.CreatedAt,
			job.UpdatedAt,
		)
		if err != nil {
			if pgCode(err) == pgForeignKeyViolation {
				return entity.ErrProfileNotFound
			}
			return fmt.Errorf("falha ao criar job: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE profiles SET jobs_count = jobs_count + 1 WHERE id = $1`, job.UserID); err != nil {
			return fmt.Errorf("falha ao incrementar jobs_count: %w", err)
		}
		return nil
	})
}

func (r *JobRepository) FindByID(ctx context.Context, userID, id string) (*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 AND user_id = $2`

	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, entity.ErrJobNotFound
		}
		return nil, fmt.Errorf("falha ao buscar job: %w", err)
	}
	return job, nil
}

// ListByStatus devolve os jobs do tenant nos status pedidos, mais antigos primeiro.
func (r *JobRepository) ListByStatus(ctx context.Context, userID string, statuses []entity.JobStatus) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs
		WHERE user_id = $1 AND status = ANY($2::text[])
		ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID, statusArray(statuses))
	if err != nil {
		return nil, fmt.Errorf("falha ao listar jobs: %w", err)
	}
	return scanJobs(rows)
}

func (r *JobRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar jobs: %w", err)
	}
	return scanJobs(rows)
}

// UpdateStatus aplica a transição num único UPDATE condicional: o predicado de status
// só aceita os predecessores permitidos, então duas chamadas concorrentes não furam a tabela.
// Sem linha afetada, uma leitura separa "não existe" de "transição inválida".
func (r *JobRepository) UpdateStatus(ctx context.Context, u entity.JobStatusUpdate) (*entity.Job, error) {
	query := `
		UPDATE jobs SET
			status       = $3,
			leads_found  = COALESCE($4::int, leads_found),
			completed_at = COALESCE($5::timestamptz, completed_at),
			updated_at   = $6
		WHERE id = $1 AND user_id = $2 AND status = ANY($7::text[])
		RETURNING ` + jobColumns

	var leadsFound sql.NullInt64
	if u.LeadsFound != nil {
		leadsFound = sql.NullInt64{Int64: int64(*u.LeadsFound), Valid: true}
	}
	var completedAt sql.NullTime
	if at := u.CompletedAt(); at != nil {
		completedAt = sql.NullTime{Time: *at, Valid: true}
	}

	job, err := scanJob(r.DB.QueryRowContext(ctx, query,
		u.JobID,
		u.UserID,
		u.Status,
		leadsFound,
		completedAt,
		u.At,
		statusArray(u.Status.Predecessors()),
	))
	if err == nil {
		return job, nil
	}
	if isInvalidUUID(err) {
		return nil, entity.ErrJobNotFound
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("falha ao atualizar job: %w", err)
	}

	var current entity.JobStatus
	err = r.DB.QueryRowContext(ctx,
		`SELECT status FROM jobs WHERE id = $1 AND user_id = $2`, u.JobID, u.UserID,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao ler status do job: %w", err)
	}

	return nil, fmt.Errorf("%w: job is %s, cannot move to %s", entity.ErrInvalidTransition, current, u.Status)
}

// FailStale marca como failed os jobs running sem atualização há mais de idleFor.
func (r *JobRepository) FailStale(ctx context.Context, idleFor time.Duration) ([]*entity.Job, error) {
	query := `
		UPDATE jobs SET
			status       = 'failed',
			completed_at = NOW(),
			updated_at   = NOW()
		WHERE status = 'running' AND updated_at < $1
		RETURNING ` + jobColumns

	rows, err := r.DB.QueryContext(ctx, query, time.Now().UTC().Add(-idleFor))
	if err != nil {
		return nil, fmt.Errorf("falha ao expirar jobs: %w", err)
	}
	return scanJobs(rows)
}
