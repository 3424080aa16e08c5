package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

// Postgres aceita no máximo 65535 parâmetros por comando.
const leadInsertChunk = 500

var leadInsertColumns = []string{
	"id", "user_id", "job_id", "business_name", "phone", "email", "address", "city",
	"website", "category", "platform", "rating", "reviews", "has_website", "is_hot",
	"is_high_value", "raw_data", "created_at",
}

const leadColumns = `id, user_id, job_id, business_name, phone, email, address, city, website, category,
	platform, rating, reviews, has_website, is_hot, is_high_value, raw_data, created_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// InsertBatch grava o lote inteiro ou nada: contador do job, linhas e contador do profile
// andam juntos na mesma transação.
func (r *LeadRepository) InsertBatch(ctx context.Context, userID, jobID string, leads []*entity.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}
	n := len(leads)

	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE jobs SET leads_found = leads_found + $3, updated_at = NOW()
			WHERE id = $1 AND user_id = $2`, jobID, userID, n)
		if err != nil {
			if isInvalidUUID(err) {
				return entity.ErrJobNotFound
			}
			return fmt.Errorf("falha ao incrementar leads_found: %w", err)
		}
		if affected, err := res.RowsAffected(); err != nil {
			return err
		} else if affected == 0 {
			return entity.ErrJobNotFound
		}

		for start := 0; start < n; start += leadInsertChunk {
			end := min(start+leadInsertChunk, n)
			if err := insertLeadChunk(ctx, tx, leads[start:end]); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE profiles SET leads_count = leads_count + $2 WHERE id = $1`, userID, n); err != nil {
			return fmt.Errorf("falha ao incrementar leads_count: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return n, nil
}

func insertLeadChunk(ctx context.Context, tx *sql.Tx, leads []*entity.Lead) error {
	cols := len(leadInsertColumns)
	placeholders := make([]string, 0, len(leads))
	args := make([]any, 0, len(leads)*cols)

	for i, l := range leads {
		ph := make([]string, cols)
		for c := range cols {
			ph[c] = fmt.Sprintf("$%d", i*cols+c+1)
		}
		placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")

		args = append(args,
			l.ID, l.UserID, l.JobID, l.BusinessName,
			l.Phone, l.Email, l.Address, l.City, l.Website, l.Category, l.Platform,
			l.Rating, l.Reviews, l.HasWebsite, l.IsHot, l.IsHighValue,
			rawJSON(l.RawData), l.CreatedAt,
		)
	}

	query := fmt.Sprintf("INSERT INTO leads (%s) VALUES %s",
		strings.Join(leadInsertColumns, ", "), strings.Join(placeholders, ", "))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("falha ao inserir leads: %w", err)
	}
	return nil
}

func rawJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// filterClause traduz o filtro do dashboard para o predicado SQL correspondente.
func filterClause(f entity.LeadFilter) string {
	switch f {
	case entity.LeadFilterHot:
		return " AND is_hot"
	case entity.LeadFilterWebsite:
		return " AND has_website"
	case entity.LeadFilterHighValue:
		return " AND is_high_value"
	}
	return ""
}

func (r *LeadRepository) List(ctx context.Context, q entity.LeadQuery) ([]*entity.Lead, error) {
	var sb strings.Builder
	args := []any{q.UserID}

	sb.WriteString(`SELECT ` + leadColumns + ` FROM leads WHERE user_id = $1`)
	sb.WriteString(filterClause(q.Filter))

	if q.JobID != "" {
		args = append(args, q.JobID)
		fmt.Fprintf(&sb, " AND job_id = $%d", len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		n := len(args)
		fmt.Fprintf(&sb, " AND (business_name ILIKE $%d OR city ILIKE $%d OR category ILIKE $%d)", n, n, n)
	}

	args = append(args, q.Limit, q.Offset)
	fmt.Fprintf(&sb, " ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		if isInvalidUUID(err) {
			return []*entity.Lead{}, nil
		}
		return nil, fmt.Errorf("falha ao listar leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Count(ctx context.Context, userID string, filter entity.LeadFilter) (int, error) {
	query := `SELECT COUNT(*) FROM leads WHERE user_id = $1` + filterClause(filter)

	var n int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("falha ao contar leads: %w", err)
	}
	return n, nil
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l                                                        entity.Lead
		phone, email, address, city, website, category, platform sql.NullString
		rating                                                   sql.NullFloat64
		raw                                                      []byte
	)
	err := row.Scan(
		&l.ID, &l.UserID, &l.JobID, &l.BusinessName,
		&phone, &email, &address, &city, &website, &category, &platform,
		&rating, &l.Reviews, &l.HasWebsite, &l.IsHot, &l.IsHighValue,
		&raw, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Phone = nullString(phone)
	l.Email = nullString(email)
	l.Address = nullString(address)
	l.City = nullString(city)
	l.Website = nullString(website)
	l.Category = nullString(category)
	l.Platform = nullString(platform)
	if rating.Valid {
		v := rating.Float64
		l.Rating = &v
	}
	if len(raw) > 0 {
		l.RawData = json.RawMessage(raw)
	}
	return &l, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
