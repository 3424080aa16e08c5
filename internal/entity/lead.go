package entity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	UnknownBusinessName = "Unknown"

	HighValueMinRating  = 4.0
	HighValueMinReviews = 50
)

var ErrLeadNotObject = errors.New("lead must be a JSON object")

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

type Lead struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	JobID        string          `json:"job_id"`
	BusinessName string          `json:"business_name"`
	Phone        *string         `json:"phone"`
	Email        *string         `json:"email"`
	Address      *string         `json:"address"`
	City         *string         `json:"city"`
	Website      *string         `json:"website"`
	Category     *string         `json:"category"`
	Platform     *string         `json:"platform"`
	Rating       *float64        `json:"rating"`
	Reviews      int             `json:"reviews"`
	HasWebsite   bool            `json:"has_website"`
	IsHot        bool            `json:"is_hot"`
	IsHighValue  bool            `json:"is_high_value"`
	RawData      json.RawMessage `json:"raw_data"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewLeadFromRaw normaliza um registro cru enviado pelo agente e calcula as flags.
// O payload original é mantido byte a byte em RawData.
func NewLeadFromRaw(userID, jobID string, raw json.RawMessage) (*Lead, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, ErrLeadNotObject
	}

	lead := &Lead{
		ID:        uuid.New().String(),
		UserID:    userID,
		JobID:     jobID,
		Phone:     textField(fields, "phone"),
		Email:     textField(fields, "email"),
		Address:   textField(fields, "address"),
		City:      textField(fields, "city"),
		Website:   textField(fields, "website"),
		Category:  textField(fields, "category"),
		Platform:  textField(fields, "platform"),
		Rating:    parseRating(fields["rating"]),
		Reviews:   parseReviews(fields["reviews"]),
		RawData:   append(json.RawMessage(nil), raw...),
		CreatedAt: time.Now().UTC(),
	}

	lead.BusinessName = UnknownBusinessName
	if name := textField(fields, "business_name"); name != nil {
		lead.BusinessName = *name
	} else if name := textField(fields, "name"); name != nil {
		lead.BusinessName = *name
	}

	lead.Classify()
	return lead, nil
}

// Classify recalcula as flags derivadas. Só é chamado na ingestão.
func (l *Lead) Classify() {
	l.HasWebsite = l.Website != nil
	l.IsHot = l.Phone != nil && l.Email != nil
	l.IsHighValue = l.Rating != nil && *l.Rating >= HighValueMinRating && l.Reviews >= HighValueMinReviews
}

func textField(fields map[string]any, key string) *string {
	var s string
	switch v := fields[key].(type) {
	case string:
		s = strings.TrimSpace(v)
	case json.Number:
		s = v.String()
	case bool:
		if v {
			s = "true"
		}
	}
	if s == "" {
		return nil
	}
	return &s
}

// parseRating segue a semântica de parseFloat: aceita prefixo numérico ("4.5 stars").
// Zero, vazio ou ilegível viram nil.
func parseRating(v any) *float64 {
	var s string
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil || f == 0 {
			return nil
		}
		return &f
	case string:
		s = strings.TrimSpace(t)
	default:
		return nil
	}

	m := floatPrefix.FindString(s)
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || f == 0 {
		return nil
	}
	return &f
}

// parseReviews aceita prefixo inteiro em texto ("42", "42 reviews", "4.9" -> 4).
// Números JSON são truncados (1e2 -> 100); fora da faixa de int32 vira 0.
func parseReviews(v any) int {
	var s string
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil || math.Abs(f) > math.MaxInt32 {
			return 0
		}
		return int(f)
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0
	}

	m := intPrefix.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

type LeadFilter string

const (
	LeadFilterAll       LeadFilter = "all"
	LeadFilterHot       LeadFilter = "hot"
	LeadFilterWebsite   LeadFilter = "website"
	LeadFilterHighValue LeadFilter = "high_value"
)

func ParseLeadFilter(s string) (LeadFilter, bool) {
	switch f := LeadFilter(strings.TrimSpace(s)); f {
	case "":
		return LeadFilterAll, true
	case LeadFilterAll, LeadFilterHot, LeadFilterWebsite, LeadFilterHighValue:
		return f, true
	}
	return "", false
}

type LeadQuery struct {
	UserID string
	Filter LeadFilter
	JobID  string
	Search string
	Limit  int
	Offset int
}

type LeadRepositoryInterface interface {
	// InsertBatch grava o lote e incrementa jobs.leads_found e profiles.leads_count
	// na mesma transação. Devolve quantas linhas foram inseridas.
	InsertBatch(ctx context.Context, userID, jobID string, leads []*Lead) (int, error)
	List(ctx context.Context, q LeadQuery) ([]*Lead, error)
	Count(ctx context.Context, userID string, filter LeadFilter) (int, error)
}
