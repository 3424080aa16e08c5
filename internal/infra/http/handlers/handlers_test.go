package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadgen-api/internal/entity"
	"github.com/xavierca1/leadgen-api/internal/infra/events"
	"github.com/xavierca1/leadgen-api/internal/infra/http/middleware"
	"github.com/xavierca1/leadgen-api/internal/mocks"
	"github.com/xavierca1/leadgen-api/internal/usecase"
)

var tenant = &entity.Profile{ID: "user-1", FullName: "Asha", Plan: entity.PlanPro, LeadsCount: 12, JobsCount: 3}

func authed(req *http.Request) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.ProfileContextKey, tenant))
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := authed(httptest.NewRequest(method, target, strings.NewReader(body)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jobRouter(repo *mocks.JobRepository) http.Handler {
	h := NewJobHandler(
		usecase.NewCreateJobUseCase(repo, nil),
		usecase.NewListJobsUseCase(repo),
		usecase.NewUpdateJobStatusUseCase(repo, nil),
	)
	r := chi.NewRouter()
	r.Get("/jobs", h.ListActive)
	r.Post("/jobs", h.Create)
	r.Patch("/jobs", h.UpdateStatus)
	r.Get("/dashboard/jobs", h.ListAll)
	r.Get("/dashboard/jobs/{id}", h.Get)
	r.Post("/dashboard/jobs/{id}/stop", h.Stop)
	return r
}

// ============ JOBS ============

func TestCreateJobReturns201(t *testing.T) {
	repo := new(mocks.JobRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec := do(t, jobRouter(repo), http.MethodPost, "/jobs", `{"platform":"google_maps","city":"Pune","category":"Cafes"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Job entity.Job `json:"job"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, entity.JobPending, body.Job.Status)
	assert.Equal(t, "user-1", body.Job.UserID)
}

func TestCreateJobIgnoresUserIDInBody(t *testing.T) {
	repo := new(mocks.JobRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(j *entity.Job) bool {
		return j.UserID == "user-1"
	})).Return(nil)

	rec := do(t, jobRouter(repo), http.MethodPost, "/jobs", `{"user_id":"user-2","platform":"indiamart","city":"Surat","category":"Textiles"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestCreateJobErrors(t *testing.T) {
	repo := new(mocks.JobRepository)

	rec := do(t, jobRouter(repo), http.MethodPost, "/jobs", `{"platform":"google_maps"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)

	rec = do(t, jobRouter(repo), http.MethodPost, "/jobs", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON body"}`, rec.Body.String())
}

func TestListActiveJobs(t *testing.T) {
	repo := new(mocks.JobRepository)
	repo.On("ListByStatus", mock.Anything, "user-1", entity.ActiveJobStatuses).Return([]*entity.Job{}, nil)

	rec := do(t, jobRouter(repo), http.MethodGet, "/jobs", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jobs":[]}`, rec.Body.String())
}

func TestListActiveJobsStoreFailureHidesCause(t *testing.T) {
	repo := new(mocks.JobRepository)
	repo.On("ListByStatus", mock.Anything, "user-1", mock.Anything).Return(nil, errors.New("pq: password authentication failed"))

	rec := do(t, jobRouter(repo), http.MethodGet, "/jobs", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUpdateJobStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		repoFn func(*mocks.JobRepository)
		body   string
		code   int
	}{
		{
			name: "applied",
			repoFn: func(m *mocks.JobRepository) {
				m.On("UpdateStatus", mock.Anything, mock.Anything).Return(&entity.Job{ID: "j1", Status: entity.JobRunning}, nil)
			},
			body: `{"job_id":"j1","status":"running"}`,
			code: http.StatusOK,
		},
		{
			name:   "unknown status",
			repoFn: func(*mocks.JobRepository) {},
			body:   `{"job_id":"j1","status":"paused"}`,
			code:   http.StatusBadRequest,
		},
		{
			name: "missing job",
			repoFn: func(m *mocks.JobRepository) {
				m.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil, entity.ErrJobNotFound)
			},
			body: `{"job_id":"j404","status":"completed"}`,
			code: http.StatusNotFound,
		},
		{
			name: "terminal job",
			repoFn: func(m *mocks.JobRepository) {
				m.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil, entity.ErrInvalidTransition)
			},
			body: `{"job_id":"j1","status":"running"}`,
			code: http.StatusConflict,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mocks.JobRepository)
			tc.repoFn(repo)
			rec := do(t, jobRouter(repo), http.MethodPatch, "/jobs", tc.body)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestDashboardJobRoutes(t *testing.T) {
	repo := new(mocks.JobRepository)
	repo.On("ListByUser", mock.Anything, "user-1", 10).Return([]*entity.Job{{ID: "j1"}}, nil)
	repo.On("FindByID", mock.Anything, "user-1", "j1").Return(&entity.Job{ID: "j1"}, nil)
	repo.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(u entity.JobStatusUpdate) bool {
		return u.JobID == "j1" && u.Status == entity.JobStopped
	})).Return(&entity.Job{ID: "j1", Status: entity.JobStopped}, nil)

	r := jobRouter(repo)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/dashboard/jobs?limit=10", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/dashboard/jobs?limit=ten", "").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/dashboard/jobs/j1", "").Code)

	rec := do(t, r, http.MethodPost, "/dashboard/jobs/j1/stop", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"stopped"`)
}

func TestHandlerWithoutProfileIs401(t *testing.T) {
	repo := new(mocks.JobRepository)
	rec := httptest.NewRecorder()
	jobRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ============ LEADS ============

func leadRouter(repo *mocks.LeadRepository) http.Handler {
	h := NewLeadHandler(usecase.NewIngestLeadsUseCase(repo, nil), usecase.NewListLeadsUseCase(repo))
	r := chi.NewRouter()
	r.Post("/leads", h.Ingest)
	r.Get("/dashboard/leads", h.List)
	return r
}

func TestIngestLeadsReturns201(t *testing.T) {
	repo := new(mocks.LeadRepository)
	repo.On("InsertBatch", mock.Anything, "user-1", "J1", mock.Anything).Return(1, nil)

	rec := do(t, leadRouter(repo), http.MethodPost, "/leads",
		`{"job_id":"J1","leads":[{"business_name":"Cafe X","phone":"123","email":"a@b.com","rating":"4.5","reviews":"60","website":"http://x.com"}]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"inserted":1,"message":"1 leads uploaded successfully"}`, rec.Body.String())
}

func TestIngestLeadsValidation(t *testing.T) {
	repo := new(mocks.LeadRepository)
	for _, body := range []string{
		`{"leads":[{"name":"A"}]}`,
		`{"job_id":"J1"}`,
		`{"job_id":"J1","leads":[]}`,
		`{"job_id":"J1","leads":"nope"}`,
	} {
		rec := do(t, leadRouter(repo), http.MethodPost, "/leads", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngestLeadsUnknownJob(t *testing.T) {
	repo := new(mocks.LeadRepository)
	repo.On("InsertBatch", mock.Anything, "user-1", "J404", mock.Anything).Return(0, entity.ErrJobNotFound)

	rec := do(t, leadRouter(repo), http.MethodPost, "/leads", `{"job_id":"J404","leads":[{"name":"A"}]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLeadsQueryParams(t *testing.T) {
	repo := new(mocks.LeadRepository)
	repo.On("List", mock.Anything, entity.LeadQuery{
		UserID: "user-1", Filter: entity.LeadFilterWebsite, JobID: "j1", Search: "cafe", Limit: 20, Offset: 40,
	}).Return([]*entity.Lead{}, nil)

	rec := do(t, leadRouter(repo), http.MethodGet, "/dashboard/leads?filter=website&job_id=j1&q=cafe&limit=20&offset=40", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"leads":[]}`, rec.Body.String())

	rec = do(t, leadRouter(repo), http.MethodGet, "/dashboard/leads?filter=cold", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============ VERIFY / STATS ============

func TestVerify(t *testing.T) {
	rec := do(t, http.HandlerFunc(Verify), http.MethodGet, "/verify", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true,"user":{"id":"user-1","name":"Asha","plan":"pro","leads_count":12,"jobs_count":3}}`, rec.Body.String())
}

func TestDashboardStats(t *testing.T) {
	leads := new(mocks.LeadRepository)
	jobs := new(mocks.JobRepository)
	leads.On("Count", mock.Anything, "user-1", entity.LeadFilterAll).Return(12, nil)
	leads.On("Count", mock.Anything, "user-1", entity.LeadFilterHot).Return(4, nil)
	jobs.On("ListByUser", mock.Anything, "user-1", 5).Return([]*entity.Job{}, nil)

	h := NewDashboardHandler(usecase.NewDashboardStatsUseCase(leads, jobs))
	rec := do(t, http.HandlerFunc(h.Stats), http.MethodGet, "/stats", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_leads":12,"hot_leads":4,"jobs_run":3,"plan":"pro","recent_jobs":[]}`, rec.Body.String())
}

// ============ HEALTH ============

func TestHealthHealthy(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	dbMock.ExpectPing()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	rec := httptest.NewRecorder()
	NewHealthHandler(db, nil, rdb).Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "not configured", body.Dependencies["rabbitmq"])
	assert.Equal(t, "healthy", body.Dependencies["redis"])
}

func TestHealthDegradedWhenDatabaseDown(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	dbMock.ExpectPing().WillReturnError(errors.New("connection refused"))

	rec := httptest.NewRecorder()
	NewHealthHandler(db, nil, nil).Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// ============ EVENTS ============

func TestEventsStreamDeliversTenantEvents(t *testing.T) {
	hub := events.NewHub()
	h := NewEventsHandler(hub)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Stream(w, authed(r))
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers("user-1") == 1 }, time.Second, 10*time.Millisecond)

	_ = hub.PublishJobEvent(context.Background(), entity.JobEvent{Type: entity.EventLeadsIngested, UserID: "user-1", JobID: "j1", Inserted: 3})
	_ = hub.PublishJobEvent(context.Background(), entity.JobEvent{Type: entity.EventLeadsIngested, UserID: "user-2", JobID: "j9"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got entity.JobEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "j1", got.JobID)
	assert.Equal(t, 3, got.Inserted)
}
