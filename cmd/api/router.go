package main

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/leadgen-api/internal/infra/http/handlers"
	"github.com/xavierca1/leadgen-api/internal/infra/http/middleware"
	"github.com/xavierca1/leadgen-api/internal/infra/ratelimit"
)

const rateLimitWindow = time.Minute

type routerDeps struct {
	Auth        middleware.Authenticator
	Limiter     ratelimit.Limiter
	Jobs        *handlers.JobHandler
	Leads       *handlers.LeadHandler
	Dashboard   *handlers.DashboardHandler
	Events      *handlers.EventsHandler
	Health      *handlers.HealthHandler
	CORSOrigins []string

	// Vazio faz o rate limit usar o IP do socket.
	TrustedProxies []netip.Prefix
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.TrustedRealIP(d.TrustedProxies))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	protected := func(r chi.Router) {
		r.Use(middleware.RateLimit(d.Limiter, rateLimitWindow))
		r.Use(middleware.AgentAuth(d.Auth))
	}

	// O agente antigo chama a raiz; o novo usa /api/agent. As duas superfícies são iguais.
	agentRoutes := func(r chi.Router) {
		protected(r)
		r.Get("/jobs", d.Jobs.ListActive)
		r.Post("/jobs", d.Jobs.Create)
		r.Patch("/jobs", d.Jobs.UpdateStatus)
		r.Post("/leads", d.Leads.Ingest)
		r.Get("/verify", handlers.Verify)
		r.Get("/events", d.Events.Stream)
	}
	r.Group(agentRoutes)
	r.Route("/api/agent", agentRoutes)

	r.Route("/api/dashboard", func(r chi.Router) {
		protected(r)
		r.Get("/stats", d.Dashboard.Stats)
		r.Get("/jobs", d.Jobs.ListAll)
		r.Get("/jobs/{id}", d.Jobs.Get)
		r.Post("/jobs/{id}/stop", d.Jobs.Stop)
		r.Get("/leads", d.Leads.List)
	})

	return r
}
