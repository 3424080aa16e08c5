package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/xavierca1/leadgen-api/internal/config"
	"github.com/xavierca1/leadgen-api/internal/entity"
	"github.com/xavierca1/leadgen-api/internal/infra/database"
	"github.com/xavierca1/leadgen-api/internal/infra/events"
	"github.com/xavierca1/leadgen-api/internal/infra/http/handlers"
	"github.com/xavierca1/leadgen-api/internal/infra/mail"
	"github.com/xavierca1/leadgen-api/internal/infra/queue"
	"github.com/xavierca1/leadgen-api/internal/infra/ratelimit"
	"github.com/xavierca1/leadgen-api/internal/infra/worker"
	"github.com/xavierca1/leadgen-api/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuração inválida: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Falha ao conectar no Postgres: %v", err)
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("❌ Falha ao criar schema: %v", err)
		}
	}

	// 1. Repositórios
	profileRepo := database.NewProfileRepository(db)
	jobRepo := database.NewJobRepository(db)
	leadRepo := database.NewLeadRepository(db)

	// 2. Eventos: hub em memória sempre, RabbitMQ quando configurado
	hub := events.NewHub()
	publisher := events.MultiPublisher{hub}

	var rabbitMQ *queue.RabbitMQ
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("⚠️ RabbitMQ indisponível, seguindo sem fila: %v", err)
		} else {
			defer rabbitMQ.Close()
			publisher = append(publisher, queue.NewProducer(rabbitMQ.Ch))
			startNotificationWorker(ctx, cfg, rabbitMQ, profileRepo)
		}
	}

	// 3. Rate limit: Redis compartilhado entre réplicas, memória como fallback
	var limiter ratelimit.Limiter
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = ratelimit.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("❌ REDIS_URL inválida: %v", err)
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimitPerMinute, rateLimitWindow)
	} else {
		mem := ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute, rateLimitWindow)
		go mem.Cleanup(ctx, 10*time.Minute)
		limiter = mem
	}

	// 4. Workers
	go worker.NewStaleJobWorker(jobRepo, publisher, cfg.StaleJobAfter, cfg.StaleJobInterval).Start(ctx)

	// 5. UseCases
	authUC := usecase.NewAuthenticateAgentUseCase(profileRepo)
	createJobUC := usecase.NewCreateJobUseCase(jobRepo, publisher)
	listJobsUC := usecase.NewListJobsUseCase(jobRepo)
	updateStatusUC := usecase.NewUpdateJobStatusUseCase(jobRepo, publisher)
	ingestUC := usecase.NewIngestLeadsUseCase(leadRepo, publisher)
	listLeadsUC := usecase.NewListLeadsUseCase(leadRepo)
	statsUC := usecase.NewDashboardStatsUseCase(leadRepo, jobRepo)

	// 6. Handlers + Router
	var rabbitConn *amqp.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}
	router := newRouter(routerDeps{
		Auth:           authUC,
		Limiter:        limiter,
		Jobs:           handlers.NewJobHandler(createJobUC, listJobsUC, updateStatusUC),
		Leads:          handlers.NewLeadHandler(ingestUC, listLeadsUC),
		Dashboard:      handlers.NewDashboardHandler(statsUC),
		Events:         handlers.NewEventsHandler(hub),
		Health:         handlers.NewHealthHandler(db, rabbitConn, rdb),
		CORSOrigins:    cfg.CORSAllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🔥 Lead API rodando na porta %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Servidor HTTP caiu: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("⚠️ Encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Shutdown forçado: %v", err)
	}
}

// startNotificationWorker consome q.job-events num canal próprio e manda email no fim do job.
func startNotificationWorker(ctx context.Context, cfg *config.Config, rabbitMQ *queue.RabbitMQ, profileRepo entity.ProfileRepositoryInterface) {
	if !cfg.MailEnabled() {
		log.Println("⚠️ MAIL_HOST vazio, notificações por email desligadas")
		return
	}

	ch, err := rabbitMQ.Conn.Channel()
	if err != nil {
		log.Printf("❌ Falha ao abrir canal do worker: %v", err)
		return
	}

	sender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	w := queue.NewWorker(ch, profileRepo, sender)

	go func() {
		defer ch.Close()
		if err := w.Start(ctx, queue.QueueName); err != nil {
			log.Printf("❌ Worker de notificação parou: %v", err)
		}
	}()
}
