package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"website_backend/internal/events"
	"website_backend/internal/handoff"
	apphttp "website_backend/internal/http"
	"website_backend/internal/http/router"
	"website_backend/internal/intent"
	"website_backend/internal/intent/domain"
	"website_backend/internal/scheduler"
	"website_backend/platform/ai/chat"
	"website_backend/platform/config"
	"website_backend/platform/logger"
	"website_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	eventBus := events.NewInMemoryBus(log)

	val := validator.New()
	if err := domain.RegisterValidations(val); err != nil {
		panic("failed to register validations: " + err.Error())
	}

	completer, err := chat.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize AI completer", "error", err)
		panic("failed to initialize AI completer: " + err.Error())
	}
	if completer == nil {
		log.Warn("AI_PROVIDER not configured; intent detection runs on rules only")
	} else {
		log.Info("AI-assisted intent detection enabled", "provider", cfg.GetAIProvider())
	}

	redisClient, handoffScheduler, closeHandoff := initHandoffScheduler(cfg, log)
	defer closeHandoff()

	// ========================================================================
	// Modules
	// ========================================================================

	intentModule := intent.NewModule(completer, eventBus, val, log)

	if handoffScheduler != nil {
		handoffSvc, err := handoff.NewService(handoff.Deps{
			Scheduler: handoffScheduler,
			Deduper:   handoff.NewRedisDeduper(redisClient),
			Targets:   cfg,
			Logger:    log,
		})
		if err != nil {
			panic("failed to initialize handoff service: " + err.Error())
		}
		handoff.New(handoffSvc).RegisterHandlers(eventBus)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			intentModule,
		},
	}
	if redisClient != nil {
		app.Health = redisPinger{client: redisClient}
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// redisPinger adapts go-redis to apphttp.HealthChecker.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func initHandoffScheduler(cfg *config.Config, log *logger.Logger) (*redis.Client, scheduler.HandoffScheduler, func()) {
	noop := func() {}
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; department handoffs disabled")
		return nil, nil, noop
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize handoff scheduler client", "error", err)
		return nil, nil, noop
	}
	redisClient, err := scheduler.NewRedisClient(cfg)
	if err != nil {
		_ = client.Close()
		log.Error("failed to initialize redis client", "error", err)
		return nil, nil, noop
	}

	return redisClient, client, func() {
		_ = client.Close()
		_ = redisClient.Close()
	}
}
