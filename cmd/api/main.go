package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"novyrix_backend/internal/archive"
	"novyrix_backend/internal/auth"
	"novyrix_backend/internal/catalog"
	"novyrix_backend/internal/catalog/pricing"
	"novyrix_backend/internal/consultant"
	"novyrix_backend/internal/consultant/session"
	"novyrix_backend/internal/crm"
	"novyrix_backend/internal/events"
	apphttp "novyrix_backend/internal/http"
	"novyrix_backend/internal/http/router"
	"novyrix_backend/internal/notification"
	"novyrix_backend/internal/scheduler"
	"novyrix_backend/internal/support"
	"novyrix_backend/platform/ai/openaichat"
	"novyrix_backend/platform/config"
	"novyrix_backend/platform/currency"
	"novyrix_backend/platform/db"
	"novyrix_backend/platform/logger"
	"novyrix_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
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

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	formatter := currency.NewFormatter(cfg.GetCurrencyCode())

	priceCatalog, err := pricing.Load()
	if err != nil {
		log.Error("failed to load pricing catalog", "error", err)
		panic("failed to load pricing catalog: " + err.Error())
	}

	sessions, closeSessions := initSessionStore(ctx, cfg, log)
	defer closeSessions()

	followUpScheduler, closeScheduler := initFollowUpScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	if !cfg.IsLLMEnabled() {
		log.Warn("LLM_API_KEY not configured; consultant replies will fail upstream")
	}
	llm := openaichat.NewClient(openaichat.Config{
		BaseURL:     cfg.GetLLMBaseURL(),
		APIKey:      cfg.GetLLMAPIKey(),
		Model:       cfg.GetLLMModel(),
		Temperature: cfg.GetLLMTemperature(),
		MaxTokens:   cfg.GetLLMMaxTokens(),
	})

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(initEmailSender(cfg, log), formatter, log, cfg.GetSupportInboxAddress())
	notificationModule.Subscribe(eventBus)

	catalogModule := catalog.NewModule(priceCatalog, formatter)
	authModule := auth.NewModule(pool, cfg, val)
	crmModule := crm.NewModule(pool, formatter, log, cfg.GetAppBaseURL())
	crmModule.Service().SetEventBus(eventBus)
	if followUpScheduler != nil {
		crmModule.Service().SetFollowUpScheduler(followUpScheduler, cfg.GetQuoteFollowUpDelay())
	}

	// Quote snapshot archive (MinIO) is optional infrastructure
	if cfg.IsMinIOEnabled() {
		archiveSvc, err := archive.New(cfg, log)
		if err != nil {
			log.Error("failed to initialize archive service", "error", err)
			panic("failed to initialize archive service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure archive bucket", 5, 2*time.Second, func() error {
			return archiveSvc.EnsureBucketExists(ctx)
		}); err != nil {
			log.Error("failed to ensure archive bucket exists", "error", err)
			panic("failed to ensure archive bucket exists: " + err.Error())
		}
		crmModule.Service().SetSnapshotArchiver(archiveSvc)
		log.Info("archive service initialized", "bucket", cfg.GetMinIOBucketArchive())
	}

	consultantModule, err := consultant.NewModule(llm, priceCatalog, sessions, formatter, log, val, cfg.GetConsultantPersonaFile())
	if err != nil {
		log.Error("failed to initialize consultant module", "error", err)
		panic("failed to initialize consultant module: " + err.Error())
	}
	// Finalized quotes flow from the consultant into the CRM
	consultantModule.SetQuoteSubmitter(crmModule.Service())

	supportModule := support.NewModule(sessions, log, val)
	supportModule.Service().SetEventBus(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			catalogModule,
			consultantModule,
			crmModule,
			supportModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// initSessionStore picks Redis when configured, otherwise an in-process
// store with TTL eviction.
func initSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (session.Store, func()) {
	if cfg.GetRedisURL() != "" {
		store, err := session.NewRedisStore(ctx, cfg.GetRedisURL(), cfg.GetRedisTLSInsecure(), cfg.GetSessionTTL())
		if err != nil {
			log.Error("failed to connect to redis session store", "error", err)
			panic("failed to connect to redis session store: " + err.Error())
		}
		log.Info("session store initialized", "backend", "redis")
		return store, func() { _ = store.Close() }
	}

	store := session.NewMemoryStore(cfg.GetSessionTTL(), cfg.GetSessionMaxEntries())
	log.Info("session store initialized", "backend", "memory", "max_entries", cfg.GetSessionMaxEntries())
	return store, store.Close
}

func initFollowUpScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; quote follow-ups disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func initEmailSender(cfg config.SMTPConfig, log *logger.Logger) notification.Sender {
	if !cfg.GetEmailEnabled() {
		log.Warn("email disabled; notifications will be dropped")
		return notification.NoopSender{}
	}
	return notification.NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
