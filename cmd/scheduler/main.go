package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	crmrepo "novyrix_backend/internal/crm/repository"
	crmservice "novyrix_backend/internal/crm/service"
	"novyrix_backend/internal/events"
	"novyrix_backend/internal/notification"
	"novyrix_backend/internal/scheduler"
	"novyrix_backend/platform/config"
	"novyrix_backend/platform/currency"
	"novyrix_backend/platform/db"
	"novyrix_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)
	formatter := currency.NewFormatter(cfg.GetCurrencyCode())

	// Follow-up emails go out from the worker, so it carries its own
	// notification module.
	notificationModule := notification.NewModule(initEmailSender(cfg, log), formatter, log, cfg.GetSupportInboxAddress())
	notificationModule.Subscribe(eventBus)

	crmSvc := crmservice.New(crmrepo.New(pool), log)

	worker, err := scheduler.NewWorker(cfg, crmSvc, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	log.Info("scheduler worker running", "queue", cfg.GetAsynqQueueName(), "concurrency", cfg.GetAsynqConcurrency())
	worker.Run(ctx)
	log.Info("scheduler stopped")
}

func initEmailSender(cfg config.SMTPConfig, log *logger.Logger) notification.Sender {
	if !cfg.GetEmailEnabled() {
		log.Warn("email disabled; follow-up notifications will be dropped")
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
		return errors.New(name + ": invalid retry attempts")
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
