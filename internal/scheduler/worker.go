package scheduler

import (
	"context"
	"fmt"

	crmrepo "novyrix_backend/internal/crm/repository"
	crmservice "novyrix_backend/internal/crm/service"
	"novyrix_backend/internal/events"
	"novyrix_backend/platform/config"
	"novyrix_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Worker consumes scheduled tasks and turns them back into domain
// events for the notification module.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	crm    *crmservice.Service
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, crm *crmservice.Service, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		crm:    crm,
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskQuoteFollowUp, w.handleQuoteFollowUp)

	return w, nil
}

func (w *Worker) handleQuoteFollowUp(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseQuoteFollowUpPayload(task)
	if err != nil {
		return err
	}

	requestID, err := uuid.Parse(payload.RequestID)
	if err != nil {
		return err
	}

	qr, err := w.crm.Get(ctx, requestID)
	if err != nil {
		return err
	}

	// The agency already reached out; no automated nudge needed.
	if qr.Status != crmrepo.StatusNew {
		w.log.Info("skipping follow-up, request already handled", "request_id", requestID, "status", qr.Status)
		return nil
	}

	if w.bus != nil {
		// Sync so a failed email leaves the task retryable.
		err := w.bus.PublishSync(ctx, events.QuoteFollowUpDue{
			BaseEvent:   events.NewBaseEvent(),
			RequestID:   qr.ID,
			ServiceType: qr.ServiceType,
			ClientName:  qr.ClientName,
			ClientEmail: qr.ClientEmail,
			Total:       qr.Total,
		})
		if err != nil {
			return err
		}
	}

	return w.crm.MarkFollowedUp(ctx, requestID)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
