package scheduler

import (
	"context"
	"fmt"

	"website_backend/platform/config"
	"website_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// HandoffProcessor delivers a queued handoff.
type HandoffProcessor interface {
	ProcessHandoff(ctx context.Context, payload HandoffPayload) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor HandoffProcessor
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, processor HandoffProcessor, log *logger.Logger) (*Worker, error) {
	if processor == nil {
		return nil, fmt.Errorf("handoff processor not configured")
	}

	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		processor: processor,
		log:       log,
	}

	mux.HandleFunc(TaskIntentHandoff, w.handleIntentHandoff)

	return w, nil
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

func (w *Worker) handleIntentHandoff(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseIntentHandoffPayload(task)
	if err != nil {
		// A payload that cannot be decoded will never succeed.
		return fmt.Errorf("decode handoff payload: %v: %w", err, asynq.SkipRetry)
	}
	return w.processor.ProcessHandoff(ctx, payload)
}
