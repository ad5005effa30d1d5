package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"website_backend/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishRunsHandlersAsync(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls atomic.Int32
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		calls.Add(1)
		return nil
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		calls.Add(1)
		return errors.New("logged, not returned")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	cancel()
	bus.Wait()

	if calls.Load() != 2 {
		t.Fatalf("expected 2 handler calls, got %d", calls.Load())
	}
}

func TestPublishDetachesCancellation(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	errCh := make(chan error, 1)
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, _ Event) error {
		time.Sleep(10 * time.Millisecond)
		errCh <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	cancel()
	bus.Wait()

	if err := <-errCh; err != nil {
		t.Fatalf("expected handler context to survive cancellation, got %v", err)
	}
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error { return errors.New("a") }))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error { return errors.New("b") }))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	if err == nil || err.Error() != "a\nb" {
		t.Fatalf("expected joined errors, got %v", err)
	}
}
