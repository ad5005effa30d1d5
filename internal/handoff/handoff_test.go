package handoff

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"website_backend/internal/email"
	"website_backend/internal/events"
	"website_backend/internal/scheduler"
	"website_backend/internal/whatsapp"
	"website_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type testTargets struct{ onCall string }

func (t testTargets) GetDepartmentEmails() map[string]string {
	return map[string]string{"support": "support@example.nl"}
}
func (t testTargets) GetHandoffDefaultEmail() string        { return "info@example.nl" }
func (t testTargets) GetOnCallPhone() string                { return t.onCall }
func (t testTargets) GetHandoffDedupeWindow() time.Duration { return time.Minute }

type fakeScheduler struct {
	mu       sync.Mutex
	payloads []scheduler.HandoffPayload
	calls    int
	failures int
}

func (f *fakeScheduler) EnqueueHandoff(_ context.Context, payload scheduler.HandoffPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 {
		f.failures--
		return errors.New("redis blip")
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

type sentMail struct {
	to      string
	handoff email.Handoff
}

type fakeSender struct {
	email.NoopSender
	sent []sentMail
	err  error
}

func (f *fakeSender) SendHandoffEmail(_ context.Context, to string, h email.Handoff) error {
	f.sent = append(f.sent, sentMail{to: to, handoff: h})
	return f.err
}

type fakeMessenger struct {
	phones   []string
	messages []string
	err      error
}

func (f *fakeMessenger) SendMessage(_ context.Context, phone, message string) error {
	f.phones = append(f.phones, phone)
	f.messages = append(f.messages, message)
	return f.err
}

type testWhatsAppConfig struct{}

func (testWhatsAppConfig) GetWhatsAppURL() string      { return "http://127.0.0.1:1" }
func (testWhatsAppConfig) GetWhatsAppKey() string      { return "" }
func (testWhatsAppConfig) GetWhatsAppDeviceID() string { return "" }

func newRedisDeduper(t *testing.T) (*RedisDeduper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDeduper(client), mr
}

func classified(intent, urgency string, autoResponse bool) events.IntentClassified {
	return events.IntentClassified{
		BaseEvent:    events.NewBaseEvent(),
		SessionID:    "chat-1",
		Text:         "Onze server is down, dit is heel urgent!",
		Intent:       intent,
		Confidence:   1,
		Urgency:      urgency,
		Department:   "support",
		Priority:     1,
		AutoResponse: autoResponse,
	}
}

func TestNeedsHandoff(t *testing.T) {
	tests := []struct {
		name  string
		event events.IntentClassified
		want  bool
	}{
		{name: "no auto response", event: classified("urgent_issue", "critical", false), want: true},
		{name: "critical with auto response", event: classified("pricing_request", "critical", true), want: true},
		{name: "auto response", event: classified("pricing_request", "low", true), want: false},
		{name: "empty unknown", event: events.IntentClassified{Intent: "unknown", Urgency: "low"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsHandoff(tt.event); got != tt.want {
				t.Fatalf("NeedsHandoff = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRedisDeduperClaimExpires(t *testing.T) {
	d, mr := newRedisDeduper(t)
	ctx := context.Background()

	first, err := d.Claim(ctx, "session:chat-1:urgent_issue", time.Minute)
	if err != nil || !first {
		t.Fatalf("expected first claim to succeed, got %v, %v", first, err)
	}
	second, _ := d.Claim(ctx, "session:chat-1:urgent_issue", time.Minute)
	if second {
		t.Fatalf("expected second claim to fail")
	}

	mr.FastForward(2 * time.Minute)
	third, _ := d.Claim(ctx, "session:chat-1:urgent_issue", time.Minute)
	if !third {
		t.Fatalf("expected claim after expiry to succeed")
	}
}

func TestScheduleDeduplicatesPerSessionAndIntent(t *testing.T) {
	deduper, _ := newRedisDeduper(t)
	sched := &fakeScheduler{}
	svc, err := NewService(Deps{Scheduler: sched, Deduper: deduper, Targets: testTargets{}, Logger: logger.Discard()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.Schedule(ctx, classified("urgent_issue", "critical", false)); err != nil {
			t.Fatalf("schedule: %v", err)
		}
	}
	if err := svc.Schedule(ctx, classified("pricing_request", "low", true)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := svc.Schedule(ctx, classified("account_issue", "low", false)); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if len(sched.payloads) != 2 {
		t.Fatalf("expected 2 queued handoffs, got %d", len(sched.payloads))
	}
	if sched.payloads[0].Intent != "urgent_issue" || sched.payloads[1].Intent != "account_issue" {
		t.Fatalf("unexpected payloads %+v", sched.payloads)
	}
}

func TestScheduleReleasesClaimWhenEnqueueFails(t *testing.T) {
	deduper, _ := newRedisDeduper(t)
	sched := &fakeScheduler{failures: 1}
	svc, err := NewService(Deps{Scheduler: sched, Deduper: deduper, Targets: testTargets{}, Logger: logger.Discard()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	if err := svc.Schedule(ctx, classified("urgent_issue", "critical", false)); err == nil {
		t.Fatalf("expected enqueue error to be returned")
	}
	if err := svc.Schedule(ctx, classified("urgent_issue", "critical", false)); err != nil {
		t.Fatalf("schedule after failure: %v", err)
	}

	if sched.calls != 2 || len(sched.payloads) != 1 {
		t.Fatalf("expected the second message to be queued, calls=%d queued=%d", sched.calls, len(sched.payloads))
	}
	if err := svc.Schedule(ctx, classified("urgent_issue", "critical", false)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(sched.payloads) != 1 {
		t.Fatalf("expected successful claim to dedupe again, got %d", len(sched.payloads))
	}
}

func TestRedisDeduperRelease(t *testing.T) {
	d, _ := newRedisDeduper(t)
	ctx := context.Background()

	if ok, _ := d.Claim(ctx, "text:abc:faq", time.Minute); !ok {
		t.Fatalf("expected claim")
	}
	if err := d.Release(ctx, "text:abc:faq"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := d.Claim(ctx, "text:abc:faq", time.Minute); !ok {
		t.Fatalf("expected claim after release")
	}
}

func TestModuleHandlesPublishedEvents(t *testing.T) {
	sched := &fakeScheduler{}
	svc, err := NewService(Deps{Scheduler: sched, Targets: testTargets{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	bus := events.NewInMemoryBus(logger.Discard())
	New(svc).RegisterHandlers(bus)

	if err := bus.PublishSync(context.Background(), classified("urgent_issue", "critical", false)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(sched.payloads) != 1 {
		t.Fatalf("expected handoff from event, got %d", len(sched.payloads))
	}
}

func validPayload(urgency, department string) scheduler.HandoffPayload {
	return scheduler.HandoffPayload{
		HandoffID:  "6f1c3a52-34f4-4b4e-8d71-0c7e2f0b9a10",
		Text:       "Onze server is down, dit is heel urgent!",
		Intent:     "urgent_issue",
		Confidence: 1,
		Urgency:    urgency,
		Department: department,
		Priority:   1,
		Phone:      "0612345678",
	}
}

func TestProcessHandoffCriticalAlertsOnCall(t *testing.T) {
	sender := &fakeSender{}
	messenger := &fakeMessenger{}
	svc, _ := NewService(Deps{Sender: sender, Messenger: messenger, Targets: testTargets{onCall: "0687654321"}})

	if err := svc.ProcessHandoff(context.Background(), validPayload("critical", "support")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].to != "support@example.nl" {
		t.Fatalf("unexpected mails %+v", sender.sent)
	}
	if len(messenger.phones) != 1 || messenger.phones[0] != "0687654321" {
		t.Fatalf("expected on-call alert, got %v", messenger.phones)
	}
	if !strings.Contains(messenger.messages[0], "Terugbellen: 0612345678") {
		t.Fatalf("unexpected alert %q", messenger.messages[0])
	}
}

func TestProcessHandoffFallsBackToDefaultMailbox(t *testing.T) {
	sender := &fakeSender{}
	messenger := &fakeMessenger{}
	svc, _ := NewService(Deps{Sender: sender, Messenger: messenger, Targets: testTargets{onCall: "0687654321"}})

	payload := validPayload("high", "Sales")
	payload.Intent = "quote_request"
	if err := svc.ProcessHandoff(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].to != "info@example.nl" {
		t.Fatalf("expected default mailbox, got %+v", sender.sent)
	}
	if len(messenger.phones) != 0 {
		t.Fatalf("non-critical handoffs must not page on-call")
	}
}

func TestProcessHandoffRejectsInvalidPayload(t *testing.T) {
	svc, _ := NewService(Deps{Sender: &fakeSender{}, Targets: testTargets{}})

	payload := validPayload("apocalyptic", "support")
	err := svc.ProcessHandoff(context.Background(), payload)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for invalid urgency, got %v", err)
	}
}

func TestProcessHandoffReturnsSendErrors(t *testing.T) {
	svc, _ := NewService(Deps{Sender: &fakeSender{err: errors.New("smtp down")}, Targets: testTargets{}})

	err := svc.ProcessHandoff(context.Background(), validPayload("high", "support"))
	if err == nil || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}

func TestProcessHandoffMailsWhenAlertFails(t *testing.T) {
	sender := &fakeSender{}
	messenger := &fakeMessenger{err: errors.New("gateway timeout")}
	svc, _ := NewService(Deps{Sender: sender, Messenger: messenger, Targets: testTargets{onCall: "0687654321"}})

	err := svc.ProcessHandoff(context.Background(), validPayload("critical", "support"))
	if err == nil || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected retryable alert error, got %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].to != "support@example.nl" {
		t.Fatalf("expected department mail despite failed alert, got %+v", sender.sent)
	}
}

func TestProcessHandoffInvalidOnCallPhoneStillMails(t *testing.T) {
	sender := &fakeSender{}
	svc, _ := NewService(Deps{
		Sender:    sender,
		Messenger: whatsapp.NewClient(testWhatsAppConfig{}, logger.Discard()),
		Targets:   testTargets{onCall: "12345"},
	})

	if err := svc.ProcessHandoff(context.Background(), validPayload("critical", "support")); err != nil {
		t.Fatalf("invalid on-call number must not fail the handoff: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected department mail, got %d", len(sender.sent))
	}
}
