// Package handoff passes classified chats that need a human to the right
// department: by e-mail and, for critical urgency, by WhatsApp to the on-call
// engineer.
package handoff

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"website_backend/internal/email"
	"website_backend/internal/events"
	"website_backend/internal/intent/domain"
	"website_backend/internal/scheduler"
	"website_backend/internal/whatsapp"
	"website_backend/platform/config"
	"website_backend/platform/logger"
	"website_backend/platform/validator"

	"github.com/hibiken/asynq"
)

const alertTextLimit = 300

// Service decides which classifications are handed off, queues them and
// delivers queued handoffs.
type Service struct {
	scheduler scheduler.HandoffScheduler
	deduper   Deduper
	sender    email.Sender
	messenger whatsapp.Messenger
	targets   config.HandoffConfig
	val       *validator.Validator
	log       *logger.Logger
}

// Deps are the collaborators of Service. Scheduler is required for Schedule,
// Sender for ProcessHandoff. Deduper and Messenger are optional.
type Deps struct {
	Scheduler scheduler.HandoffScheduler
	Deduper   Deduper
	Sender    email.Sender
	Messenger whatsapp.Messenger
	Targets   config.HandoffConfig
	Logger    *logger.Logger
}

func NewService(deps Deps) (*Service, error) {
	val := validator.New()
	if err := domain.RegisterValidations(val); err != nil {
		return nil, fmt.Errorf("register handoff validations: %w", err)
	}

	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	sender := deps.Sender
	if sender == nil {
		sender = email.NoopSender{}
	}

	return &Service{
		scheduler: deps.Scheduler,
		deduper:   deps.Deduper,
		sender:    sender,
		messenger: deps.Messenger,
		targets:   deps.Targets,
		val:       val,
		log:       log,
	}, nil
}

// NeedsHandoff reports whether a classification must reach a person: its
// routing forbids an automatic answer or it is critical. An empty unknown
// result never does.
func NeedsHandoff(e events.IntentClassified) bool {
	if e.Intent == string(domain.IntentUnknown) && e.Confidence == 0 {
		return false
	}
	return !e.AutoResponse || e.Urgency == string(domain.UrgencyCritical)
}

// Schedule queues a handoff for e when it needs one and no handoff for the
// same conversation and intent was queued within the dedupe window.
func (s *Service) Schedule(ctx context.Context, e events.IntentClassified) error {
	if !NeedsHandoff(e) || s.scheduler == nil {
		return nil
	}
	log := s.log.WithContext(ctx)
	key := dedupeKey(e)

	claimed := false
	if s.deduper != nil {
		ok, err := s.deduper.Claim(ctx, key, s.dedupeWindow())
		if err != nil {
			// Dedupe failures fall through to enqueueing.
			log.Warn("handoff dedupe unavailable", "error", err)
		} else if !ok {
			log.Debug("handoff already queued", "intent", e.Intent, "session_id", e.SessionID)
			return nil
		}
		claimed = ok
	}

	payload := scheduler.HandoffPayload{
		HandoffID:       e.ID.String(),
		RequestID:       e.RequestID,
		SessionID:       e.SessionID,
		PageURL:         e.PageURL,
		Text:            e.Text,
		Intent:          e.Intent,
		Confidence:      e.Confidence,
		Urgency:         e.Urgency,
		Department:      e.Department,
		Priority:        e.Priority,
		SuggestedAction: e.SuggestedAction,
		Services:        e.Services,
		Email:           e.Email,
		Phone:           e.Phone,
		ClassifiedAt:    e.OccurredAt(),
	}
	if err := s.scheduler.EnqueueHandoff(ctx, payload); err != nil {
		// The next message of the conversation may try again.
		if claimed {
			if relErr := s.deduper.Release(ctx, key); relErr != nil {
				log.Warn("handoff dedupe release failed", "error", relErr)
			}
		}
		return fmt.Errorf("enqueue handoff: %w", err)
	}

	log.Info("handoff queued", "handoff_id", payload.HandoffID, "department", payload.Department, "urgency", payload.Urgency)
	return nil
}

// ProcessHandoff alerts the on-call phone for critical handoffs and e-mails
// the department. A failed alert never holds back the e-mail. Invalid payloads
// and invalid on-call numbers are not retried.
func (s *Service) ProcessHandoff(ctx context.Context, payload scheduler.HandoffPayload) error {
	if err := s.val.Struct(payload); err != nil {
		return fmt.Errorf("invalid handoff payload: %v: %w", validator.FieldErrors(err), asynq.SkipRetry)
	}
	log := s.log.WithContext(ctx).With("handoff_id", payload.HandoffID)

	var alertErr error
	critical := payload.Urgency == string(domain.UrgencyCritical)
	if critical {
		alertErr = s.alertOnCall(ctx, payload)
		if errors.Is(alertErr, whatsapp.ErrInvalidPhone) {
			log.Error("on-call alert skipped", "error", alertErr)
			alertErr = nil
		}
	}

	mailErr := s.sendDepartmentEmail(ctx, log, payload)
	if err := errors.Join(alertErr, mailErr); err != nil {
		return err
	}

	log.Info("handoff delivered", "department", payload.Department, "critical", critical)
	return nil
}

func (s *Service) sendDepartmentEmail(ctx context.Context, log *slog.Logger, payload scheduler.HandoffPayload) error {
	recipient := s.recipientFor(payload.Department)
	if recipient == "" {
		log.Warn("no handoff mailbox configured", "department", payload.Department)
		return nil
	}
	if err := s.sender.SendHandoffEmail(ctx, recipient, toEmailHandoff(payload)); err != nil {
		return fmt.Errorf("send handoff email: %w", err)
	}
	return nil
}

func (s *Service) alertOnCall(ctx context.Context, payload scheduler.HandoffPayload) error {
	if s.messenger == nil || s.targets == nil || s.targets.GetOnCallPhone() == "" {
		return nil
	}

	if err := s.messenger.SendMessage(ctx, s.targets.GetOnCallPhone(), alertMessage(payload)); err != nil {
		return fmt.Errorf("send on-call alert: %w", err)
	}
	return nil
}

func (s *Service) recipientFor(department string) string {
	if s.targets == nil {
		return ""
	}
	if addr := s.targets.GetDepartmentEmails()[strings.ToLower(department)]; addr != "" {
		return addr
	}
	return s.targets.GetHandoffDefaultEmail()
}

func (s *Service) dedupeWindow() time.Duration {
	if s.targets != nil && s.targets.GetHandoffDedupeWindow() > 0 {
		return s.targets.GetHandoffDedupeWindow()
	}
	return 30 * time.Minute
}

func dedupeKey(e events.IntentClassified) string {
	if e.SessionID != "" {
		return "session:" + e.SessionID + ":" + e.Intent
	}
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(e.Text))))
	return "text:" + hex.EncodeToString(sum[:]) + ":" + e.Intent
}

func toEmailHandoff(p scheduler.HandoffPayload) email.Handoff {
	h := email.Handoff{
		HandoffID:       p.HandoffID,
		Intent:          p.Intent,
		Department:      p.Department,
		Urgency:         p.Urgency,
		Priority:        p.Priority,
		Confidence:      p.Confidence,
		SuggestedAction: p.SuggestedAction,
		Text:            p.Text,
		SessionID:       p.SessionID,
		PageURL:         p.PageURL,
		ContactEmail:    p.Email,
		ContactPhone:    p.Phone,
		Services:        p.Services,
	}
	if !p.ClassifiedAt.IsZero() {
		h.ClassifiedAt = p.ClassifiedAt.Format("02-01-2006 15:04")
	}
	return h
}

func alertMessage(p scheduler.HandoffPayload) string {
	text := []rune(strings.TrimSpace(p.Text))
	if len(text) > alertTextLimit {
		text = append(text[:alertTextLimit], []rune("...")...)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SPOED via websitechat (%s)\n", p.Intent)
	sb.WriteString(string(text))
	if p.Phone != "" {
		fmt.Fprintf(&sb, "\nTerugbellen: %s", p.Phone)
	}
	if p.Email != "" {
		fmt.Fprintf(&sb, "\nE-mail: %s", p.Email)
	}
	fmt.Fprintf(&sb, "\nRef: %s", p.HandoffID)
	return sb.String()
}
