package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"website_backend/internal/events"
	"website_backend/internal/intent/classifier"
	"website_backend/internal/intent/domain"
	"website_backend/internal/intent/transport"
	"website_backend/platform/apperr"
	"website_backend/platform/logger"
	"website_backend/platform/sanitize"
)

// batchConcurrency bounds concurrent classifications (and so model calls)
// within one batch request.
const batchConcurrency = 4

// Service provides the intent detection use cases.
type Service struct {
	classifier *classifier.Classifier
	bus        events.Bus
	log        *logger.Logger
}

// New creates a new intent service. bus may be nil, in which case no
// classification events are published.
func New(c *classifier.Classifier, bus events.Bus, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{classifier: c, bus: bus, log: log}
}

// Detect classifies a single chat message and announces the result.
func (s *Service) Detect(ctx context.Context, req transport.DetectRequest) transport.DetectResponse {
	if req.SessionID != "" {
		ctx = context.WithValue(ctx, logger.SessionIDKey, req.SessionID)
	}

	text := sanitize.ChatText(req.Text, transport.MaxTextLength)
	resp := s.detect(ctx, text, req.AIRequested())

	s.log.WithContext(ctx).Info("intent classified",
		"intent", resp.Result.Intent,
		"confidence", resp.Result.Confidence,
		"urgency", resp.Result.Urgency,
		"source", resp.Result.Source,
	)
	s.publish(ctx, req, text, resp)
	return resp
}

// DetectBatch classifies up to MaxBatchItems messages concurrently and
// returns the responses in input order. Batch results are not published.
func (s *Service) DetectBatch(ctx context.Context, req transport.BatchDetectRequest) (transport.BatchDetectResponse, error) {
	items := make([]transport.DetectResponse, len(req.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, item := range req.Items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i] = s.detect(gctx, sanitize.ChatText(item.Text, transport.MaxTextLength), item.AIRequested())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return transport.BatchDetectResponse{}, apperr.Wrap(apperr.KindUnavailable, "batch detection cancelled", err).WithOp("intent.DetectBatch")
	}

	return transport.BatchDetectResponse{Items: items}, nil
}

// RoutingTable returns the routing entries in intent table order, optionally
// limited to one department.
func (s *Service) RoutingTable(req transport.RoutingListRequest) transport.RoutingListResponse {
	department := strings.TrimSpace(req.Department)

	items := make([]transport.RoutingResponse, 0, len(domain.All()))
	for _, intent := range domain.All() {
		entry := toRoutingResponse(intent)
		if department != "" && entry.Department != department {
			continue
		}
		items = append(items, entry)
	}
	return transport.RoutingListResponse{Items: items}
}

// Routing returns the routing entry for a named intent.
func (s *Service) Routing(name string) (transport.RoutingResponse, error) {
	intent, ok := domain.ParseIntent(name)
	if !ok {
		return transport.RoutingResponse{}, apperr.NotFound("intent not found").WithDetails(name)
	}
	return toRoutingResponse(intent), nil
}

func (s *Service) detect(ctx context.Context, text string, useAI bool) transport.DetectResponse {
	result := s.classifier.Detect(ctx, text, useAI)
	return transport.DetectResponse{
		Result:  result,
		Routing: toRoutingResponse(result.Intent),
	}
}

func (s *Service) publish(ctx context.Context, req transport.DetectRequest, text string, resp transport.DetectResponse) {
	if s.bus == nil {
		return
	}

	requestID, _ := ctx.Value(logger.RequestIDKey).(string)
	result := resp.Result
	s.bus.Publish(ctx, events.IntentClassified{
		BaseEvent:       events.NewBaseEvent(),
		RequestID:       requestID,
		SessionID:       req.SessionID,
		PageURL:         req.PageURL,
		Text:            text,
		Intent:          string(result.Intent),
		Confidence:      result.Confidence,
		Urgency:         string(result.Urgency),
		Source:          result.Source,
		SuggestedAction: result.SuggestedAction,
		Department:      resp.Routing.Department,
		Priority:        resp.Routing.Priority,
		AutoResponse:    resp.Routing.AutoResponse,
		Services:        result.Entities.Services,
		Email:           result.Entities.Email,
		Phone:           result.Entities.Phone,
	})
}

func toRoutingResponse(intent domain.Intent) transport.RoutingResponse {
	entry := domain.Routing(intent)
	return transport.RoutingResponse{
		Intent:          intent,
		Department:      entry.Department,
		Priority:        entry.Priority,
		AutoResponse:    entry.AutoResponse,
		SuggestedAction: domain.SuggestedAction(intent),
	}
}
