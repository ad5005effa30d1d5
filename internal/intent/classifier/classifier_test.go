package classifier

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"website_backend/internal/intent/domain"
	"website_backend/platform/ai/chat"
	"website_backend/platform/logger"
)

func countingCompleter(calls *int32, answer string, err error) chat.Completer {
	return chat.CompleterFunc(func(_ context.Context, _ []chat.Message, _ chat.Options) (string, error) {
		atomic.AddInt32(calls, 1)
		return answer, err
	})
}

func TestDetectExamples(t *testing.T) {
	c := New(nil, nil)

	tests := []struct {
		name    string
		text    string
		intent  domain.Intent
		urgency domain.Urgency
	}{
		{name: "pricing", text: "Wat kost een Microsoft 365 abonnement?", intent: domain.IntentPricingRequest, urgency: domain.UrgencyLow},
		{name: "outage", text: "Onze server is down, dit is heel urgent!", intent: domain.IntentUrgentIssue, urgency: domain.UrgencyCritical},
		{name: "password", text: "Mijn wachtwoord is vergeten, kan iemand helpen?", intent: domain.IntentPasswordReset, urgency: domain.UrgencyLow},
		{name: "quote", text: "Ik wil graag een offerte aanvragen", intent: domain.IntentQuoteRequest, urgency: domain.UrgencyLow},
		{name: "account", text: "Mijn account is geblokkeerd", intent: domain.IntentAccountIssue, urgency: domain.UrgencyLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Detect(context.Background(), tt.text, true)
			if got.Intent != tt.intent {
				t.Fatalf("intent = %s, want %s", got.Intent, tt.intent)
			}
			if got.Urgency != tt.urgency {
				t.Fatalf("urgency = %s, want %s", got.Urgency, tt.urgency)
			}
			if got.SuggestedAction != domain.SuggestedAction(tt.intent) {
				t.Fatalf("unexpected suggested action %q", got.SuggestedAction)
			}
			if got.Source != domain.SourceRules {
				t.Fatalf("expected rules source, got %s", got.Source)
			}
		})
	}
}

func TestDetectPricingExtractsService(t *testing.T) {
	got := New(nil, nil).Detect(context.Background(), "Wat kost een Microsoft 365 abonnement?", true)
	if !reflect.DeepEqual(got.Entities.Services, []string{"microsoft 365"}) {
		t.Fatalf("unexpected services %v", got.Entities.Services)
	}
}

func TestDetectEmptyText(t *testing.T) {
	got := New(nil, nil).Detect(context.Background(), "", true)
	if got.Intent != domain.IntentUnknown || got.Confidence != 0 {
		t.Fatalf("expected unknown/0, got %s/%v", got.Intent, got.Confidence)
	}
	if got.Urgency != domain.UrgencyLow {
		t.Fatalf("expected low urgency, got %s", got.Urgency)
	}
	if !got.Entities.IsEmpty() {
		t.Fatalf("expected no entities, got %+v", got.Entities)
	}
	if got.SuggestedAction != "Contact support" {
		t.Fatalf("unexpected action %q", got.SuggestedAction)
	}
}

func TestExtractEntities(t *testing.T) {
	got := ExtractEntities("bel mij op 0612345678")
	if got.Phone != "0612345678" {
		t.Fatalf("unexpected phone %q", got.Phone)
	}
	if got.PhoneE164 != "+31612345678" {
		t.Fatalf("unexpected E.164 phone %q", got.PhoneE164)
	}

	got = ExtractEntities("mail me op jan@bedrijf.nl")
	if got.Email != "jan@bedrijf.nl" {
		t.Fatalf("unexpected email %q", got.Email)
	}
	if got.Phone != "" || len(got.Services) != 0 {
		t.Fatalf("expected only an email, got %+v", got)
	}

	got = ExtractEntities("Backup naar Azure en daarna Microsoft 365, bel +31201234567")
	if !reflect.DeepEqual(got.Services, []string{"microsoft 365", "azure", "backup"}) {
		t.Fatalf("services must follow list order, got %v", got.Services)
	}
	if got.Phone != "+31201234567" {
		t.Fatalf("unexpected international phone %q", got.Phone)
	}
}

func TestDetectUrgencyOrdering(t *testing.T) {
	tests := []struct {
		text string
		want domain.Urgency
	}{
		{"geen haast, maar het is wel urgent", domain.UrgencyCritical},
		{"het is dringend en het moet snel", domain.UrgencyHigh},
		{"kan dit deze week, geen haast", domain.UrgencyMedium},
		{"geen haast hoor", domain.UrgencyLow},
		{"hallo", domain.UrgencyLow},
	}
	for _, tt := range tests {
		if got := DetectUrgency(tt.text); got != tt.want {
			t.Fatalf("DetectUrgency(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestDetectFromRulesTieKeepsTableOrder(t *testing.T) {
	// documentation and navigation both score here; documentation comes first.
	got := New(nil, nil).DetectFromRules("Waar vind ik de handleiding?")
	if got.Intent != domain.IntentDocumentation {
		t.Fatalf("expected documentation on tie, got %s", got.Intent)
	}
}

func TestDetectIsDeterministicAndBounded(t *testing.T) {
	c := New(nil, nil)
	inputs := []string{
		"",
		"hallo",
		"Onze server is down, dit is heel urgent! Storing, spoed, noodgeval, alles ligt plat",
		"prijs prijzen kost kosten tarief tarieven abonnement wat kost hoeveel kost",
		"bel mij op 0612345678",
	}
	for _, in := range inputs {
		first := c.Detect(context.Background(), in, false)
		for i := 0; i < 5; i++ {
			if again := c.Detect(context.Background(), in, false); !reflect.DeepEqual(first, again) {
				t.Fatalf("non-deterministic result for %q", in)
			}
		}
		if first.Confidence < 0 || first.Confidence > 1 {
			t.Fatalf("confidence %v out of range for %q", first.Confidence, in)
		}
	}
}

func TestDetectSkipsAIAboveThreshold(t *testing.T) {
	var calls int32
	c := New(countingCompleter(&calls, `{"intent":"feedback","confidence":1}`, nil), nil)

	got := c.Detect(context.Background(), "Onze server is down, dit is heel urgent!", true)
	if calls != 0 {
		t.Fatalf("expected no AI call, got %d", calls)
	}
	if got.Intent != domain.IntentUrgentIssue {
		t.Fatalf("unexpected intent %s", got.Intent)
	}
}

func TestDetectSkipsAIWhenDisabled(t *testing.T) {
	var calls int32
	c := New(countingCompleter(&calls, `{"intent":"feedback","confidence":1}`, nil), nil)

	c.Detect(context.Background(), "hallo", false)
	if calls != 0 {
		t.Fatalf("expected no AI call with useAI=false, got %d", calls)
	}
}

func TestDetectFailingCompleterMatchesRules(t *testing.T) {
	var buf bytes.Buffer
	var calls int32
	failing := New(countingCompleter(&calls, "", errors.New("provider unavailable")), logger.NewWithWriter("production", &buf))
	rulesOnly := New(nil, nil)

	for _, in := range []string{"", "hallo", "bel mij op 0612345678", "Ik wil een afspraak maken"} {
		got := failing.Detect(context.Background(), in, true)
		want := rulesOnly.Detect(context.Background(), in, false)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("failing completer changed result for %q: %+v vs %+v", in, got, want)
		}
	}
	if calls == 0 {
		t.Fatalf("expected the completer to be consulted")
	}
	if !strings.Contains(buf.String(), "classifier_fallback") {
		t.Fatalf("expected fallback to be logged, got %q", buf.String())
	}
}

func TestDetectPanickingCompleterFallsBackToRules(t *testing.T) {
	var buf bytes.Buffer
	panicking := chat.CompleterFunc(func(context.Context, []chat.Message, chat.Options) (string, error) {
		panic("provider sdk blew up")
	})
	c := New(panicking, logger.NewWithWriter("production", &buf))
	rulesOnly := New(nil, nil)

	for _, in := range []string{"hallo", "bel mij op 0612345678"} {
		got := c.Detect(context.Background(), in, true)
		want := rulesOnly.Detect(context.Background(), in, false)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("panicking completer changed result for %q: %+v vs %+v", in, got, want)
		}
	}
	if !strings.Contains(buf.String(), "completer panicked") {
		t.Fatalf("expected panic to be logged as fallback, got %q", buf.String())
	}
}

func TestDetectWithAIWrapsPanicAsInvalidResponse(t *testing.T) {
	c := New(chat.CompleterFunc(func(context.Context, []chat.Message, chat.Options) (string, error) {
		panic(errors.New("nil pointer in adapter"))
	}), nil)

	_, err := c.detectWithAI(context.Background(), "hallo")
	if !errors.Is(err, ErrInvalidAIResponse) {
		t.Fatalf("expected ErrInvalidAIResponse, got %v", err)
	}
}

func TestDetectUsesAIOnlyWhenStrictlyMoreConfident(t *testing.T) {
	var calls int32
	// "bel mij op ..." scores 0.8 for contact_sales.
	lower := New(countingCompleter(&calls, `{"intent":"schedule_meeting","confidence":0.6}`, nil), nil)
	got := lower.Detect(context.Background(), "bel mij op 0612345678", true)
	if got.Intent != domain.IntentContactSales || got.Source != domain.SourceRules {
		t.Fatalf("expected rule result to win, got %+v", got)
	}

	higher := New(countingCompleter(&calls, `{"intent":"schedule_meeting","confidence":0.95,"reason":"wil teruggebeld worden voor een afspraak","urgency":"medium"}`, nil), nil)
	got = higher.Detect(context.Background(), "bel mij op 0612345678", true)
	if got.Intent != domain.IntentScheduleMeeting || got.Source != domain.SourceAI {
		t.Fatalf("expected AI result to win, got %+v", got)
	}
	if got.Urgency != domain.UrgencyMedium || got.Confidence != 0.95 {
		t.Fatalf("unexpected AI fields %+v", got)
	}
	if got.SuggestedAction != domain.SuggestedAction(domain.IntentScheduleMeeting) {
		t.Fatalf("suggested action must come from the table, got %q", got.SuggestedAction)
	}
	if got.Entities.Phone != "0612345678" {
		t.Fatalf("expected rule entities on AI result, got %+v", got.Entities)
	}
	if calls != 2 {
		t.Fatalf("expected 2 AI calls, got %d", calls)
	}
}

func TestDetectWithAISendsPromptAndOptions(t *testing.T) {
	var messages []chat.Message
	var opts chat.Options
	c := New(chat.CompleterFunc(func(_ context.Context, m []chat.Message, o chat.Options) (string, error) {
		messages, opts = m, o
		return `{"intent":"faq"}`, nil
	}), nil)

	got, err := c.detectWithAI(context.Background(), "Hoe laat zijn jullie open?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Confidence != defaultAIConfidence || got.Urgency != domain.UrgencyLow {
		t.Fatalf("expected defaults, got %+v", got)
	}
	if opts.Temperature != 0.3 || opts.MaxTokens != 200 || !opts.JSON {
		t.Fatalf("unexpected options %+v", opts)
	}
	if len(messages) != 2 || messages[0].Role != chat.RoleSystem || !strings.Contains(messages[0].Content, "strict JSON") {
		t.Fatalf("unexpected system message %+v", messages)
	}
	prompt := messages[1].Content
	if !strings.Contains(prompt, "Hoe laat zijn jullie open?") {
		t.Fatalf("prompt must contain the literal text")
	}
	for _, intent := range domain.All() {
		if !strings.Contains(prompt, "- "+string(intent)+": ") {
			t.Fatalf("prompt is missing intent %s", intent)
		}
	}
}

func TestDetectWithAIMapsLooseValues(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		intent  domain.Intent
		urgency domain.Urgency
	}{
		{name: "unknown intent", answer: `{"intent":"order_pizza","confidence":0.9}`, intent: domain.IntentUnknown, urgency: domain.UrgencyLow},
		{name: "loose casing", answer: `{"intent":"Technical Support","confidence":0.9,"urgency":"HIGH"}`, intent: domain.IntentTechnicalSupport, urgency: domain.UrgencyHigh},
		{name: "unknown urgency", answer: `{"intent":"feedback","urgency":"meh"}`, intent: domain.IntentFeedback, urgency: domain.UrgencyLow},
		{name: "code fence", answer: "```json\n{\"intent\":\"demo_request\",\"confidence\":0.7}\n```", intent: domain.IntentDemoRequest, urgency: domain.UrgencyLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			c := New(countingCompleter(&calls, tt.answer, nil), nil)
			got, err := c.detectWithAI(context.Background(), "hallo")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Intent != tt.intent || got.Urgency != tt.urgency {
				t.Fatalf("got %s/%s, want %s/%s", got.Intent, got.Urgency, tt.intent, tt.urgency)
			}
		})
	}
}

func TestDecodeAIResponseRejectsMalformed(t *testing.T) {
	c := New(nil, nil)
	for _, raw := range []string{
		"",
		"I think it is pricing",
		`{"intent":"faq"`,
		`{"confidence":0.9}`,
		`{"intent":"faq","confidence":1.5}`,
		`{"intent":"faq","confidence":"high"}`,
		`{"intent":"faq"} {"intent":"feedback"}`,
		`["faq"]`,
	} {
		if _, err := c.decodeAIResponse(raw); !errors.Is(err, ErrInvalidAIResponse) {
			t.Fatalf("decodeAIResponse(%q) error = %v, want ErrInvalidAIResponse", raw, err)
		}
	}
}

func TestAIEntitiesOnlyFillGaps(t *testing.T) {
	answer := `{"intent":"contact_sales","confidence":0.9,"entities":{"services":["Firewall"],"email":"niet-een-adres","phone":"020 123 4567"}}`
	var calls int32
	c := New(countingCompleter(&calls, answer, nil), nil)

	got, err := c.detectWithAI(context.Background(), "mail me op jan@bedrijf.nl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Entities.Email != "jan@bedrijf.nl" {
		t.Fatalf("rule email must win, got %q", got.Entities.Email)
	}
	if !reflect.DeepEqual(got.Entities.Services, []string{"firewall"}) {
		t.Fatalf("expected AI services to fill the gap, got %v", got.Entities.Services)
	}
	if got.Entities.PhoneE164 != "+31201234567" {
		t.Fatalf("expected AI phone to be normalised, got %+v", got.Entities)
	}
}
