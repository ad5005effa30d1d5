package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("BREVO_API_KEY", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("CORS_ORIGINS", "https://www.example.nl, https://example.nl")
	t.Setenv("DEPARTMENT_EMAILS", "Sales=sales@example.nl, support = support@example.nl, broken")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IsAIEnabled() {
		t.Fatalf("expected AI to be disabled without AI_PROVIDER")
	}
	if cfg.GetAITimeout() != 8*time.Second {
		t.Fatalf("expected default AI timeout 8s, got %s", cfg.GetAITimeout())
	}
	if len(cfg.GetCORSOrigins()) != 2 {
		t.Fatalf("expected 2 CORS origins, got %v", cfg.GetCORSOrigins())
	}
	emails := cfg.GetDepartmentEmails()
	if emails["sales"] != "sales@example.nl" || emails["support"] != "support@example.nl" {
		t.Fatalf("unexpected department emails %v", emails)
	}
	if len(emails) != 2 {
		t.Fatalf("expected malformed pair to be skipped, got %v", emails)
	}
}

func TestLoadRequiresProviderKey(t *testing.T) {
	t.Setenv("AI_PROVIDER", "moonshot")
	t.Setenv("MOONSHOT_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when moonshot key is missing")
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "clippy")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported provider")
	}
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for wildcard origins with credentials")
	}
}

func TestLoadValidatesOnCallPhone(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("CORS_ORIGINS", "https://www.example.nl")
	t.Setenv("ONCALL_PHONE", "12345")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid on-call phone")
	}

	t.Setenv("ONCALL_PHONE", "06 12345678")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetOnCallPhone() != "06 12345678" {
		t.Fatalf("unexpected on-call phone %q", cfg.GetOnCallPhone())
	}
}
