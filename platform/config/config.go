// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"website_backend/platform/phone"

	"github.com/joho/godotenv"
)

// AI provider identifiers accepted by AI_PROVIDER.
const (
	AIProviderNone     = ""
	AIProviderMoonshot = "moonshot"
	AIProviderGemini   = "gemini"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetPublicRateLimit() float64
	GetPublicRateBurst() int
}

// AIConfig provides settings for the completion collaborator used by the
// intent classifier.
type AIConfig interface {
	GetAIProvider() string
	GetAIModel() string
	GetAITimeout() time.Duration
	GetMoonshotAPIKey() string
	GetMoonshotBaseURL() string
	GetGeminiAPIKey() string
	IsAIEnabled() bool
}

// SchedulerConfig provides settings for the asynq queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// EmailConfig provides settings for Brevo e-mail sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetBrevoAPIKey() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// SMTPConfig provides settings for direct SMTP delivery.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	IsSMTPEnabled() bool
}

// WhatsAppConfig provides settings for the GoWA WhatsApp gateway.
type WhatsAppConfig interface {
	GetWhatsAppURL() string
	GetWhatsAppKey() string
	GetWhatsAppDeviceID() string
}

// HandoffConfig provides department routing targets.
type HandoffConfig interface {
	GetDepartmentEmails() map[string]string
	GetHandoffDefaultEmail() string
	GetOnCallPhone() string
	GetHandoffDedupeWindow() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	PublicRateLimit     float64
	PublicRateBurst     int
	AIProvider          string
	AIModel             string
	AITimeout           time.Duration
	MoonshotAPIKey      string
	MoonshotBaseURL     string
	GeminiAPIKey        string
	RedisURL            string
	RedisTLSInsecure    bool
	AsynqQueueName      string
	AsynqConcurrency    int
	EmailEnabled        bool
	BrevoAPIKey         string
	EmailFromName       string
	EmailFromAddress    string
	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string
	WhatsAppURL         string
	WhatsAppKey         string
	WhatsAppDeviceID    string
	DepartmentEmails    map[string]string
	HandoffDefaultEmail string
	OnCallPhone         string
	HandoffDedupeWindow time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string         { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool       { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string    { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool     { return c.CORSAllowCreds }
func (c *Config) GetPublicRateLimit() float64 { return c.PublicRateLimit }
func (c *Config) GetPublicRateBurst() int     { return c.PublicRateBurst }

// AIConfig implementation
func (c *Config) GetAIProvider() string       { return c.AIProvider }
func (c *Config) GetAIModel() string          { return c.AIModel }
func (c *Config) GetAITimeout() time.Duration { return c.AITimeout }
func (c *Config) GetMoonshotAPIKey() string   { return c.MoonshotAPIKey }
func (c *Config) GetMoonshotBaseURL() string  { return c.MoonshotBaseURL }
func (c *Config) GetGeminiAPIKey() string     { return c.GeminiAPIKey }
func (c *Config) IsAIEnabled() bool           { return c.AIProvider != AIProviderNone }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetBrevoAPIKey() string      { return c.BrevoAPIKey }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string     { return c.SMTPHost }
func (c *Config) GetSMTPPort() int        { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string { return c.SMTPPassword }
func (c *Config) IsSMTPEnabled() bool     { return c.SMTPHost != "" }

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppURL() string      { return c.WhatsAppURL }
func (c *Config) GetWhatsAppKey() string      { return c.WhatsAppKey }
func (c *Config) GetWhatsAppDeviceID() string { return c.WhatsAppDeviceID }

// HandoffConfig implementation
func (c *Config) GetDepartmentEmails() map[string]string { return c.DepartmentEmails }
func (c *Config) GetHandoffDefaultEmail() string         { return c.HandoffDefaultEmail }
func (c *Config) GetOnCallPhone() string                 { return c.OnCallPhone }
func (c *Config) GetHandoffDedupeWindow() time.Duration  { return c.HandoffDedupeWindow }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	brevoAPIKey := getEnv("BREVO_API_KEY", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		PublicRateLimit:     mustFloat(getEnv("PUBLIC_RATE_LIMIT_PER_SECOND", "2")),
		PublicRateBurst:     mustInt(getEnv("PUBLIC_RATE_BURST", "10")),
		AIProvider:          strings.ToLower(strings.TrimSpace(getEnv("AI_PROVIDER", AIProviderNone))),
		AIModel:             getEnv("AI_MODEL", ""),
		AITimeout:           mustDuration(getEnv("AI_TIMEOUT", "8s")),
		MoonshotAPIKey:      getEnv("MOONSHOT_API_KEY", ""),
		MoonshotBaseURL:     getEnv("MOONSHOT_BASE_URL", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		RedisTLSInsecure:    strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:      getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:    mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		EmailEnabled:        emailEnabled && brevoAPIKey != "",
		BrevoAPIKey:         brevoAPIKey,
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Website"),
		EmailFromAddress:    getEnv("EMAIL_FROM_ADDRESS", ""),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		WhatsAppURL:         getEnv("WHATSAPP_URL", ""),
		WhatsAppKey:         getEnv("WHATSAPP_KEY", ""),
		WhatsAppDeviceID:    getEnv("WHATSAPP_DEVICE_ID", ""),
		DepartmentEmails:    parseKeyValueCSV(getEnv("DEPARTMENT_EMAILS", "")),
		HandoffDefaultEmail: getEnv("HANDOFF_DEFAULT_EMAIL", ""),
		OnCallPhone:         getEnv("ONCALL_PHONE", ""),
		HandoffDedupeWindow: mustDuration(getEnv("HANDOFF_DEDUPE_WINDOW", "30m")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.AIProvider {
	case AIProviderNone:
	case AIProviderMoonshot:
		if c.MoonshotAPIKey == "" {
			return fmt.Errorf("MOONSHOT_API_KEY is required when AI_PROVIDER is %s", AIProviderMoonshot)
		}
	case AIProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER is %s", AIProviderGemini)
		}
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AIProvider)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be a positive duration")
	}
	if (c.EmailEnabled || c.IsSMTPEnabled()) && c.EmailFromAddress == "" {
		return fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if !c.CORSAllowAll && len(c.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if c.OnCallPhone != "" {
		if _, ok := phone.ToE164(c.OnCallPhone); !ok {
			return fmt.Errorf("ONCALL_PHONE %q is not a valid phone number", c.OnCallPhone)
		}
	}
	if c.PublicRateLimit <= 0 || c.PublicRateBurst < 1 {
		return fmt.Errorf("PUBLIC_RATE_LIMIT_PER_SECOND and PUBLIC_RATE_BURST must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

// parseKeyValueCSV parses "sales=sales@example.nl,support=help@example.nl".
// Keys are lower-cased; malformed pairs are skipped.
func parseKeyValueCSV(value string) map[string]string {
	result := make(map[string]string)
	for _, part := range splitCSV(value) {
		key, val, ok := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		if !ok || key == "" || val == "" {
			continue
		}
		result[key] = val
	}
	return result
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
