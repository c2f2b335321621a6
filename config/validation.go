package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	// ErrAPIKeyMissing is returned when no API key is configured for a provider
	ErrAPIKeyMissing = errors.New("API key is not configured")
	// ErrAPIKeyInvalid is returned when the configured key does not look like a real one
	ErrAPIKeyInvalid = errors.New("API key appears to be invalid")
)

// CredentialError names the provider whose key failed validation
type CredentialError struct {
	Provider string
	Err      error
}

func (e *CredentialError) Error() string {
	switch {
	case errors.Is(e.Err, ErrAPIKeyMissing):
		return e.Provider + " API key is not configured"
	case errors.Is(e.Err, ErrAPIKeyInvalid):
		return e.Provider + " API key appears to be invalid"
	default:
		return e.Provider + " API key: " + e.Err.Error()
	}
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

const minOpenAIKeyLength = 40

// ValidateOpenAIKey checks the shape of an OpenAI key without calling the API
func ValidateOpenAIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return &CredentialError{Provider: "OpenAI", Err: ErrAPIKeyMissing}
	}
	if !strings.HasPrefix(key, "sk-") || len(key) < minOpenAIKeyLength {
		return &CredentialError{Provider: "OpenAI", Err: ErrAPIKeyInvalid}
	}
	return nil
}

// ValidateGeminiKey checks the shape of a Google AI Studio key
func ValidateGeminiKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return &CredentialError{Provider: "Gemini", Err: ErrAPIKeyMissing}
	}
	if !strings.HasPrefix(key, "AIza") {
		return &CredentialError{Provider: "Gemini", Err: ErrAPIKeyInvalid}
	}
	return nil
}

// TextCredentials validates the key of the configured text provider
func (c *Config) TextCredentials() error {
	if c.TextProvider == ProviderGemini {
		return ValidateGeminiKey(c.GeminiAPIKey)
	}
	return ValidateOpenAIKey(c.OpenAIAPIKey)
}

// ImageCredentials validates the key used for image generation
func (c *Config) ImageCredentials() error {
	return ValidateOpenAIKey(c.OpenAIAPIKey)
}

// ValidateConfig checks the configuration for values the server cannot start with.
// API keys are not required here, requests report missing keys individually.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: fmt.Sprintf("invalid port %q", cfg.ServerPort)}.Error())
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{Field: "REQUEST_TIMEOUT", Message: "must be positive"}.Error())
	}

	switch cfg.TextProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		errs = append(errs, ValidationError{Field: "TEXT_PROVIDER", Message: fmt.Sprintf("unknown provider %q", cfg.TextProvider)}.Error())
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverNone:
	case DriverPostgres:
		if cfg.DBDSN == "" {
			errs = append(errs, ValidationError{Field: "DB_DSN", Message: "required when DB_DRIVER is postgres"}.Error())
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unknown driver %q", cfg.DBDriver)}.Error())
	}

	if cfg.RateLimitTextPerHour < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_TEXT_PER_HOUR", Message: "must not be negative"}.Error())
	}
	if cfg.RateLimitImagePerHour < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_IMAGE_PER_HOUR", Message: "must not be negative"}.Error())
	}
	for _, origin := range cfg.CORSAllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, ValidationError{Field: "CORS_ALLOWED_ORIGINS", Message: fmt.Sprintf("origin %q must start with http:// or https://", origin)}.Error())
		}
	}
	for _, proxy := range cfg.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				errs = append(errs, ValidationError{Field: "TRUSTED_PROXIES", Message: fmt.Sprintf("%q is not an IP or CIDR", proxy)}.Error())
			}
		}
	}
	if cfg.S3BucketName != "" && cfg.S3PresignTTLHours <= 0 {
		errs = append(errs, ValidationError{Field: "S3_PRESIGN_TTL_HOURS", Message: "must be positive when S3_BUCKET_NAME is set"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
