package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `toml:"-"`

	// Server configuration
	ServerHost            string   `toml:"server_host"`
	ServerPort            string   `toml:"server_port"`
	RequestTimeoutSeconds int      `toml:"request_timeout"`
	CORSAllowedOrigins    []string `toml:"cors_allowed_origins"`
	// Proxies whose X-Forwarded-For is believed, as IPs or CIDRs. Empty trusts none.
	TrustedProxies []string `toml:"trusted_proxies"`

	// Text generation
	TextProvider string `toml:"text_provider"`
	TextModel    string `toml:"text_model"`

	// OpenAI configuration. The key is also used for image generation.
	OpenAIAPIKey       string `toml:"openai_api_key"`
	OpenAIAPIURL       string `toml:"openai_api_url"`
	OpenAIImagesAPIURL string `toml:"openai_images_api_url"`
	ImageModel         string `toml:"image_model"`

	// Gemini configuration
	GeminiAPIKey string `toml:"gemini_api_key"`
	GeminiModel  string `toml:"gemini_model"`

	// Redis configuration
	RedisURL      string `toml:"redis_url"`
	RedisHost     string `toml:"redis_host"`
	RedisPort     string `toml:"redis_port"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// Rate limits per client per hour, 0 disables the limiter
	RateLimitTextPerHour  int `toml:"rate_limit_text_per_hour"`
	RateLimitImagePerHour int `toml:"rate_limit_image_per_hour"`

	// Usage ledger database
	DBDriver string `toml:"db_driver"`
	DBDSN    string `toml:"db_dsn"`

	// Image mirroring
	S3BucketName      string `toml:"s3_bucket_name"`
	AWSRegion         string `toml:"aws_region"`
	S3PresignTTLHours int    `toml:"s3_presign_ttl_hours"`
}

// Provider names accepted by TextProvider
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Database drivers accepted by DBDriver
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Default returns the configuration used before any file or environment override
func Default(env Environment) *Config {
	cfg := &Config{
		Environment:           env,
		ServerHost:            "0.0.0.0",
		ServerPort:            "8080",
		RequestTimeoutSeconds: 60,
		CORSAllowedOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		TextProvider:          ProviderOpenAI,
		TextModel:             "gpt-3.5-turbo",
		OpenAIAPIURL:          "https://api.openai.com/v1/chat/completions",
		OpenAIImagesAPIURL:    "https://api.openai.com/v1/images/generations",
		ImageModel:            "dall-e-3",
		GeminiModel:           "gemini-1.5-flash",
		RedisHost:             "localhost",
		RedisPort:             "6379",
		RateLimitTextPerHour:  60,
		RateLimitImagePerHour: 30,
		DBDriver:              DriverSQLite,
		DBDSN:                 "feastcraft.db",
		S3PresignTTLHours:     24,
	}

	switch env {
	case Test, CI:
		cfg.DBDSN = "file::memory:?cache=shared"
		cfg.RateLimitTextPerHour = 0
		cfg.RateLimitImagePerHour = 0
	case Production:
		cfg.DBDriver = DriverPostgres
		cfg.DBDSN = ""
		cfg.CORSAllowedOrigins = nil
	}
	return cfg
}

// LoadConfig builds the configuration from defaults, an optional TOML file, environment
// variables and Docker secrets, in that order of precedence
func LoadConfig(path string) (*Config, error) {
	env := GetEnvironment()
	cfg := Default(env)

	if path == "" {
		path = os.Getenv("FEASTCRAFT_CONFIG")
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load configuration file: %w", err)
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := loadSecrets(cfg); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RequestTimeout bounds a single call to an upstream API
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// S3PresignTTL is the lifetime of links to mirrored images
func (c *Config) S3PresignTTL() time.Duration {
	return time.Duration(c.S3PresignTTLHours) * time.Hour
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.TextProvider, "TEXT_PROVIDER")
	setString(&cfg.TextModel, "TEXT_MODEL")
	setString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAIAPIURL, "OPENAI_API_URL")
	setString(&cfg.OpenAIImagesAPIURL, "OPENAI_IMAGES_API_URL")
	setString(&cfg.ImageModel, "IMAGE_MODEL")
	setString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&cfg.GeminiModel, "GEMINI_MODEL")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.RedisHost, "REDIS_HOST")
	setString(&cfg.RedisPort, "REDIS_PORT")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DBDSN, "DB_DSN")
	setString(&cfg.S3BucketName, "S3_BUCKET_NAME")
	setString(&cfg.AWSRegion, "AWS_REGION")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		cfg.TrustedProxies = splitList(v)
	}

	ints := []struct {
		dst *int
		key string
	}{
		{&cfg.RequestTimeoutSeconds, "REQUEST_TIMEOUT"},
		{&cfg.RedisDB, "REDIS_DB"},
		{&cfg.RateLimitTextPerHour, "RATE_LIMIT_TEXT_PER_HOUR"},
		{&cfg.RateLimitImagePerHour, "RATE_LIMIT_IMAGE_PER_HOUR"},
		{&cfg.S3PresignTTLHours, "S3_PRESIGN_TTL_HOURS"},
	}
	for _, i := range ints {
		if err := setInt(i.dst, i.key); err != nil {
			return err
		}
	}

	cfg.TextProvider = strings.ToLower(strings.TrimSpace(cfg.TextProvider))
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	return nil
}

// loadSecrets fills API keys that were not set directly from key files or Docker secrets
func loadSecrets(cfg *Config) error {
	if cfg.OpenAIAPIKey == "" {
		key, err := readKeyFile(os.Getenv("OPENAI_API_KEY_FILE"))
		if err != nil {
			return err
		}
		if key == "" {
			key = readSecret("openai_api_key")
		}
		cfg.OpenAIAPIKey = key
	}
	if cfg.GeminiAPIKey == "" {
		key, err := readKeyFile(os.Getenv("GEMINI_API_KEY_FILE"))
		if err != nil {
			return err
		}
		if key == "" {
			key = readSecret("gemini_api_key")
		}
		cfg.GeminiAPIKey = key
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = readSecret("redis_password")
	}
	if cfg.DBDSN == "" {
		cfg.DBDSN = readSecret("db_dsn")
	}
	return nil
}

func readKeyFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read API key file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return ValidationError{Field: key, Message: fmt.Sprintf("must be an integer, got %q", v)}
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
