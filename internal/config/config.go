package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	ShareLocal = "local"
	ShareS3    = "s3"
	ShareGCS   = "gcs"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string
	LogFile     string

	// Exports
	ExportDir      string
	ExportTimeout  time.Duration
	ValidatePDF    bool
	StylePath      string
	TextColumns    int
	WordsPerMinute int

	// Retention
	CleanupSchedule string
	ExportRetention time.Duration

	// Rate limit on export routes, requests per second
	ExportRateLimit float64
	ExportRateBurst int

	// Sharing
	ShareBackend   string
	ShareURLExpiry time.Duration

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// GCS
	GCSBucketName string

	// OpenRouter
	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string

	// Input limits
	MaxTextLength int
	MaxBodySize   int64
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "sumup.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           getEnv("LOG_FILE", ""),
		ExportDir:         getEnv("EXPORT_DIR", "exports"),
		ExportTimeout:     getEnvDuration("EXPORT_TIMEOUT", 30*time.Second),
		ValidatePDF:       getEnvBool("EXPORT_VALIDATE_PDF", true),
		StylePath:         getEnv("EXPORT_STYLE", ""),
		TextColumns:       getEnvInt("EXPORT_TEXT_COLUMNS", 0),
		WordsPerMinute:    getEnvInt("WORDS_PER_MINUTE", 200),
		CleanupSchedule:   getEnv("EXPORT_CLEANUP_SCHEDULE", "@hourly"),
		ExportRetention:   getEnvDuration("EXPORT_RETENTION", 24*time.Hour),
		ExportRateLimit:   getEnvFloat("EXPORT_RATE_LIMIT", 5),
		ExportRateBurst:   getEnvInt("EXPORT_RATE_BURST", 10),
		ShareBackend:      getEnv("SHARE_BACKEND", ShareLocal),
		ShareURLExpiry:    getEnvDuration("SHARE_URL_EXPIRY", 24*time.Hour),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "exports"),
		S3UseSSL:          getEnvBool("S3_USE_SSL", false),
		GCSBucketName:     getEnv("GCS_BUCKET_NAME", ""),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		MaxTextLength:     getEnvInt("MAX_TEXT_LENGTH", 100000),
		MaxBodySize:       int64(getEnvInt("MAX_BODY_SIZE", 5<<20)),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SummarizerEnabled reports whether an OpenRouter key is configured.
func (c *Config) SummarizerEnabled() bool {
	return c.OpenRouterAPIKey != ""
}

func (c *Config) validate() error {
	switch c.ShareBackend {
	case ShareLocal, ShareS3:
	case ShareGCS:
		if c.GCSBucketName == "" {
			return &ConfigError{Field: "GCS_BUCKET_NAME", Message: "required when SHARE_BACKEND is gcs"}
		}
	default:
		return &ConfigError{Field: "SHARE_BACKEND", Message: fmt.Sprintf("unknown backend %q", c.ShareBackend)}
	}

	if c.ExportDir == "" {
		return &ConfigError{Field: "EXPORT_DIR", Message: "must not be empty"}
	}
	if c.ExportRetention <= 0 {
		return &ConfigError{Field: "EXPORT_RETENTION", Message: "must be positive"}
	}
	if c.TextColumns < 0 {
		return &ConfigError{Field: "EXPORT_TEXT_COLUMNS", Message: "must not be negative"}
	}
	if c.WordsPerMinute <= 0 {
		return &ConfigError{Field: "WORDS_PER_MINUTE", Message: "must be positive"}
	}
	if c.ExportRateLimit <= 0 || c.ExportRateBurst <= 0 {
		return &ConfigError{Field: "EXPORT_RATE_LIMIT", Message: "rate and burst must be positive"}
	}
	if c.MaxTextLength <= 0 {
		return &ConfigError{Field: "MAX_TEXT_LENGTH", Message: "must be positive"}
	}
	if c.MaxBodySize <= 0 {
		return &ConfigError{Field: "MAX_BODY_SIZE", Message: "must be positive"}
	}
	if _, err := cron.ParseStandard(c.CleanupSchedule); err != nil {
		return &ConfigError{Field: "EXPORT_CLEANUP_SCHEDULE", Message: err.Error()}
	}
	return nil
}

type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
