// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Feedback schema variants. The variant is fixed per deployment; it is never
// switched per request or per credential attempt.
const (
	FeedbackSchemaStructured = "structured"
	FeedbackSchemaLines      = "lines"
)

// Persistence modes for the record store.
const (
	PersistModeReplace = "replace"
	PersistModeAppend  = "append"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// Gemini credential slots; empty slots are skipped by the fallback loop.
	GeminiAPIKey1 string `env:"GEMINI_API_KEY_1"`
	GeminiAPIKey2 string `env:"GEMINI_API_KEY_2"`
	GeminiAPIKey3 string `env:"GEMINI_API_KEY_3"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	// FeedbackSchema selects how provider output is parsed: structured | lines.
	FeedbackSchema  string        `env:"FEEDBACK_SCHEMA" envDefault:"structured"`
	GenerateTimeout time.Duration `env:"GENERATE_TIMEOUT" envDefault:"8s"`

	FirebaseDBURL  string        `env:"FIREBASE_DB_URL"`
	FirebaseNode   string        `env:"FIREBASE_NODE" envDefault:"ikigai/assessment-result"`
	PersistMode    string        `env:"PERSIST_MODE" envDefault:"replace"`
	PersistTimeout time.Duration `env:"PERSIST_TIMEOUT" envDefault:"8s"`

	QuestionsFile string `env:"QUESTIONS_FILE" envDefault:"ikigai_questions.json"`

	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"ikigai-api"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown enum values early so a misconfigured deployment
// fails at startup rather than on the first request.
func (c Config) Validate() error {
	switch c.FeedbackSchema {
	case FeedbackSchemaStructured, FeedbackSchemaLines:
	default:
		return fmt.Errorf("op=config.Validate: unknown FEEDBACK_SCHEMA %q", c.FeedbackSchema)
	}
	switch c.PersistMode {
	case PersistModeReplace, PersistModeAppend:
	default:
		return fmt.Errorf("op=config.Validate: unknown PERSIST_MODE %q", c.PersistMode)
	}
	return nil
}

// GeminiAPIKeys returns the ordered credential slots, including empty ones so
// slot indices stay stable for logging and metrics.
func (c Config) GeminiAPIKeys() []string {
	return []string{c.GeminiAPIKey1, c.GeminiAPIKey2, c.GeminiAPIKey3}
}

// PersistEnabled reports whether a record store is configured.
func (c Config) PersistEnabled() bool { return c.FirebaseDBURL != "" }

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }
