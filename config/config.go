// Package config loads relay settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"

	mentor "github.com/ncecere/mymentor"
	"github.com/ncecere/mymentor/groq"
)

// DefaultEnvFile is read when no other file is named.
const DefaultEnvFile = ".env"

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

// Config holds all configuration for the relay.
type Config struct {
	// Provider selects the completion API ("openai" or "groq").
	Provider string
	// APIKey is the credential for the completion API. Required.
	APIKey string
	// BaseURL overrides the provider's API root. Empty means provider default.
	BaseURL string
	// Model is the chat model identifier, fixed for the process lifetime.
	Model string
	// Organization is sent as the OpenAI-Organization header when set.
	Organization string

	// Addr is the address the HTTP server listens on (e.g. ":8000").
	Addr string
	// AllowOrigins is the comma separated CORS origin list.
	AllowOrigins string
	// MetricsEnabled exposes GET /metrics.
	MetricsEnabled bool

	// UpstreamTimeout bounds each completion API round trip. Zero means none.
	UpstreamTimeout time.Duration
	// CallSettings holds optional sampling settings; nil when none are set.
	CallSettings *mentor.CallSettings

	LogLevel  string
	LogFormat string
}

// Load creates a Config from the environment and envFile.
// Values are resolved in order: environment variable > env file > default.
// A missing env file is not an error. Load does not validate; call
// Validate before using the result.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	fileVals, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", envFile, err)
		}
		fileVals = map[string]string{}
	}
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileVals[key]
	}
	or := func(key, fallback string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Provider:     strings.ToLower(or("MENTOR_PROVIDER", ProviderOpenAI)),
		Addr:         or("MENTOR_ADDR", addrFromPort(lookup("PORT"))),
		AllowOrigins: or("MENTOR_ALLOW_ORIGINS", "*"),
		LogLevel:     or("MENTOR_LOG_LEVEL", "info"),
		LogFormat:    or("MENTOR_LOG_FORMAT", "text"),
	}

	switch cfg.Provider {
	case ProviderGroq:
		cfg.APIKey = lookup("GROQ_API_KEY")
		cfg.BaseURL = lookup("GROQ_BASE_URL")
		cfg.Model = or("MENTOR_MODEL", groq.DefaultModel)
	default:
		cfg.APIKey = lookup("OPENAI_API_KEY")
		cfg.BaseURL = lookup("OPENAI_BASE_URL")
		cfg.Organization = lookup("OPENAI_ORGANIZATION")
		cfg.Model = or("MENTOR_MODEL", mentor.DefaultModel)
	}

	if cfg.MetricsEnabled, err = parseBool("MENTOR_METRICS", or("MENTOR_METRICS", "true")); err != nil {
		return nil, err
	}
	if v := lookup("MENTOR_UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MENTOR_UPSTREAM_TIMEOUT: %w", err)
		}
		cfg.UpstreamTimeout = d
	}

	var temperature *float64
	if v := lookup("MENTOR_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("MENTOR_TEMPERATURE: %w", err)
		}
		temperature = &f
	}
	var topP *float64
	if v := lookup("MENTOR_TOP_P"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("MENTOR_TOP_P: %w", err)
		}
		topP = &f
	}
	var maxTokens *int
	if v := lookup("MENTOR_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MENTOR_MAX_TOKENS: %w", err)
		}
		maxTokens = &n
	}
	settings, err := mentor.NewCallSettings(temperature, topP, maxTokens, splitList(lookup("MENTOR_STOP")))
	if err != nil {
		return nil, err
	}
	if !settings.IsZero() {
		cfg.CallSettings = settings
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	case ProviderGroq:
		if c.APIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required")
		}
	default:
		return fmt.Errorf("unsupported MENTOR_PROVIDER %q (want %s or %s)", c.Provider, ProviderOpenAI, ProviderGroq)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("MENTOR_LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("MENTOR_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("MENTOR_UPSTREAM_TIMEOUT must not be negative")
	}
	return nil
}

func addrFromPort(port string) string {
	if port == "" {
		return ":8000"
	}
	return ":" + port
}

// splitList splits a comma separated value, dropping blank entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(key, v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
