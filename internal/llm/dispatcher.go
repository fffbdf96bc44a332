package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"prompt-server/internal/models"
)

// ollamaTimeout bounds local generation requests.
const ollamaTimeout = 60 * time.Second

const defaultTemperature = 0.7

// Defaults holds the process-wide fallbacks the dispatcher uses when a
// call carries no provider profile. It is immutable after construction
// so Execute calls stay testable without environment coupling.
type Defaults struct {
	OpenAIAPIKey  string
	GeminiAPIKey  string
	OllamaBaseURL string
	CloudTimeout  time.Duration // finite bound for the cloud adapters
}

// Profile is the credential/endpoint pair resolved from a stored
// provider for one Execute call. It overrides Defaults field by field.
type Profile struct {
	APIKey  string
	BaseURL string
}

// Dispatcher routes execution calls to one of the supported backend
// families and normalizes their results and failures. It holds no
// mutable state; every call builds its own transient client.
type Dispatcher struct {
	defaults Defaults
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher with the given process-wide defaults.
func NewDispatcher(defaults Defaults, logger *zap.Logger) *Dispatcher {
	if defaults.OllamaBaseURL == "" {
		defaults.OllamaBaseURL = "http://localhost:11434"
	}
	if defaults.CloudTimeout <= 0 {
		defaults.CloudTimeout = 120 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		defaults: defaults,
		logger:   logger.Named("Dispatcher"),
	}
}

// Execute renders one prompt against the requested provider family and
// returns the generated text. The family is matched case-insensitively
// by substring; unknown families fail with ErrUnsupportedProvider.
func (d *Dispatcher) Execute(ctx context.Context, family, model, prompt string, config map[string]interface{}, profile *Profile) (string, error) {
	normalized := strings.ToLower(family)

	var provider string
	var run func(context.Context, string, string, map[string]interface{}, *Profile) (string, error)
	switch {
	case strings.Contains(normalized, "openai"):
		provider, run = "openai", d.runOpenAI
	case strings.Contains(normalized, "gemini"):
		provider, run = "gemini", d.runGemini
	case strings.Contains(normalized, "ollama"):
		provider, run = "ollama", d.runOllama
	default:
		return "", fmt.Errorf("%w: %s", models.ErrUnsupportedProvider, family)
	}

	start := time.Now()
	text, err := run(ctx, model, prompt, config, profile)
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	llmRequestsTotal.With(prometheus.Labels{"provider": provider, "status": status}).Inc()
	llmRequestDuration.With(prometheus.Labels{"provider": provider}).Observe(duration.Seconds())

	if err != nil {
		d.logger.Warn("LLM request failed",
			zap.String("provider", provider),
			zap.String("model", model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return "", err
	}

	d.logger.Info("LLM request completed",
		zap.String("provider", provider),
		zap.String("model", model),
		zap.Duration("duration", duration),
		zap.Int("responseLen", len(text)),
	)
	return text, nil
}

// resolveKey picks the per-call credential over the process default.
func resolveKey(profile *Profile, fallback string) string {
	if profile != nil && profile.APIKey != "" {
		return profile.APIKey
	}
	return fallback
}

// temperatureFromConfig reads config["temperature"], defaulting to 0.7.
// JSON decoding may deliver the value as float64 or json.Number.
func temperatureFromConfig(config map[string]interface{}) float64 {
	raw, ok := config["temperature"]
	if !ok {
		return defaultTemperature
	}
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return defaultTemperature
}
