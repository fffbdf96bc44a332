package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-server/internal/models"
)

func TestExecuteUnsupportedProvider(t *testing.T) {
	d := NewDispatcher(Defaults{}, nil)

	_, err := d.Execute(context.Background(), "anthropic", "claude", "hello", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnsupportedProvider)
	assert.Contains(t, err.Error(), "anthropic")
}

func TestExecuteFamilyMatchingIsFuzzy(t *testing.T) {
	d := NewDispatcher(Defaults{}, nil)

	// Family names are matched case-insensitively by substring, so
	// variants like "OpenAI GPT-4" still route to the right adapter.
	// With no API key configured the call must fail before any network
	// activity.
	_, err := d.Execute(context.Background(), "OpenAI GPT-4", "gpt-4", "hello", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAPIKeyMissing)

	_, err = d.Execute(context.Background(), "Google Gemini", "gemini-pro", "hello", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAPIKeyMissing)
}

func TestExecuteProfileKeyOverridesDefault(t *testing.T) {
	d := NewDispatcher(Defaults{OpenAIAPIKey: "default-key"}, nil)

	assert.Equal(t, "profile-key", resolveKey(&Profile{APIKey: "profile-key"}, d.defaults.OpenAIAPIKey))
	assert.Equal(t, "default-key", resolveKey(&Profile{}, d.defaults.OpenAIAPIKey))
	assert.Equal(t, "default-key", resolveKey(nil, d.defaults.OpenAIAPIKey))
}

func TestNewDispatcherDefaults(t *testing.T) {
	d := NewDispatcher(Defaults{}, nil)
	assert.Equal(t, "http://localhost:11434", d.defaults.OllamaBaseURL)
	assert.NotZero(t, d.defaults.CloudTimeout)
}

func TestTemperatureFromConfig(t *testing.T) {
	assert.Equal(t, 0.7, temperatureFromConfig(nil), "missing config should fall back to the default")
	assert.Equal(t, 0.7, temperatureFromConfig(map[string]interface{}{}), "missing key should fall back to the default")
	assert.Equal(t, 0.2, temperatureFromConfig(map[string]interface{}{"temperature": 0.2}))
	assert.Equal(t, 1.0, temperatureFromConfig(map[string]interface{}{"temperature": 1}))
	assert.Equal(t, 0.5, temperatureFromConfig(map[string]interface{}{"temperature": json.Number("0.5")}))
	assert.Equal(t, 0.7, temperatureFromConfig(map[string]interface{}{"temperature": "hot"}), "unparseable value should fall back to the default")
}
