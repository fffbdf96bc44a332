package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"prompt-server/internal/models"
)

// runGemini issues a single-turn generation call. No per-call config
// parameters are applied on this path; the model defaults apply.
func (d *Dispatcher) runGemini(ctx context.Context, model, prompt string, _ map[string]interface{}, profile *Profile) (string, error) {
	apiKey := resolveKey(profile, d.defaults.GeminiAPIKey)
	if apiKey == "" {
		return "", fmt.Errorf("%w: Gemini", models.ErrAPIKeyMissing)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: d.defaults.CloudTimeout},
	})
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", models.ErrUpstreamUnreachable, err)
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", models.ErrUpstreamBadRequest, err)
	}
	return resp.Text(), nil
}
