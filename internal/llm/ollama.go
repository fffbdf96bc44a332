package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"prompt-server/internal/models"
)

// runOllama posts a generation request to the local inference server.
// All of config is merged verbatim into the payload, so callers can set
// native options (and even override stream, at their own risk).
func (d *Dispatcher) runOllama(ctx context.Context, model, prompt string, config map[string]interface{}, profile *Profile) (string, error) {
	baseURL := d.defaults.OllamaBaseURL
	if profile != nil && profile.BaseURL != "" {
		baseURL = profile.BaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	url := baseURL + "/api/generate"

	payload := map[string]interface{}{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}
	for k, v := range config {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal ollama payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: ollamaTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: could not connect to Ollama at %s: %v", models.ErrUpstreamUnreachable, baseURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ollama response: %w", err)
	}

	if resp.StatusCode == http.StatusBadRequest {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(respBody, &errBody)
		if isEmbeddingModel(model) {
			return "", fmt.Errorf("%w: model %q appears to be an embedding model, use a chat/generation model like \"llama3\"", models.ErrWrongModelKind, model)
		}
		return "", fmt.Errorf("%w: ollama 400 bad request: %s", models.ErrUpstreamBadRequest, errBody.Error)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: ollama returned status %d", models.ErrUpstreamBadRequest, resp.StatusCode)
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}
	return result.Response, nil
}

// isEmbeddingModel recognizes model names that belong to embedding
// families and cannot serve generation requests.
func isEmbeddingModel(model string) bool {
	lower := strings.ToLower(model)
	return strings.Contains(lower, "embed") || strings.Contains(lower, "nomic")
}
