package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"prompt-server/internal/models"
)

// runOpenAI sends the prompt as a single-turn chat completion. The
// credential comes from the call profile or the process default; the
// base URL override lets a stored provider target compatible gateways.
func (d *Dispatcher) runOpenAI(ctx context.Context, model, prompt string, config map[string]interface{}, profile *Profile) (string, error) {
	apiKey := resolveKey(profile, d.defaults.OpenAIAPIKey)
	if apiKey == "" {
		return "", fmt.Errorf("%w: OpenAI", models.ErrAPIKeyMissing)
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if profile != nil && profile.BaseURL != "" {
		clientConfig.BaseURL = profile.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: d.defaults.CloudTimeout}
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(temperatureFromConfig(config)),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: openai: %s", models.ErrUpstreamBadRequest, apiErr.Message)
		}
		return "", fmt.Errorf("%w: openai: %v", models.ErrUpstreamUnreachable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", models.ErrUpstreamBadRequest)
	}
	return resp.Choices[0].Message.Content, nil
}
