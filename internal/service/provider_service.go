package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"prompt-server/internal/llm"
	"prompt-server/internal/models"
	"prompt-server/internal/repository"
	"prompt-server/internal/utils"
)

const syncTimeout = 30 * time.Second

// ProviderService manages provider and model registrations. API keys are
// write-only: they are stored raw but masked in everything the service
// returns. Execute resolves the raw key through ResolveProfile instead.
type ProviderService struct {
	repo          repository.ProviderRepository
	ollamaBaseURL string
	logger        *zap.Logger
}

func NewProviderService(repo repository.ProviderRepository, ollamaBaseURL string, logger *zap.Logger) *ProviderService {
	return &ProviderService{
		repo:          repo,
		ollamaBaseURL: ollamaBaseURL,
		logger:        logger.Named("ProviderService"),
	}
}

func (s *ProviderService) CreateProvider(ctx context.Context, provider *models.LLMProvider) (*models.LLMProvider, error) {
	if err := s.repo.Create(ctx, provider); err != nil {
		return nil, err
	}
	return maskProvider(provider), nil
}

func (s *ProviderService) ListProviders(ctx context.Context) ([]*models.LLMProvider, error) {
	providers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range providers {
		maskProvider(p)
	}
	return providers, nil
}

func (s *ProviderService) GetProvider(ctx context.Context, id int64) (*models.LLMProvider, error) {
	provider, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return maskProvider(provider), nil
}

func (s *ProviderService) UpdateProvider(ctx context.Context, id int64, upd models.LLMProviderUpdate) (*models.LLMProvider, error) {
	provider, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	return maskProvider(provider), nil
}

func (s *ProviderService) DeleteProvider(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *ProviderService) CreateModel(ctx context.Context, providerID int64, model *models.LLMModel) (*models.LLMModel, error) {
	model.ProviderID = providerID
	if err := s.repo.CreateModel(ctx, providerID, model); err != nil {
		return nil, err
	}
	return model, nil
}

func (s *ProviderService) DeleteModel(ctx context.Context, providerID, modelID int64) error {
	return s.repo.DeleteModel(ctx, providerID, modelID)
}

// ResolveProfile loads raw connection settings for an execute call.
// A missing provider is not an error: execution falls back to the
// server-wide defaults, so (nil, nil) is returned.
func (s *ProviderService) ResolveProfile(ctx context.Context, providerID int64) (*llm.Profile, error) {
	provider, err := s.repo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, models.ErrProviderNotFound) {
			return nil, nil
		}
		return nil, err
	}
	profile := &llm.Profile{}
	if provider.APIKey != nil {
		profile.APIKey = *provider.APIKey
	}
	if provider.BaseURL != nil {
		profile.BaseURL = *provider.BaseURL
	}
	return profile, nil
}

// SyncLocalModels pulls the model list from the provider's Ollama server
// and registers names not seen before. Returns the provider with its
// refreshed model list.
func (s *ProviderService) SyncLocalModels(ctx context.Context, providerID int64) (*models.LLMProvider, error) {
	provider, err := s.repo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	base := s.ollamaBaseURL
	if provider.BaseURL != nil && *provider.BaseURL != "" {
		base = *provider.BaseURL
	}
	base = strings.TrimSuffix(base, "/")

	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q", models.ErrInvalidInput, base)
	}

	client := ollama.NewClient(parsed, &http.Client{Timeout: syncTimeout})
	listed, err := client.List(ctx)
	if err != nil {
		s.logger.Warn("Ollama model listing failed", zap.String("baseURL", base), zap.Error(err))
		return nil, fmt.Errorf("%w: could not list models from Ollama at %s: %v", models.ErrUpstreamUnreachable, base, err)
	}

	known, err := s.repo.ListModelNames(ctx, providerID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(known))
	for _, name := range known {
		seen[name] = struct{}{}
	}

	added := 0
	for _, m := range listed.Models {
		if _, ok := seen[m.Name]; ok {
			continue
		}
		model := &models.LLMModel{ProviderID: providerID, Name: m.Name}
		if err := s.repo.CreateModel(ctx, providerID, model); err != nil {
			return nil, err
		}
		added++
	}
	s.logger.Info("Synced local models",
		zap.Int64("providerID", providerID),
		zap.Int("discovered", len(listed.Models)),
		zap.Int("added", added),
	)

	return s.GetProvider(ctx, providerID)
}

func maskProvider(p *models.LLMProvider) *models.LLMProvider {
	if p.APIKey != nil {
		masked := utils.MaskSecret(*p.APIKey)
		p.APIKey = &masked
	}
	return p
}
