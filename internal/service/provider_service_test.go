package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prompt-server/internal/models"
)

func strPtr(s string) *string { return &s }

func TestGetProviderMasksAPIKey(t *testing.T) {
	repo := new(mockProviderRepo)
	svc := NewProviderService(repo, "http://localhost:11434", zap.NewNop())

	repo.On("GetByID", mock.Anything, int64(1)).Return(&models.LLMProvider{
		ID:     1,
		Name:   "openai",
		APIKey: strPtr("sk-verysecretkey"),
	}, nil)

	provider, err := svc.GetProvider(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, provider.APIKey)
	assert.Equal(t, "sk-v...", *provider.APIKey)
}

func TestListProvidersMasksEveryKey(t *testing.T) {
	repo := new(mockProviderRepo)
	svc := NewProviderService(repo, "http://localhost:11434", zap.NewNop())

	repo.On("List", mock.Anything).Return([]*models.LLMProvider{
		{ID: 1, Name: "openai", APIKey: strPtr("sk-verysecretkey")},
		{ID: 2, Name: "local"},
	}, nil)

	providers, err := svc.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "sk-v...", *providers[0].APIKey)
	assert.Nil(t, providers[1].APIKey, "a provider without a key stays keyless")
}

func TestResolveProfileReturnsRawCredentials(t *testing.T) {
	repo := new(mockProviderRepo)
	svc := NewProviderService(repo, "http://localhost:11434", zap.NewNop())

	repo.On("GetByID", mock.Anything, int64(5)).Return(&models.LLMProvider{
		ID:      5,
		Name:    "openai",
		APIKey:  strPtr("sk-verysecretkey"),
		BaseURL: strPtr("https://api.example.com/v1"),
	}, nil)

	profile, err := svc.ResolveProfile(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "sk-verysecretkey", profile.APIKey, "execution needs the unmasked key")
	assert.Equal(t, "https://api.example.com/v1", profile.BaseURL)
}

func TestResolveProfileMissingProviderIsIgnored(t *testing.T) {
	repo := new(mockProviderRepo)
	svc := NewProviderService(repo, "http://localhost:11434", zap.NewNop())

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, models.ErrProviderNotFound)

	profile, err := svc.ResolveProfile(context.Background(), 99)
	assert.NoError(t, err, "a vanished provider falls back to server defaults")
	assert.Nil(t, profile)
}

func TestCreateModelSetsProviderID(t *testing.T) {
	repo := new(mockProviderRepo)
	svc := NewProviderService(repo, "http://localhost:11434", zap.NewNop())

	repo.On("CreateModel", mock.Anything, int64(3), mock.MatchedBy(func(m *models.LLMModel) bool {
		return m.ProviderID == 3 && m.Name == "gpt-4o"
	})).Return(nil)

	created, err := svc.CreateModel(context.Background(), 3, &models.LLMModel{Name: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ProviderID)

	repo.AssertExpectations(t)
}

func TestSyncLocalModelsUnknownProvider(t *testing.T) {
	repo := new(mockProviderRepo)
	svc := NewProviderService(repo, "http://localhost:11434", zap.NewNop())

	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, models.ErrProviderNotFound)

	_, err := svc.SyncLocalModels(context.Background(), 404)
	assert.ErrorIs(t, err, models.ErrProviderNotFound)
}
