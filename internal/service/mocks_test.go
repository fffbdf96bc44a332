package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"prompt-server/internal/messaging"
	"prompt-server/internal/models"
)

type mockPromptRepo struct {
	mock.Mock
}

func (m *mockPromptRepo) Create(ctx context.Context, prompt *models.Prompt) error {
	args := m.Called(ctx, prompt)
	return args.Error(0)
}

func (m *mockPromptRepo) GetByID(ctx context.Context, id int64) (*models.Prompt, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Prompt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPromptRepo) List(ctx context.Context, params models.PromptListParams) (*models.PromptPage, error) {
	args := m.Called(ctx, params)
	if p := args.Get(0); p != nil {
		return p.(*models.PromptPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPromptRepo) Update(ctx context.Context, id int64, upd models.PromptUpdate) (*models.Prompt, error) {
	args := m.Called(ctx, id, upd)
	if p := args.Get(0); p != nil {
		return p.(*models.Prompt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPromptRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPromptRepo) AddVersion(ctx context.Context, promptID int64, version *models.PromptVersion) error {
	args := m.Called(ctx, promptID, version)
	return args.Error(0)
}

func (m *mockPromptRepo) SetActiveVersion(ctx context.Context, promptID, versionID int64) (*models.Prompt, error) {
	args := m.Called(ctx, promptID, versionID)
	if p := args.Get(0); p != nil {
		return p.(*models.Prompt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPromptRepo) UpdateVersion(ctx context.Context, promptID, versionID int64, upd models.PromptVersionUpdate) (*models.PromptVersion, error) {
	args := m.Called(ctx, promptID, versionID, upd)
	if v := args.Get(0); v != nil {
		return v.(*models.PromptVersion), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPromptRepo) DeleteVersion(ctx context.Context, promptID, versionID int64, promote bool) error {
	args := m.Called(ctx, promptID, versionID, promote)
	return args.Error(0)
}

type mockProviderRepo struct {
	mock.Mock
}

func (m *mockProviderRepo) Create(ctx context.Context, provider *models.LLMProvider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *mockProviderRepo) List(ctx context.Context) ([]*models.LLMProvider, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]*models.LLMProvider), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProviderRepo) GetByID(ctx context.Context, id int64) (*models.LLMProvider, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.LLMProvider), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProviderRepo) Update(ctx context.Context, id int64, upd models.LLMProviderUpdate) (*models.LLMProvider, error) {
	args := m.Called(ctx, id, upd)
	if p := args.Get(0); p != nil {
		return p.(*models.LLMProvider), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProviderRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProviderRepo) CreateModel(ctx context.Context, providerID int64, model *models.LLMModel) error {
	args := m.Called(ctx, providerID, model)
	return args.Error(0)
}

func (m *mockProviderRepo) DeleteModel(ctx context.Context, providerID, modelID int64) error {
	args := m.Called(ctx, providerID, modelID)
	return args.Error(0)
}

func (m *mockProviderRepo) ListModelNames(ctx context.Context, providerID int64) ([]string, error) {
	args := m.Called(ctx, providerID)
	if names := args.Get(0); names != nil {
		return names.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishPromptEvent(ctx context.Context, event messaging.PromptEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
