package repository

import (
	"context"

	"prompt-server/internal/models"
)

// PromptRepository defines storage operations for prompts and their versions.
// Each method is one atomic unit of work: version lifecycle rules
// (auto-activate, clear-on-delete) commit in the same transaction as
// the row change they accompany.
type PromptRepository interface {
	Create(ctx context.Context, prompt *models.Prompt) error
	GetByID(ctx context.Context, id int64) (*models.Prompt, error)
	List(ctx context.Context, params models.PromptListParams) (*models.PromptPage, error)
	Update(ctx context.Context, id int64, upd models.PromptUpdate) (*models.Prompt, error)
	Delete(ctx context.Context, id int64) error

	AddVersion(ctx context.Context, promptID int64, version *models.PromptVersion) error
	SetActiveVersion(ctx context.Context, promptID, versionID int64) (*models.Prompt, error)
	UpdateVersion(ctx context.Context, promptID, versionID int64, upd models.PromptVersionUpdate) (*models.PromptVersion, error)
	// DeleteVersion removes a version. When it is the active one the
	// prompt's pointer is cleared, or, with promote set, moved to the
	// highest remaining version.
	DeleteVersion(ctx context.Context, promptID, versionID int64, promote bool) error
}

// ProviderRepository defines storage operations for LLM providers and
// their nested models.
type ProviderRepository interface {
	Create(ctx context.Context, provider *models.LLMProvider) error
	List(ctx context.Context) ([]*models.LLMProvider, error)
	GetByID(ctx context.Context, id int64) (*models.LLMProvider, error)
	Update(ctx context.Context, id int64, upd models.LLMProviderUpdate) (*models.LLMProvider, error)
	Delete(ctx context.Context, id int64) error

	CreateModel(ctx context.Context, providerID int64, model *models.LLMModel) error
	// DeleteModel reports ErrModelNotFound when the model exists but
	// belongs to a different provider.
	DeleteModel(ctx context.Context, providerID, modelID int64) error
	ListModelNames(ctx context.Context, providerID int64) ([]string, error)
}
