package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"prompt-server/internal/models"
)

const providerFields = `id, name, api_key, base_url, is_active, created_at`
const modelFields = `id, provider_id, name, capabilities`

type PgProviderRepository struct {
	db *pgxpool.Pool
}

func NewPgProviderRepository(db *pgxpool.Pool) *PgProviderRepository {
	if db == nil {
		log.Fatal().Msg("Database pool is nil for PgProviderRepository")
	}
	return &PgProviderRepository{db: db}
}

func (r *PgProviderRepository) Create(ctx context.Context, provider *models.LLMProvider) error {
	query := `INSERT INTO llm_providers (name, api_key, base_url, is_active) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, provider.Name, provider.APIKey, provider.BaseURL, provider.IsActive).Scan(
		&provider.ID, &provider.CreatedAt)
	if err != nil {
		log.Error().Err(err).Str("name", provider.Name).Msg("Failed to create provider")
		return fmt.Errorf("failed to create provider: %w", err)
	}
	provider.Models = []*models.LLMModel{}
	log.Info().Str("name", provider.Name).Int64("id", provider.ID).Msg("Provider created")
	return nil
}

func (r *PgProviderRepository) List(ctx context.Context) ([]*models.LLMProvider, error) {
	query := fmt.Sprintf(`SELECT %s FROM llm_providers ORDER BY name, id`, providerFields)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list providers")
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	defer rows.Close()

	providers := make([]*models.LLMProvider, 0)
	byID := make(map[int64]*models.LLMProvider)
	for rows.Next() {
		var p models.LLMProvider
		if err := rows.Scan(&p.ID, &p.Name, &p.APIKey, &p.BaseURL, &p.IsActive, &p.CreatedAt); err != nil {
			log.Error().Err(err).Msg("Failed to scan provider row")
			return nil, fmt.Errorf("failed to scan provider row: %w", err)
		}
		p.Models = []*models.LLMModel{}
		providers = append(providers, &p)
		byID[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for providers: %w", err)
	}
	if len(providers) == 0 {
		return providers, nil
	}

	modelRows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT %s FROM llm_models ORDER BY provider_id, name`, modelFields))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list models")
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer modelRows.Close()

	for modelRows.Next() {
		var m models.LLMModel
		if err := modelRows.Scan(&m.ID, &m.ProviderID, &m.Name, &m.Capabilities); err != nil {
			return nil, fmt.Errorf("failed to scan model row: %w", err)
		}
		if p, ok := byID[m.ProviderID]; ok {
			p.Models = append(p.Models, &m)
		}
	}
	if err := modelRows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for models: %w", err)
	}

	return providers, nil
}

func (r *PgProviderRepository) GetByID(ctx context.Context, id int64) (*models.LLMProvider, error) {
	query := fmt.Sprintf(`SELECT %s FROM llm_providers WHERE id = $1`, providerFields)
	var p models.LLMProvider
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.APIKey, &p.BaseURL, &p.IsActive, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrProviderNotFound
		}
		log.Error().Err(err).Int64("id", id).Msg("Failed to get provider by ID")
		return nil, fmt.Errorf("failed to get provider by ID %d: %w", id, err)
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT %s FROM llm_models WHERE provider_id = $1 ORDER BY name`, modelFields), id)
	if err != nil {
		return nil, fmt.Errorf("failed to list models for provider %d: %w", id, err)
	}
	defer rows.Close()

	p.Models = make([]*models.LLMModel, 0)
	for rows.Next() {
		var m models.LLMModel
		if err := rows.Scan(&m.ID, &m.ProviderID, &m.Name, &m.Capabilities); err != nil {
			return nil, fmt.Errorf("failed to scan model row: %w", err)
		}
		p.Models = append(p.Models, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for models: %w", err)
	}
	return &p, nil
}

func (r *PgProviderRepository) Update(ctx context.Context, id int64, upd models.LLMProviderUpdate) (*models.LLMProvider, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	sets := []string{}
	args := []interface{}{}
	paramCount := 1

	if upd.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", paramCount))
		args = append(args, *upd.Name)
		paramCount++
	}
	if upd.APIKey != nil {
		sets = append(sets, fmt.Sprintf("api_key = $%d", paramCount))
		args = append(args, *upd.APIKey)
		paramCount++
	}
	if upd.BaseURL != nil {
		sets = append(sets, fmt.Sprintf("base_url = $%d", paramCount))
		args = append(args, *upd.BaseURL)
		paramCount++
	}
	if upd.IsActive != nil {
		sets = append(sets, fmt.Sprintf("is_active = $%d", paramCount))
		args = append(args, *upd.IsActive)
		paramCount++
	}

	query := fmt.Sprintf(`UPDATE llm_providers SET %s WHERE id = $%d`, strings.Join(sets, ", "), paramCount)
	args = append(args, id)

	commandTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Failed to update provider")
		return nil, fmt.Errorf("failed to update provider %d: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		return nil, models.ErrProviderNotFound
	}
	log.Info().Int64("id", id).Msg("Provider updated")
	return r.GetByID(ctx, id)
}

func (r *PgProviderRepository) Delete(ctx context.Context, id int64) error {
	// Models go with the provider via ON DELETE CASCADE.
	commandTag, err := r.db.Exec(ctx, `DELETE FROM llm_providers WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Failed to delete provider")
		return fmt.Errorf("failed to delete provider %d: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrProviderNotFound
	}
	log.Info().Int64("id", id).Msg("Provider deleted")
	return nil
}

func (r *PgProviderRepository) CreateModel(ctx context.Context, providerID int64, model *models.LLMModel) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM llm_providers WHERE id = $1)`, providerID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check provider %d: %w", providerID, err)
	}
	if !exists {
		return models.ErrProviderNotFound
	}

	query := `INSERT INTO llm_models (provider_id, name, capabilities) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRow(ctx, query, providerID, model.Name, model.Capabilities).Scan(&model.ID); err != nil {
		log.Error().Err(err).Int64("providerID", providerID).Str("name", model.Name).Msg("Failed to create model")
		return fmt.Errorf("failed to create model: %w", err)
	}
	model.ProviderID = providerID
	log.Info().Int64("providerID", providerID).Int64("id", model.ID).Str("name", model.Name).Msg("Model created")
	return nil
}

func (r *PgProviderRepository) DeleteModel(ctx context.Context, providerID, modelID int64) error {
	// The provider id is part of the predicate: a model reached through
	// the wrong provider is reported as not found.
	commandTag, err := r.db.Exec(ctx, `DELETE FROM llm_models WHERE id = $1 AND provider_id = $2`, modelID, providerID)
	if err != nil {
		log.Error().Err(err).Int64("providerID", providerID).Int64("modelID", modelID).Msg("Failed to delete model")
		return fmt.Errorf("failed to delete model %d: %w", modelID, err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrModelNotFound
	}
	log.Info().Int64("providerID", providerID).Int64("modelID", modelID).Msg("Model deleted")
	return nil
}

func (r *PgProviderRepository) ListModelNames(ctx context.Context, providerID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM llm_models WHERE provider_id = $1 ORDER BY name`, providerID)
	if err != nil {
		log.Error().Err(err).Int64("providerID", providerID).Msg("Failed to list model names")
		return nil, fmt.Errorf("failed to list model names for provider %d: %w", providerID, err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan model name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for model names: %w", err)
	}
	return names, nil
}
