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

const promptFields = `id, name, description, tags, active_version_id, created_at, updated_at`
const versionFields = `id, prompt_id, version_number, template, input_variables, model_config_json, commit_message, created_at`

// promptSortColumns is the fixed map from accepted sort names to
// columns. Unknown names fall back to created_at.
var promptSortColumns = map[string]string{
	"name":        "name",
	"description": "description",
	"created_at":  "created_at",
	"updated_at":  "updated_at",
}

type PgPromptRepository struct {
	db *pgxpool.Pool
}

func NewPgPromptRepository(db *pgxpool.Pool) *PgPromptRepository {
	if db == nil {
		log.Fatal().Msg("Database pool is nil for PgPromptRepository")
	}
	return &PgPromptRepository{db: db}
}

func (r *PgPromptRepository) Create(ctx context.Context, prompt *models.Prompt) error {
	query := `INSERT INTO prompts (name, description, tags) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, prompt.Name, prompt.Description, prompt.Tags).Scan(
		&prompt.ID, &prompt.CreatedAt, &prompt.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Str("name", prompt.Name).Msg("Failed to create prompt")
		return fmt.Errorf("failed to create prompt: %w", err)
	}
	prompt.Versions = []*models.PromptVersion{}
	log.Info().Str("name", prompt.Name).Int64("id", prompt.ID).Msg("Prompt created")
	return nil
}

func (r *PgPromptRepository) GetByID(ctx context.Context, id int64) (*models.Prompt, error) {
	query := fmt.Sprintf(`SELECT %s FROM prompts WHERE id = $1`, promptFields)
	var p models.Prompt
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Tags, &p.ActiveVersionID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPromptNotFound
		}
		log.Error().Err(err).Int64("id", id).Msg("Failed to get prompt by ID")
		return nil, fmt.Errorf("failed to get prompt by ID %d: %w", id, err)
	}

	versions, err := r.listVersions(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Versions = versions
	return &p, nil
}

func (r *PgPromptRepository) listVersions(ctx context.Context, promptID int64) ([]*models.PromptVersion, error) {
	query := fmt.Sprintf(`SELECT %s FROM prompt_versions WHERE prompt_id = $1 ORDER BY version_number DESC, id DESC`, versionFields)
	rows, err := r.db.Query(ctx, query, promptID)
	if err != nil {
		log.Error().Err(err).Int64("promptID", promptID).Msg("Failed to list prompt versions")
		return nil, fmt.Errorf("failed to list versions for prompt %d: %w", promptID, err)
	}
	defer rows.Close()

	versions := make([]*models.PromptVersion, 0)
	for rows.Next() {
		var v models.PromptVersion
		if err := rows.Scan(
			&v.ID, &v.PromptID, &v.VersionNumber, &v.Template,
			&v.InputVariables, &v.ModelConfigJSON, &v.CommitMessage, &v.CreatedAt,
		); err != nil {
			log.Error().Err(err).Int64("promptID", promptID).Msg("Failed to scan version row")
			return nil, fmt.Errorf("failed to scan version row: %w", err)
		}
		versions = append(versions, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for versions: %w", err)
	}
	return versions, nil
}

func (r *PgPromptRepository) List(ctx context.Context, params models.PromptListParams) (*models.PromptPage, error) {
	var args []interface{}
	where := ""
	if params.Search != "" {
		where = " WHERE (name ILIKE $1 OR description ILIKE $1)"
		args = append(args, "%"+params.Search+"%")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM prompts` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error().Err(err).Str("search", params.Search).Msg("Failed to count prompts")
		return nil, fmt.Errorf("failed to count prompts: %w", err)
	}

	column, ok := promptSortColumns[params.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(params.Order, "asc") {
		direction = "ASC"
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM prompts`, promptFields))
	queryBuilder.WriteString(where)
	// Secondary id ordering keeps pages stable for equal sort values.
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s, id %s", column, direction, direction))
	queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2))
	args = append(args, params.Offset, params.Limit)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		log.Error().Err(err).Str("search", params.Search).Msg("Failed to list prompts")
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Prompt, 0)
	for rows.Next() {
		var p models.Prompt
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Tags, &p.ActiveVersionID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			log.Error().Err(err).Msg("Failed to scan prompt row")
			return nil, fmt.Errorf("failed to scan prompt row: %w", err)
		}
		items = append(items, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for list prompts: %w", err)
	}

	if err := r.attachVersions(ctx, items); err != nil {
		return nil, err
	}

	page := 1
	if params.Limit > 0 {
		page = params.Offset/params.Limit + 1
	}
	return &models.PromptPage{Items: items, Total: total, Page: page, Size: params.Limit}, nil
}

// attachVersions loads the versions of all given prompts in one query.
func (r *PgPromptRepository) attachVersions(ctx context.Context, prompts []*models.Prompt) error {
	if len(prompts) == 0 {
		return nil
	}

	ids := make([]int64, len(prompts))
	byID := make(map[int64]*models.Prompt, len(prompts))
	for i, p := range prompts {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Versions = []*models.PromptVersion{}
	}

	query := fmt.Sprintf(`SELECT %s FROM prompt_versions WHERE prompt_id = ANY($1) ORDER BY version_number DESC, id DESC`, versionFields)
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load versions for prompt list")
		return fmt.Errorf("failed to load versions for prompt list: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v models.PromptVersion
		if err := rows.Scan(
			&v.ID, &v.PromptID, &v.VersionNumber, &v.Template,
			&v.InputVariables, &v.ModelConfigJSON, &v.CommitMessage, &v.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan version row: %w", err)
		}
		if p, ok := byID[v.PromptID]; ok {
			p.Versions = append(p.Versions, &v)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error during rows iteration for list versions: %w", err)
	}
	return nil
}

func (r *PgPromptRepository) Update(ctx context.Context, id int64, upd models.PromptUpdate) (*models.Prompt, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	sets := []string{}
	args := []interface{}{}
	paramCount := 1

	// Present fields are applied in a fixed order; absent ones keep
	// their previous values.
	if upd.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", paramCount))
		args = append(args, *upd.Name)
		paramCount++
	}
	if upd.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", paramCount))
		args = append(args, *upd.Description)
		paramCount++
	}
	if upd.Tags != nil {
		sets = append(sets, fmt.Sprintf("tags = $%d", paramCount))
		args = append(args, *upd.Tags)
		paramCount++
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE prompts SET %s WHERE id = $%d`, strings.Join(sets, ", "), paramCount)
	args = append(args, id)

	commandTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Failed to update prompt")
		return nil, fmt.Errorf("failed to update prompt %d: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		return nil, models.ErrPromptNotFound
	}
	log.Info().Int64("id", id).Msg("Prompt updated")
	return r.GetByID(ctx, id)
}

func (r *PgPromptRepository) Delete(ctx context.Context, id int64) error {
	// Versions go with the prompt via ON DELETE CASCADE.
	commandTag, err := r.db.Exec(ctx, `DELETE FROM prompts WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Failed to delete prompt")
		return fmt.Errorf("failed to delete prompt %d: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrPromptNotFound
	}
	log.Info().Int64("id", id).Msg("Prompt deleted")
	return nil
}

// AddVersion inserts a version and, when the prompt has no active
// version yet, activates the new one in the same transaction. The
// caller's version_number is honored; when none is given the next
// number (MAX+1) is assigned under the prompt row lock.
func (r *PgPromptRepository) AddVersion(ctx context.Context, promptID int64, version *models.PromptVersion) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var activeVersionID *int64
	err = tx.QueryRow(ctx, `SELECT active_version_id FROM prompts WHERE id = $1 FOR UPDATE`, promptID).Scan(&activeVersionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrPromptNotFound
		}
		log.Error().Err(err).Int64("promptID", promptID).Msg("Failed to lock prompt for version insert")
		return fmt.Errorf("failed to lock prompt %d: %w", promptID, err)
	}

	if version.VersionNumber <= 0 {
		err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(version_number), 0) + 1 FROM prompt_versions WHERE prompt_id = $1`, promptID).Scan(&version.VersionNumber)
		if err != nil {
			return fmt.Errorf("failed to compute next version number for prompt %d: %w", promptID, err)
		}
	}

	insertQuery := `INSERT INTO prompt_versions (prompt_id, version_number, template, input_variables, model_config_json, commit_message)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err = tx.QueryRow(ctx, insertQuery,
		promptID, version.VersionNumber, version.Template,
		version.InputVariables, version.ModelConfigJSON, version.CommitMessage,
	).Scan(&version.ID, &version.CreatedAt)
	if err != nil {
		log.Error().Err(err).Int64("promptID", promptID).Msg("Failed to insert prompt version")
		return fmt.Errorf("failed to insert version for prompt %d: %w", promptID, err)
	}
	version.PromptID = promptID

	if activeVersionID == nil {
		if _, err := tx.Exec(ctx, `UPDATE prompts SET active_version_id = $1, updated_at = NOW() WHERE id = $2`, version.ID, promptID); err != nil {
			log.Error().Err(err).Int64("promptID", promptID).Int64("versionID", version.ID).Msg("Failed to auto-activate first version")
			return fmt.Errorf("failed to activate first version: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit version insert: %w", err)
	}
	log.Info().Int64("promptID", promptID).Int64("versionID", version.ID).Int("versionNumber", version.VersionNumber).Msg("Prompt version created")
	return nil
}

// SetActiveVersion points the prompt at the given version after
// checking, inside the transaction, that the version belongs to it.
func (r *PgPromptRepository) SetActiveVersion(ctx context.Context, promptID, versionID int64) (*models.Prompt, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM prompts WHERE id = $1)`, promptID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check prompt %d: %w", promptID, err)
	}
	if !exists {
		return nil, models.ErrPromptNotFound
	}

	var owner int64
	err = tx.QueryRow(ctx, `SELECT prompt_id FROM prompt_versions WHERE id = $1`, versionID).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrVersionNotFound
		}
		return nil, fmt.Errorf("failed to check version %d: %w", versionID, err)
	}
	if owner != promptID {
		// A version reached through the wrong prompt is not found.
		return nil, models.ErrVersionNotFound
	}

	if _, err := tx.Exec(ctx, `UPDATE prompts SET active_version_id = $1, updated_at = NOW() WHERE id = $2`, versionID, promptID); err != nil {
		log.Error().Err(err).Int64("promptID", promptID).Int64("versionID", versionID).Msg("Failed to set active version")
		return nil, fmt.Errorf("failed to set active version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit set-active: %w", err)
	}
	log.Info().Int64("promptID", promptID).Int64("versionID", versionID).Msg("Active version set")
	return r.GetByID(ctx, promptID)
}

func (r *PgPromptRepository) UpdateVersion(ctx context.Context, promptID, versionID int64, upd models.PromptVersionUpdate) (*models.PromptVersion, error) {
	if upd.IsEmpty() {
		return r.getVersion(ctx, promptID, versionID)
	}

	sets := []string{}
	args := []interface{}{}
	paramCount := 1

	if upd.Template != nil {
		sets = append(sets, fmt.Sprintf("template = $%d", paramCount))
		args = append(args, *upd.Template)
		paramCount++
	}
	if upd.InputVariables != nil {
		sets = append(sets, fmt.Sprintf("input_variables = $%d", paramCount))
		args = append(args, *upd.InputVariables)
		paramCount++
	}
	if upd.ModelConfigJSON != nil {
		sets = append(sets, fmt.Sprintf("model_config_json = $%d", paramCount))
		args = append(args, *upd.ModelConfigJSON)
		paramCount++
	}
	if upd.CommitMessage != nil {
		sets = append(sets, fmt.Sprintf("commit_message = $%d", paramCount))
		args = append(args, *upd.CommitMessage)
		paramCount++
	}

	query := fmt.Sprintf(`UPDATE prompt_versions SET %s WHERE id = $%d AND prompt_id = $%d`,
		strings.Join(sets, ", "), paramCount, paramCount+1)
	args = append(args, versionID, promptID)

	commandTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Int64("promptID", promptID).Int64("versionID", versionID).Msg("Failed to update prompt version")
		return nil, fmt.Errorf("failed to update version %d: %w", versionID, err)
	}
	if commandTag.RowsAffected() == 0 {
		return nil, models.ErrVersionNotFound
	}
	log.Info().Int64("promptID", promptID).Int64("versionID", versionID).Msg("Prompt version updated")
	return r.getVersion(ctx, promptID, versionID)
}

func (r *PgPromptRepository) getVersion(ctx context.Context, promptID, versionID int64) (*models.PromptVersion, error) {
	query := fmt.Sprintf(`SELECT %s FROM prompt_versions WHERE id = $1 AND prompt_id = $2`, versionFields)
	var v models.PromptVersion
	err := r.db.QueryRow(ctx, query, versionID, promptID).Scan(
		&v.ID, &v.PromptID, &v.VersionNumber, &v.Template,
		&v.InputVariables, &v.ModelConfigJSON, &v.CommitMessage, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrVersionNotFound
		}
		return nil, fmt.Errorf("failed to get version %d: %w", versionID, err)
	}
	return &v, nil
}

// DeleteVersion removes a version inside one transaction. Deleting the
// active version clears the pointer; with promote set, the highest
// remaining version_number takes over instead.
func (r *PgPromptRepository) DeleteVersion(ctx context.Context, promptID, versionID int64, promote bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var owner int64
	err = tx.QueryRow(ctx, `SELECT prompt_id FROM prompt_versions WHERE id = $1`, versionID).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrVersionNotFound
		}
		return fmt.Errorf("failed to check version %d: %w", versionID, err)
	}
	if owner != promptID {
		return models.ErrVersionNotFound
	}

	var activeVersionID *int64
	err = tx.QueryRow(ctx, `SELECT active_version_id FROM prompts WHERE id = $1 FOR UPDATE`, promptID).Scan(&activeVersionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrPromptNotFound
		}
		return fmt.Errorf("failed to lock prompt %d: %w", promptID, err)
	}

	if activeVersionID != nil && *activeVersionID == versionID {
		var next *int64
		if promote {
			var candidate int64
			err = tx.QueryRow(ctx,
				`SELECT id FROM prompt_versions WHERE prompt_id = $1 AND id <> $2 ORDER BY version_number DESC, id DESC LIMIT 1`,
				promptID, versionID).Scan(&candidate)
			if err == nil {
				next = &candidate
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("failed to pick promotion candidate: %w", err)
			}
		}
		if _, err := tx.Exec(ctx, `UPDATE prompts SET active_version_id = $1, updated_at = NOW() WHERE id = $2`, next, promptID); err != nil {
			log.Error().Err(err).Int64("promptID", promptID).Msg("Failed to move active version pointer")
			return fmt.Errorf("failed to move active version pointer: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM prompt_versions WHERE id = $1`, versionID); err != nil {
		log.Error().Err(err).Int64("versionID", versionID).Msg("Failed to delete prompt version")
		return fmt.Errorf("failed to delete version %d: %w", versionID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit version delete: %w", err)
	}
	log.Info().Int64("promptID", promptID).Int64("versionID", versionID).Msg("Prompt version deleted")
	return nil
}
