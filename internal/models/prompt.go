package models

import "time"

// Prompt is a named container for versioned prompt templates.
// ActiveVersionID, when set, always references one of the prompt's own versions.
type Prompt struct {
	ID              int64            `db:"id" json:"id"`
	Name            string           `db:"name" json:"name"`
	Description     *string          `db:"description" json:"description,omitempty"`
	Tags            *string          `db:"tags" json:"tags,omitempty"` // comma-separated, opaque to the server
	ActiveVersionID *int64           `db:"active_version_id" json:"activeVersionId"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updatedAt"`
	Versions        []*PromptVersion `db:"-" json:"versions"`
}

// PromptVersion is one snapshot of a prompt's template and model parameters.
// Template, InputVariables and ModelConfigJSON are opaque strings.
type PromptVersion struct {
	ID              int64     `db:"id" json:"id"`
	PromptID        int64     `db:"prompt_id" json:"promptId"`
	VersionNumber   int       `db:"version_number" json:"versionNumber"`
	Template        string    `db:"template" json:"template"`
	InputVariables  *string   `db:"input_variables" json:"inputVariables,omitempty"`
	ModelConfigJSON *string   `db:"model_config_json" json:"modelConfigJson,omitempty"`
	CommitMessage   *string   `db:"commit_message" json:"commitMessage,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// PromptUpdate carries a partial update: nil fields are left untouched.
type PromptUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Tags        *string `json:"tags,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u PromptUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Tags == nil
}

// PromptVersionUpdate carries a partial update of a version.
type PromptVersionUpdate struct {
	Template        *string `json:"template,omitempty"`
	InputVariables  *string `json:"inputVariables,omitempty"`
	ModelConfigJSON *string `json:"modelConfigJson,omitempty"`
	CommitMessage   *string `json:"commitMessage,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u PromptVersionUpdate) IsEmpty() bool {
	return u.Template == nil && u.InputVariables == nil && u.ModelConfigJSON == nil && u.CommitMessage == nil
}

// PromptListParams describes a filtered, sorted page request over prompts.
type PromptListParams struct {
	Search string // case-insensitive substring over name OR description
	SortBy string // resolved against a fixed column map, unknown falls back to created_at
	Order  string // "asc" or "desc"
	Offset int
	Limit  int
}

// PromptPage is one page of prompts with the total match count.
type PromptPage struct {
	Items []*Prompt `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}
