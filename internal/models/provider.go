package models

import "time"

// LLMProvider is a stored connection profile for an LLM backend.
// APIKey is a secret: list/read responses carry it masked, the raw
// value is only resolved internally for execute calls.
type LLMProvider struct {
	ID        int64       `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	APIKey    *string     `db:"api_key" json:"apiKey,omitempty"`
	BaseURL   *string     `db:"base_url" json:"baseUrl,omitempty"`
	IsActive  bool        `db:"is_active" json:"isActive"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	Models    []*LLMModel `db:"-" json:"models"`
}

// LLMModel is a named model registered under a provider.
type LLMModel struct {
	ID           int64   `db:"id" json:"id"`
	ProviderID   int64   `db:"provider_id" json:"providerId"`
	Name         string  `db:"name" json:"name"`
	Capabilities *string `db:"capabilities" json:"capabilities,omitempty"` // e.g. "chat, vision"
}

// LLMProviderUpdate carries a partial update: nil fields are left untouched.
type LLMProviderUpdate struct {
	Name     *string `json:"name,omitempty"`
	APIKey   *string `json:"apiKey,omitempty"`
	BaseURL  *string `json:"baseUrl,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u LLMProviderUpdate) IsEmpty() bool {
	return u.Name == nil && u.APIKey == nil && u.BaseURL == nil && u.IsActive == nil
}
