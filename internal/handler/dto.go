package handler

// Request bodies. Sparse update requests use pointer fields so absent
// keys are distinguishable from explicit nulls.

type createPromptRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
}

type updatePromptRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
}

type createVersionRequest struct {
	Template        string  `json:"template" binding:"required"`
	VersionNumber   *int    `json:"version_number"`
	InputVariables  *string `json:"input_variables"`
	ModelConfigJSON *string `json:"model_config_json"`
	CommitMessage   *string `json:"commit_message"`
}

type updateVersionRequest struct {
	Template        *string `json:"template"`
	InputVariables  *string `json:"input_variables"`
	ModelConfigJSON *string `json:"model_config_json"`
	CommitMessage   *string `json:"commit_message"`
}

type createProviderRequest struct {
	Name     string  `json:"name" binding:"required"`
	APIKey   *string `json:"api_key"`
	BaseURL  *string `json:"base_url"`
	IsActive *bool   `json:"is_active"`
}

type updateProviderRequest struct {
	Name     *string `json:"name"`
	APIKey   *string `json:"api_key"`
	BaseURL  *string `json:"base_url"`
	IsActive *bool   `json:"is_active"`
}

type createModelRequest struct {
	Name         string  `json:"name" binding:"required"`
	Capabilities *string `json:"capabilities"`
}

type executeRequest struct {
	ProviderID    *int64         `json:"provider_id"`
	ModelProvider string         `json:"model_provider" binding:"required"`
	ModelName     string         `json:"model_name" binding:"required"`
	PromptText    string         `json:"prompt_text" binding:"required"`
	Config        map[string]any `json:"config"`
}

type executeResponse struct {
	Response string `json:"response"`
}
