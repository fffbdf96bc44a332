package models

import "errors"

// Application-wide standard errors
var (
	// Resource errors. A child looked up through the wrong parent is
	// reported as not found even when it exists elsewhere.
	ErrPromptNotFound   = errors.New("prompt not found")
	ErrVersionNotFound  = errors.New("prompt version not found")
	ErrProviderNotFound = errors.New("provider not found")
	ErrModelNotFound    = errors.New("model not found")

	// Token errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// Execution errors
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrAPIKeyMissing       = errors.New("API key not set")
	ErrUpstreamBadRequest  = errors.New("upstream rejected the request")
	ErrWrongModelKind      = errors.New("model is not a generation model")
	ErrUpstreamUnreachable = errors.New("could not connect to upstream")

	// General request/server errors
	ErrInvalidInput   = errors.New("invalid input data")
	ErrInternalServer = errors.New("internal server error")
)
