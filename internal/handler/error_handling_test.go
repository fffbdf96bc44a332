package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prompt-server/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func runErrorMapping(t *testing.T, err error) (int, models.ErrorResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handleServiceError(c, err, zap.NewNop())

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"prompt not found", models.ErrPromptNotFound, http.StatusNotFound, models.ErrCodeNotFound},
		{"version not found", models.ErrVersionNotFound, http.StatusNotFound, models.ErrCodeNotFound},
		{"provider not found", models.ErrProviderNotFound, http.StatusNotFound, models.ErrCodeNotFound},
		{"model not found", models.ErrModelNotFound, http.StatusNotFound, models.ErrCodeNotFound},
		{"invalid input", fmt.Errorf("%w: bad skip", models.ErrInvalidInput), http.StatusBadRequest, models.ErrCodeValidation},
		{"api key missing", models.ErrAPIKeyMissing, http.StatusBadRequest, models.ErrCodeBadRequest},
		{"unsupported provider", fmt.Errorf("%w: anthropic", models.ErrUnsupportedProvider), http.StatusBadRequest, models.ErrCodeUnsupportedProvider},
		{"wrong model kind", models.ErrWrongModelKind, http.StatusUnprocessableEntity, models.ErrCodeWrongModelKind},
		{"upstream bad request", models.ErrUpstreamBadRequest, http.StatusUnprocessableEntity, models.ErrCodeUpstreamRejected},
		{"upstream unreachable", models.ErrUpstreamUnreachable, http.StatusBadGateway, models.ErrCodeUpstreamUnreachable},
		{"token expired", models.ErrTokenExpired, http.StatusUnauthorized, models.ErrCodeTokenExpired},
		{"token invalid", models.ErrTokenInvalid, http.StatusUnauthorized, models.ErrCodeTokenInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := runErrorMapping(t, tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestHandleServiceErrorUnknownIsOpaque500(t *testing.T) {
	status, body := runErrorMapping(t, errors.New("pq: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, models.ErrCodeInternal, body.Code)
	// internal detail must not leak to the client
	assert.Equal(t, "internal server error", body.Message)
}

func TestHandleServiceErrorPreservesWrappedDetail(t *testing.T) {
	err := fmt.Errorf("%w: could not connect to Ollama at http://localhost:11434: dial refused", models.ErrUpstreamUnreachable)
	status, body := runErrorMapping(t, err)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, body.Message, "http://localhost:11434")
}
