package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompt-server/internal/models"
)

// handleServiceError maps service errors onto HTTP statuses and the
// common error body. Unknown errors become an opaque 500.
func handleServiceError(c *gin.Context, err error, logger *zap.Logger) {
	var status int
	var code string
	message := err.Error()

	switch {
	case errors.Is(err, models.ErrPromptNotFound),
		errors.Is(err, models.ErrVersionNotFound),
		errors.Is(err, models.ErrProviderNotFound),
		errors.Is(err, models.ErrModelNotFound):
		status = http.StatusNotFound
		code = models.ErrCodeNotFound

	case errors.Is(err, models.ErrInvalidInput):
		status = http.StatusBadRequest
		code = models.ErrCodeValidation

	case errors.Is(err, models.ErrAPIKeyMissing):
		status = http.StatusBadRequest
		code = models.ErrCodeBadRequest

	case errors.Is(err, models.ErrUnsupportedProvider):
		status = http.StatusBadRequest
		code = models.ErrCodeUnsupportedProvider

	case errors.Is(err, models.ErrWrongModelKind):
		status = http.StatusUnprocessableEntity
		code = models.ErrCodeWrongModelKind

	case errors.Is(err, models.ErrUpstreamBadRequest):
		status = http.StatusUnprocessableEntity
		code = models.ErrCodeUpstreamRejected

	case errors.Is(err, models.ErrUpstreamUnreachable):
		status = http.StatusBadGateway
		code = models.ErrCodeUpstreamUnreachable

	case errors.Is(err, models.ErrTokenExpired):
		status = http.StatusUnauthorized
		code = models.ErrCodeTokenExpired

	case errors.Is(err, models.ErrTokenInvalid),
		errors.Is(err, models.ErrTokenMalformed):
		status = http.StatusUnauthorized
		code = models.ErrCodeTokenInvalid

	default:
		// Unknown errors stay opaque to the client.
		logger.Error("Unhandled service error", zap.Error(err))
		status = http.StatusInternalServerError
		code = models.ErrCodeInternal
		message = models.ErrInternalServer.Error()
	}

	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
