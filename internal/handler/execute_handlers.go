package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompt-server/internal/llm"
	"prompt-server/internal/models"
)

// execute runs a prompt against the requested model family. When
// provider_id is present, the stored provider's credentials override
// the server defaults; a provider that no longer exists is ignored.
func (h *Handler) execute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for execute", zap.Error(err))
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err), h.logger)
		return
	}

	var profile *llm.Profile
	if req.ProviderID != nil {
		resolved, err := h.providers.ResolveProfile(c.Request.Context(), *req.ProviderID)
		if err != nil {
			handleServiceError(c, err, h.logger)
			return
		}
		profile = resolved
	}

	result, err := h.dispatcher.Execute(c.Request.Context(), req.ModelProvider, req.ModelName, req.PromptText, req.Config, profile)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, executeResponse{Response: result})
}
