package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompt-server/internal/models"
)

func (h *Handler) listProviders(c *gin.Context) {
	providers, err := h.providers.ListProviders(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, providers)
}

func (h *Handler) createProvider(c *gin.Context) {
	var req createProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for createProvider", zap.Error(err))
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err), h.logger)
		return
	}

	provider := &models.LLMProvider{
		Name:    req.Name,
		APIKey:  req.APIKey,
		BaseURL: req.BaseURL,
	}
	if req.IsActive != nil {
		provider.IsActive = *req.IsActive
	} else {
		provider.IsActive = true
	}

	created, err := h.providers.CreateProvider(c.Request.Context(), provider)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) getProvider(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	provider, err := h.providers.GetProvider(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, provider)
}

func (h *Handler) updateProvider(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	var req updateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err), h.logger)
		return
	}

	upd := models.LLMProviderUpdate{
		Name:     req.Name,
		APIKey:   req.APIKey,
		BaseURL:  req.BaseURL,
		IsActive: req.IsActive,
	}
	provider, err := h.providers.UpdateProvider(c.Request.Context(), id, upd)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, provider)
}

func (h *Handler) deleteProvider(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	if err := h.providers.DeleteProvider(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createModel(c *gin.Context) {
	providerID, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	var req createModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err), h.logger)
		return
	}

	model := &models.LLMModel{
		Name:         req.Name,
		Capabilities: req.Capabilities,
	}
	created, err := h.providers.CreateModel(c.Request.Context(), providerID, model)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) deleteModel(c *gin.Context) {
	providerID, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	modelID, err := parseIDParam(c, "modelID")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	if err := h.providers.DeleteModel(c.Request.Context(), providerID, modelID); err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) syncModels(c *gin.Context) {
	providerID, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	provider, err := h.providers.SyncLocalModels(c.Request.Context(), providerID)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, provider)
}
