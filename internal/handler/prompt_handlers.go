package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompt-server/internal/models"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// parseIDParam extracts a positive int64 path parameter.
func parseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", models.ErrInvalidInput, name, raw)
	}
	return id, nil
}

func (h *Handler) createPrompt(c *gin.Context) {
	var req createPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for createPrompt", zap.Error(err))
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err), h.logger)
		return
	}

	prompt, err := h.prompts.CreatePrompt(c.Request.Context(), req.Name, req.Description, req.Tags)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, prompt)
}

func (h *Handler) listPrompts(c *gin.Context) {
	params := models.PromptListParams{
		Search: c.Query("search"),
		SortBy: c.DefaultQuery("sort_by", "created_at"),
		Order:  strings.ToLower(c.DefaultQuery("order", "desc")),
		Limit:  defaultListLimit,
	}
	if params.Order != "asc" && params.Order != "desc" {
		params.Order = "desc"
	}
	if raw := c.Query("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			handleServiceError(c, fmt.Errorf("%w: invalid skip %q", models.ErrInvalidInput, raw), h.logger)
			return
		}
		params.Offset = skip
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			handleServiceError(c, fmt.Errorf("%w: invalid limit %q", models.ErrInvalidInput, raw), h.logger)
			return
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}
		params.Limit = limit
	}

	page, err := h.prompts.ListPrompts(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getPrompt(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	prompt, err := h.prompts.GetPrompt(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func (h *Handler) updatePrompt(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	var req updatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err), h.logger)
		return
	}

	upd := models.PromptUpdate{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	}
	prompt, err := h.prompts.UpdatePrompt(c.Request.Context(), id, upd)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func (h *Handler) deletePrompt(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	if err := h.prompts.DeletePrompt(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createVersion(c *gin.Context) {
	promptID, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	var req createVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for createVersion", zap.Int64("promptID", promptID), zap.Error(err))
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err), h.logger)
		return
	}

	version := &models.PromptVersion{
		Template:        req.Template,
		InputVariables:  req.InputVariables,
		ModelConfigJSON: req.ModelConfigJSON,
		CommitMessage:   req.CommitMessage,
	}
	if req.VersionNumber != nil {
		version.VersionNumber = *req.VersionNumber
	}
	created, err := h.prompts.AddVersion(c.Request.Context(), promptID, version)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateVersion(c *gin.Context) {
	promptID, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	versionID, err := parseIDParam(c, "versionID")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	var req updateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err), h.logger)
		return
	}

	upd := models.PromptVersionUpdate{
		Template:        req.Template,
		InputVariables:  req.InputVariables,
		ModelConfigJSON: req.ModelConfigJSON,
		CommitMessage:   req.CommitMessage,
	}
	version, err := h.prompts.UpdateVersion(c.Request.Context(), promptID, versionID, upd)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, version)
}

func (h *Handler) deleteVersion(c *gin.Context) {
	promptID, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	versionID, err := parseIDParam(c, "versionID")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	if err := h.prompts.DeleteVersion(c.Request.Context(), promptID, versionID); err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) setActiveVersion(c *gin.Context) {
	promptID, err := parseIDParam(c, "id")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	versionID, err := parseIDParam(c, "versionID")
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	prompt, err := h.prompts.SetActiveVersion(c.Request.Context(), promptID, versionID)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, prompt)
}
