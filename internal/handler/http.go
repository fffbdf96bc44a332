package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompt-server/internal/authutils"
	"prompt-server/internal/llm"
	"prompt-server/internal/middleware"
	"prompt-server/internal/service"
)

// Handler wires HTTP routes to the prompt, provider and execution
// services.
type Handler struct {
	prompts    *service.PromptService
	providers  *service.ProviderService
	dispatcher *llm.Dispatcher
	verifier   *authutils.JWTVerifier
	logger     *zap.Logger
}

func NewHandler(
	prompts *service.PromptService,
	providers *service.ProviderService,
	dispatcher *llm.Dispatcher,
	verifier *authutils.JWTVerifier,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		prompts:    prompts,
		providers:  providers,
		dispatcher: dispatcher,
		verifier:   verifier,
		logger:     logger.Named("Handler"),
	}
}

// RegisterRoutes mounts all API routes under /api/v1 behind the auth
// middleware. executeLimiter, when non-nil, is applied to the execute
// endpoint only.
func (h *Handler) RegisterRoutes(router *gin.Engine, executeLimiter gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(h.verifier.VerifyToken, h.logger))

	prompts := api.Group("/prompts")
	{
		prompts.POST("", h.createPrompt)
		prompts.GET("", h.listPrompts)
		prompts.GET("/:id", h.getPrompt)
		prompts.PATCH("/:id", h.updatePrompt)
		prompts.DELETE("/:id", h.deletePrompt)

		prompts.POST("/:id/versions", h.createVersion)
		prompts.PATCH("/:id/versions/:versionID", h.updateVersion)
		prompts.DELETE("/:id/versions/:versionID", h.deleteVersion)
		prompts.POST("/:id/versions/:versionID/set-active", h.setActiveVersion)
	}

	providers := api.Group("/providers")
	{
		providers.GET("", h.listProviders)
		providers.POST("", h.createProvider)
		providers.GET("/:id", h.getProvider)
		providers.PATCH("/:id", h.updateProvider)
		providers.DELETE("/:id", h.deleteProvider)

		providers.POST("/:id/models", h.createModel)
		providers.DELETE("/:id/models/:modelID", h.deleteModel)
		providers.POST("/:id/models/sync", h.syncModels)
	}

	execute := api.Group("/execute")
	if executeLimiter != nil {
		execute.Use(executeLimiter)
	}
	execute.POST("", h.execute)
}
