package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"prompt-server/internal/messaging"
	"prompt-server/internal/models"
	"prompt-server/internal/repository"
)

// PromptService owns the prompt/version lifecycle rules and notifies
// consumers about changes. Storage-level atomicity is delegated to the
// repository; this layer adds policy and eventing.
type PromptService struct {
	repo                  repository.PromptRepository
	publisher             messaging.PromptEventPublisher
	promoteOnActiveDelete bool
	logger                *zap.Logger
}

// NewPromptService creates a PromptService. promoteOnActiveDelete
// selects the policy applied when the active version is deleted:
// clear the pointer (default) or promote the highest remaining version.
func NewPromptService(repo repository.PromptRepository, publisher messaging.PromptEventPublisher, promoteOnActiveDelete bool, logger *zap.Logger) *PromptService {
	if publisher == nil {
		publisher = messaging.NoopPromptPublisher{}
	}
	return &PromptService{
		repo:                  repo,
		publisher:             publisher,
		promoteOnActiveDelete: promoteOnActiveDelete,
		logger:                logger.Named("PromptService"),
	}
}

func (s *PromptService) CreatePrompt(ctx context.Context, name string, description, tags *string) (*models.Prompt, error) {
	prompt := &models.Prompt{
		Name:        name,
		Description: description,
		Tags:        tags,
	}
	if err := s.repo.Create(ctx, prompt); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, messaging.PromptEventCreated, prompt.ID, nil)
	return prompt, nil
}

func (s *PromptService) GetPrompt(ctx context.Context, id int64) (*models.Prompt, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PromptService) ListPrompts(ctx context.Context, params models.PromptListParams) (*models.PromptPage, error) {
	return s.repo.List(ctx, params)
}

func (s *PromptService) UpdatePrompt(ctx context.Context, id int64, upd models.PromptUpdate) (*models.Prompt, error) {
	prompt, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, messaging.PromptEventUpdated, id, nil)
	return prompt, nil
}

func (s *PromptService) DeletePrompt(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, messaging.PromptEventDeleted, id, nil)
	return nil
}

func (s *PromptService) AddVersion(ctx context.Context, promptID int64, version *models.PromptVersion) (*models.PromptVersion, error) {
	if err := s.repo.AddVersion(ctx, promptID, version); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, messaging.PromptEventVersionCreated, promptID, &version.ID)
	return version, nil
}

func (s *PromptService) SetActiveVersion(ctx context.Context, promptID, versionID int64) (*models.Prompt, error) {
	prompt, err := s.repo.SetActiveVersion(ctx, promptID, versionID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, messaging.PromptEventVersionActivated, promptID, &versionID)
	return prompt, nil
}

func (s *PromptService) UpdateVersion(ctx context.Context, promptID, versionID int64, upd models.PromptVersionUpdate) (*models.PromptVersion, error) {
	version, err := s.repo.UpdateVersion(ctx, promptID, versionID, upd)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, messaging.PromptEventVersionUpdated, promptID, &versionID)
	return version, nil
}

func (s *PromptService) DeleteVersion(ctx context.Context, promptID, versionID int64) error {
	if err := s.repo.DeleteVersion(ctx, promptID, versionID, s.promoteOnActiveDelete); err != nil {
		return err
	}
	s.publishEvent(ctx, messaging.PromptEventVersionDeleted, promptID, &versionID)
	return nil
}

// publishEvent notifies consumers about a committed change. Publish
// failures are logged and never fail the request.
func (s *PromptService) publishEvent(ctx context.Context, eventType string, promptID int64, versionID *int64) {
	event := messaging.PromptEvent{
		Type:      eventType,
		PromptID:  promptID,
		VersionID: versionID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.PublishPromptEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish prompt event",
			zap.String("type", eventType),
			zap.Int64("promptID", promptID),
			zap.Error(err),
		)
	}
}
