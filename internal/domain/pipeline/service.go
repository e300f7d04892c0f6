package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
	"github.com/conveyor-ci/conveyor/internal/domain/project"
)

// Service coordinates pipeline use cases: load, mutate, persist, then
// publish the drained events. Publishing is best-effort; a publish failure
// is logged and never undoes the persisted change.
type Service struct {
	pipelines Repository
	projects  project.Repository
	publisher event.Publisher
	logger    *log.Logger
}

// NewService creates a pipeline service.
func NewService(pipelines Repository, projects project.Repository, publisher event.Publisher, logger *log.Logger) *Service {
	return &Service{
		pipelines: pipelines,
		projects:  projects,
		publisher: publisher,
		logger:    logger.With("service", "pipeline"),
	}
}

// Create validates the config, creates the pipeline under an existing
// project, persists it, and publishes PipelineCreated.
func (s *Service) Create(ctx context.Context, projectID identity.ProjectID, name string, config Config) (*Pipeline, error) {
	ok, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fault.NotFound("project")
	}

	p, err := New(projectID, name, config)
	if err != nil {
		return nil, err
	}

	if err := s.pipelines.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publish(ctx, p.TakeEvents())
	return p, nil
}

// UpdateConfig replaces a pipeline's configuration. The new config is
// validated before the pipeline is loaded.
func (s *Service) UpdateConfig(ctx context.Context, id identity.PipelineID, config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	p, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := p.UpdateConfig(config); err != nil {
		return err
	}

	if err := s.pipelines.Update(ctx, p); err != nil {
		return err
	}

	s.publish(ctx, p.TakeEvents())
	return nil
}

// Enable turns a pipeline on.
func (s *Service) Enable(ctx context.Context, id identity.PipelineID) error {
	p, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	p.Enable()

	if err := s.pipelines.Update(ctx, p); err != nil {
		return err
	}

	s.publish(ctx, p.TakeEvents())
	return nil
}

// Disable turns a pipeline off. Builds already running are unaffected.
func (s *Service) Disable(ctx context.Context, id identity.PipelineID) error {
	p, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	p.Disable()

	if err := s.pipelines.Update(ctx, p); err != nil {
		return err
	}

	s.publish(ctx, p.TakeEvents())
	return nil
}

// Delete removes a pipeline definition.
func (s *Service) Delete(ctx context.Context, id identity.PipelineID) error {
	ok, err := s.pipelines.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fault.NotFound("pipeline")
	}
	return s.pipelines.Delete(ctx, id)
}

// Get returns a pipeline by ID.
func (s *Service) Get(ctx context.Context, id identity.PipelineID) (*Pipeline, error) {
	return s.get(ctx, id)
}

// ListByProject returns every pipeline belonging to a project.
func (s *Service) ListByProject(ctx context.Context, projectID identity.ProjectID) ([]*Pipeline, error) {
	return s.pipelines.FindByProject(ctx, projectID)
}

func (s *Service) get(ctx context.Context, id identity.PipelineID) (*Pipeline, error) {
	p, err := s.pipelines.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fault.NotFound("pipeline")
	}
	return p, nil
}

func (s *Service) publish(ctx context.Context, events []event.Event) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(ctx, events); err != nil {
		s.logger.Warn("failed to publish events", "count", len(events), "error", err)
	}
}
