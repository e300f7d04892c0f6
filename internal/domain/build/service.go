package build

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
	"github.com/conveyor-ci/conveyor/internal/domain/pipeline"
	"github.com/conveyor-ci/conveyor/internal/keymutex"
)

// Service coordinates the build lifecycle. Creation for a given pipeline
// is serialized so concurrent triggers receive dense sequential numbers.
// Event publishing is best-effort and never undoes a persisted change.
type Service struct {
	builds    Repository
	pipelines pipeline.Repository
	publisher event.Publisher
	logger    *log.Logger
	creation  *keymutex.KeyMutex
}

// NewService creates a build service.
func NewService(builds Repository, pipelines pipeline.Repository, publisher event.Publisher, logger *log.Logger) *Service {
	return &Service{
		builds:    builds,
		pipelines: pipelines,
		publisher: publisher,
		logger:    logger.With("service", "build"),
		creation:  keymutex.New(),
	}
}

// Create makes a new pending build for an enabled pipeline. The build
// number comes from the pipeline's counter; two concurrent creations never
// share a number.
func (s *Service) Create(ctx context.Context, pipelineID identity.PipelineID, commitSHA, branch string, trigger Trigger) (*Build, error) {
	p, err := s.pipelines.FindByID(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fault.NotFound("pipeline")
	}
	if !p.IsEnabled() {
		return nil, fault.InvalidStatef("pipeline %q is disabled", p.Name())
	}

	unlock := s.creation.Lock(pipelineID.String())
	defer unlock()

	number, err := s.builds.NextBuildNumber(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	b := New(pipelineID, p.ProjectID(), number, commitSHA, branch, trigger)

	if err := s.builds.Save(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, b.TakeEvents())
	return b, nil
}

// Start moves a pending build to Running on the given agent. Agent
// admission is handled by the agent service before this is called.
func (s *Service) Start(ctx context.Context, id identity.BuildID, agentID identity.AgentID) error {
	return s.mutate(ctx, id, func(b *Build) error {
		return b.Start(agentID)
	})
}

// Complete marks a running build as successful.
func (s *Service) Complete(ctx context.Context, id identity.BuildID) error {
	return s.mutate(ctx, id, func(b *Build) error {
		return b.Succeed()
	})
}

// Fail marks a running build as failed with a reason.
func (s *Service) Fail(ctx context.Context, id identity.BuildID, errorMessage string) error {
	return s.mutate(ctx, id, func(b *Build) error {
		return b.Fail(errorMessage)
	})
}

// Cancel cancels a build that has not yet finished.
func (s *Service) Cancel(ctx context.Context, id identity.BuildID) error {
	return s.mutate(ctx, id, func(b *Build) error {
		return b.Cancel()
	})
}

// Get returns a build by ID.
func (s *Service) Get(ctx context.Context, id identity.BuildID) (*Build, error) {
	return s.get(ctx, id)
}

// ListByPipeline returns every build of a pipeline.
func (s *Service) ListByPipeline(ctx context.Context, pipelineID identity.PipelineID) ([]*Build, error) {
	return s.builds.FindByPipeline(ctx, pipelineID)
}

// ListRunning returns all builds currently executing.
func (s *Service) ListRunning(ctx context.Context) ([]*Build, error) {
	return s.builds.FindRunning(ctx)
}

// Plan expands the build's pipeline config into stages and jobs.
func (s *Service) Plan(ctx context.Context, id identity.BuildID) (*Plan, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.pipelines.FindByID(ctx, b.PipelineID())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fault.NotFound("pipeline")
	}

	return Materialize(b.ID(), p.Config()), nil
}

func (s *Service) mutate(ctx context.Context, id identity.BuildID, fn func(*Build) error) error {
	b, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := fn(b); err != nil {
		return err
	}

	if err := s.builds.Update(ctx, b); err != nil {
		return err
	}

	s.publish(ctx, b.TakeEvents())
	return nil
}

func (s *Service) get(ctx context.Context, id identity.BuildID) (*Build, error) {
	b, err := s.builds.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fault.NotFound("build")
	}
	return b, nil
}

func (s *Service) publish(ctx context.Context, events []event.Event) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(ctx, events); err != nil {
		s.logger.Warn("failed to publish events", "count", len(events), "error", err)
	}
}
