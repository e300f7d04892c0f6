package agent

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
	"github.com/conveyor-ci/conveyor/internal/keymutex"
)

// Service coordinates the agent fleet. Capacity changes for one agent are
// serialized on a per-agent lock so concurrent assignments can never admit
// more jobs than the agent's limit.
type Service struct {
	agents    Repository
	publisher event.Publisher
	logger    *log.Logger
	capacity  *keymutex.KeyMutex
}

// NewService creates an agent service.
func NewService(agents Repository, publisher event.Publisher, logger *log.Logger) *Service {
	return &Service{
		agents:    agents,
		publisher: publisher,
		logger:    logger.With("service", "agent"),
		capacity:  keymutex.New(),
	}
}

// Register creates an agent under a unique name, brings it online, and
// publishes AgentRegistered.
func (s *Service) Register(ctx context.Context, name string, maxConcurrent int, platform Platform, version, ipAddress string) (*Agent, error) {
	existing, err := s.agents.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fault.Conflict("agent name already exists")
	}

	a, err := New(name, maxConcurrent, platform, version)
	if err != nil {
		return nil, err
	}
	a.Connect(ipAddress)

	if err := s.agents.Save(ctx, a); err != nil {
		return nil, err
	}

	s.publish(ctx, a.TakeEvents())
	return a, nil
}

// Heartbeat refreshes an agent's liveness timestamp.
func (s *Service) Heartbeat(ctx context.Context, id identity.AgentID) error {
	a, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	a.Heartbeat()
	return s.agents.Update(ctx, a)
}

// Disconnect takes an agent offline and publishes AgentDisconnected.
func (s *Service) Disconnect(ctx context.Context, id identity.AgentID) error {
	a, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	a.Disconnect()

	if err := s.agents.Update(ctx, a); err != nil {
		return err
	}

	s.publish(ctx, a.TakeEvents())
	return nil
}

// FindAvailable returns agents that can accept a job right now.
func (s *Service) FindAvailable(ctx context.Context) ([]*Agent, error) {
	return s.agents.FindAvailable(ctx)
}

// AssignJob admits one job to an agent. Load, check, and update run under
// the agent's capacity lock, so two concurrent assignments against the
// last slot cannot both succeed.
func (s *Service) AssignJob(ctx context.Context, id identity.AgentID) error {
	unlock := s.capacity.Lock(id.String())
	defer unlock()

	a, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := a.AssignJob(); err != nil {
		return err
	}

	return s.agents.Update(ctx, a)
}

// ReleaseJob returns one unit of capacity to an agent.
func (s *Service) ReleaseJob(ctx context.Context, id identity.AgentID) error {
	unlock := s.capacity.Lock(id.String())
	defer unlock()

	a, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := a.ReleaseJob(); err != nil {
		return err
	}

	return s.agents.Update(ctx, a)
}

// CleanupDeadAgents disconnects every non-offline agent whose heartbeat is
// older than timeout and returns how many were disconnected. A failure on
// one agent is logged and does not stop the sweep.
func (s *Service) CleanupDeadAgents(ctx context.Context, timeout time.Duration) (int, error) {
	all, err := s.agents.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, a := range all {
		if a.Status() == StatusOffline || !a.IsDead(timeout) {
			continue
		}

		a.Disconnect()
		if err := s.agents.Update(ctx, a); err != nil {
			s.logger.Error("failed to disconnect dead agent", "agent", a.Name(), "error", err)
			continue
		}

		s.publish(ctx, a.TakeEvents())
		cleaned++
	}

	return cleaned, nil
}

// Get returns an agent by ID.
func (s *Service) Get(ctx context.Context, id identity.AgentID) (*Agent, error) {
	return s.get(ctx, id)
}

// List returns every registered agent.
func (s *Service) List(ctx context.Context) ([]*Agent, error) {
	return s.agents.FindAll(ctx)
}

func (s *Service) get(ctx context.Context, id identity.AgentID) (*Agent, error) {
	a, err := s.agents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fault.NotFound("agent")
	}
	return a, nil
}

func (s *Service) publish(ctx context.Context, events []event.Event) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(ctx, events); err != nil {
		s.logger.Warn("failed to publish events", "count", len(events), "error", err)
	}
}
