package persistence

import (
	"context"
	"sync"

	"github.com/conveyor-ci/conveyor/internal/domain/agent"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// AgentRepository is an in-memory agent store.
type AgentRepository struct {
	mu     sync.RWMutex
	agents map[identity.AgentID]*agent.Agent
}

// NewAgentRepository creates an empty agent store.
func NewAgentRepository() *AgentRepository {
	return &AgentRepository{agents: make(map[identity.AgentID]*agent.Agent)}
}

// Save stores an agent.
func (r *AgentRepository) Save(_ context.Context, a *agent.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.ID()] = a
	return nil
}

// FindByID returns the agent or nil when absent.
func (r *AgentRepository) FindByID(_ context.Context, id identity.AgentID) (*agent.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agents[id], nil
}

// FindByName returns the agent with the given name or nil.
func (r *AgentRepository) FindByName(_ context.Context, name string) (*agent.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.agents {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, nil
}

// FindAll returns every stored agent.
func (r *AgentRepository) FindAll(_ context.Context) ([]*agent.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*agent.Agent, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, a)
	}
	return out, nil
}

// FindAvailable returns agents that can accept a job right now.
func (r *AgentRepository) FindAvailable(_ context.Context) ([]*agent.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*agent.Agent
	for _, a := range r.agents {
		if a.CanAcceptJob() {
			out = append(out, a)
		}
	}
	return out, nil
}

// FindByLabels returns agents carrying every requested key/value label.
func (r *AgentRepository) FindByLabels(_ context.Context, labels map[string]string) ([]*agent.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*agent.Agent
	for _, a := range r.agents {
		if a.HasLabels(labels) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Update stores the agent, inserting if absent.
func (r *AgentRepository) Update(ctx context.Context, a *agent.Agent) error {
	return r.Save(ctx, a)
}

// Delete removes an agent if present.
func (r *AgentRepository) Delete(_ context.Context, id identity.AgentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, id)
	return nil
}

// Exists reports whether an agent is stored under the ID.
func (r *AgentRepository) Exists(_ context.Context, id identity.AgentID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.agents[id]
	return ok, nil
}
