package agent

import (
	"context"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// Repository is the persistence port for agents. FindByID and FindByName
// return (nil, nil) when no agent matches. Agent names are unique; callers
// registering an agent check FindByName first.
type Repository interface {
	Save(ctx context.Context, a *Agent) error
	FindByID(ctx context.Context, id identity.AgentID) (*Agent, error)
	FindByName(ctx context.Context, name string) (*Agent, error)
	FindAll(ctx context.Context) ([]*Agent, error)
	FindAvailable(ctx context.Context) ([]*Agent, error)
	FindByLabels(ctx context.Context, labels map[string]string) ([]*Agent, error)
	Update(ctx context.Context, a *Agent) error
	Delete(ctx context.Context, id identity.AgentID) error
	Exists(ctx context.Context, id identity.AgentID) (bool, error)
}
