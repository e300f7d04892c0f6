package pipeline

import (
	"context"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// Repository is the persistence port for pipeline definitions. FindByID
// returns (nil, nil) when no pipeline matches.
type Repository interface {
	Save(ctx context.Context, p *Pipeline) error
	FindByID(ctx context.Context, id identity.PipelineID) (*Pipeline, error)
	FindByProject(ctx context.Context, projectID identity.ProjectID) ([]*Pipeline, error)
	FindEnabledByProject(ctx context.Context, projectID identity.ProjectID) ([]*Pipeline, error)
	FindAll(ctx context.Context) ([]*Pipeline, error)
	Update(ctx context.Context, p *Pipeline) error
	Delete(ctx context.Context, id identity.PipelineID) error
	Exists(ctx context.Context, id identity.PipelineID) (bool, error)
}
