package build

import (
	"context"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// QueryOptions filters and pages a build listing. Zero values mean
// "no filter".
type QueryOptions struct {
	ProjectID  identity.ProjectID
	PipelineID identity.PipelineID
	Status     Status
	Branch     string
	Limit      int
	Offset     int
}

// Repository is the persistence port for builds. FindByID returns
// (nil, nil) when no build matches. NextBuildNumber is atomic: concurrent
// callers for the same pipeline each receive a distinct number and the
// sequence per pipeline starts at 1 with no gaps.
type Repository interface {
	Save(ctx context.Context, b *Build) error
	FindByID(ctx context.Context, id identity.BuildID) (*Build, error)
	FindByPipeline(ctx context.Context, pipelineID identity.PipelineID) ([]*Build, error)
	FindByProject(ctx context.Context, projectID identity.ProjectID) ([]*Build, error)
	Query(ctx context.Context, opts QueryOptions) ([]*Build, error)
	FindRunning(ctx context.Context) ([]*Build, error)
	NextBuildNumber(ctx context.Context, pipelineID identity.PipelineID) (uint64, error)
	Update(ctx context.Context, b *Build) error
	Delete(ctx context.Context, id identity.BuildID) error
	CountByStatus(ctx context.Context, status Status) (uint64, error)
}
