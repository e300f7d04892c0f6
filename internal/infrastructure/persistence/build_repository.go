package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/conveyor-ci/conveyor/internal/domain/build"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// BuildRepository is an in-memory build store. Build numbers come from a
// per-pipeline counter advanced under the store lock, so concurrent
// NextBuildNumber calls never return the same number and each pipeline's
// sequence is 1, 2, 3, ... without gaps.
type BuildRepository struct {
	mu       sync.RWMutex
	builds   map[identity.BuildID]*build.Build
	counters map[identity.PipelineID]uint64
}

// NewBuildRepository creates an empty build store.
func NewBuildRepository() *BuildRepository {
	return &BuildRepository{
		builds:   make(map[identity.BuildID]*build.Build),
		counters: make(map[identity.PipelineID]uint64),
	}
}

// Save stores a build.
func (r *BuildRepository) Save(_ context.Context, b *build.Build) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builds[b.ID()] = b
	return nil
}

// FindByID returns the build or nil when absent.
func (r *BuildRepository) FindByID(_ context.Context, id identity.BuildID) (*build.Build, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.builds[id], nil
}

// FindByPipeline returns a pipeline's builds ordered by number.
func (r *BuildRepository) FindByPipeline(_ context.Context, pipelineID identity.PipelineID) ([]*build.Build, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*build.Build
	for _, b := range r.builds {
		if b.PipelineID() == pipelineID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number() < out[j].Number() })
	return out, nil
}

// FindByProject returns a project's builds.
func (r *BuildRepository) FindByProject(_ context.Context, projectID identity.ProjectID) ([]*build.Build, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*build.Build
	for _, b := range r.builds {
		if b.ProjectID() == projectID {
			out = append(out, b)
		}
	}
	return out, nil
}

// Query returns builds matching the options, newest first.
func (r *BuildRepository) Query(_ context.Context, opts build.QueryOptions) ([]*build.Build, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*build.Build
	for _, b := range r.builds {
		if !opts.ProjectID.IsZero() && b.ProjectID() != opts.ProjectID {
			continue
		}
		if !opts.PipelineID.IsZero() && b.PipelineID() != opts.PipelineID {
			continue
		}
		if opts.Status != "" && b.Status() != opts.Status {
			continue
		}
		if opts.Branch != "" && b.Branch() != opts.Branch {
			continue
		}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

// FindRunning returns all builds in the Running status.
func (r *BuildRepository) FindRunning(_ context.Context) ([]*build.Build, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*build.Build
	for _, b := range r.builds {
		if b.Status().IsInProgress() {
			out = append(out, b)
		}
	}
	return out, nil
}

// NextBuildNumber advances the pipeline's counter and returns the new
// value, starting at 1.
func (r *BuildRepository) NextBuildNumber(_ context.Context, pipelineID identity.PipelineID) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[pipelineID]++
	return r.counters[pipelineID], nil
}

// Update stores the build, inserting if absent.
func (r *BuildRepository) Update(ctx context.Context, b *build.Build) error {
	return r.Save(ctx, b)
}

// Delete removes a build if present. Counters are untouched; numbers are
// never reused.
func (r *BuildRepository) Delete(_ context.Context, id identity.BuildID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.builds, id)
	return nil
}

// CountByStatus returns how many builds carry the status.
func (r *BuildRepository) CountByStatus(_ context.Context, status build.Status) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n uint64
	for _, b := range r.builds {
		if b.Status() == status {
			n++
		}
	}
	return n, nil
}
