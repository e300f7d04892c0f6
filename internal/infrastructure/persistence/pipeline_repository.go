package persistence

import (
	"context"
	"sync"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
	"github.com/conveyor-ci/conveyor/internal/domain/pipeline"
)

// PipelineRepository is an in-memory pipeline store.
type PipelineRepository struct {
	mu        sync.RWMutex
	pipelines map[identity.PipelineID]*pipeline.Pipeline
}

// NewPipelineRepository creates an empty pipeline store.
func NewPipelineRepository() *PipelineRepository {
	return &PipelineRepository{pipelines: make(map[identity.PipelineID]*pipeline.Pipeline)}
}

// Save stores a pipeline.
func (r *PipelineRepository) Save(_ context.Context, p *pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelines[p.ID()] = p
	return nil
}

// FindByID returns the pipeline or nil when absent.
func (r *PipelineRepository) FindByID(_ context.Context, id identity.PipelineID) (*pipeline.Pipeline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pipelines[id], nil
}

// FindByProject returns every pipeline of a project.
func (r *PipelineRepository) FindByProject(_ context.Context, projectID identity.ProjectID) ([]*pipeline.Pipeline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*pipeline.Pipeline
	for _, p := range r.pipelines {
		if p.ProjectID() == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindEnabledByProject returns a project's pipelines that accept builds.
func (r *PipelineRepository) FindEnabledByProject(_ context.Context, projectID identity.ProjectID) ([]*pipeline.Pipeline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*pipeline.Pipeline
	for _, p := range r.pipelines {
		if p.ProjectID() == projectID && p.IsEnabled() {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindAll returns every stored pipeline.
func (r *PipelineRepository) FindAll(_ context.Context) ([]*pipeline.Pipeline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*pipeline.Pipeline, 0, len(r.pipelines))
	for _, p := range r.pipelines {
		out = append(out, p)
	}
	return out, nil
}

// Update stores the pipeline, inserting if absent.
func (r *PipelineRepository) Update(ctx context.Context, p *pipeline.Pipeline) error {
	return r.Save(ctx, p)
}

// Delete removes a pipeline if present.
func (r *PipelineRepository) Delete(_ context.Context, id identity.PipelineID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pipelines, id)
	return nil
}

// Exists reports whether a pipeline is stored under the ID.
func (r *PipelineRepository) Exists(_ context.Context, id identity.PipelineID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pipelines[id]
	return ok, nil
}
