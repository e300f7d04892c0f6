// Package persistence provides in-memory adapters for the domain
// repository ports. Each adapter guards its map with a RWMutex; Update is
// an upsert and Delete of a missing ID is a no-op.
package persistence

import (
	"context"
	"sync"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
	"github.com/conveyor-ci/conveyor/internal/domain/project"
)

// ProjectRepository is an in-memory project store.
type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[identity.ProjectID]*project.Project
}

// NewProjectRepository creates an empty project store.
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{projects: make(map[identity.ProjectID]*project.Project)}
}

// Save stores a project.
func (r *ProjectRepository) Save(_ context.Context, p *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID()] = p
	return nil
}

// FindByID returns the project or nil when absent.
func (r *ProjectRepository) FindByID(_ context.Context, id identity.ProjectID) (*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.projects[id], nil
}

// FindByName returns the project with the given name or nil.
func (r *ProjectRepository) FindByName(_ context.Context, name string) (*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.projects {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, nil
}

// FindAll returns every stored project.
func (r *ProjectRepository) FindAll(_ context.Context) ([]*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*project.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p)
	}
	return out, nil
}

// Update stores the project, inserting if absent.
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	return r.Save(ctx, p)
}

// Delete removes a project if present.
func (r *ProjectRepository) Delete(_ context.Context, id identity.ProjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

// Exists reports whether a project is stored under the ID.
func (r *ProjectRepository) Exists(_ context.Context, id identity.ProjectID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.projects[id]
	return ok, nil
}

// NameExists reports whether any stored project carries the name.
func (r *ProjectRepository) NameExists(ctx context.Context, name string) (bool, error) {
	p, err := r.FindByName(ctx, name)
	return p != nil, err
}
