package project

import (
	"context"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// Repository is the persistence port for projects. FindByID and FindByName
// return (nil, nil) when no project matches. Project names are unique;
// callers creating a project check NameExists first.
type Repository interface {
	Save(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id identity.ProjectID) (*Project, error)
	FindByName(ctx context.Context, name string) (*Project, error)
	FindAll(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id identity.ProjectID) error
	Exists(ctx context.Context, id identity.ProjectID) (bool, error)
	NameExists(ctx context.Context, name string) (bool, error)
}
