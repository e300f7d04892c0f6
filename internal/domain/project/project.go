// Package project provides the Project aggregate: a source repository with
// CI pipelines attached, plus the settings governing how its builds run.
package project

import (
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// Visibility controls who can see a project.
type Visibility string

const (
	// VisibilityPublic projects are visible to everyone.
	VisibilityPublic Visibility = "public"

	// VisibilityInternal projects are visible to authenticated users.
	VisibilityInternal Visibility = "internal"

	// VisibilityPrivate projects are visible to members only.
	VisibilityPrivate Visibility = "private"
)

// IsValid reports whether v is a known visibility level.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityInternal, VisibilityPrivate:
		return true
	default:
		return false
	}
}

// Settings holds the build policy knobs for a project.
type Settings struct {
	// AutoCancel cancels redundant builds on the same ref.
	AutoCancel bool

	// BuildTimeout bounds a single build, in seconds.
	BuildTimeout uint64

	// MaxConcurrentBuilds bounds builds running at once for the project.
	MaxConcurrentBuilds int

	// PRBuildsEnabled turns pull-request builds on or off.
	PRBuildsEnabled bool

	// ProtectedBranches may not be built from forks or force-pushed.
	ProtectedBranches []string
}

// DefaultSettings returns the policy applied to new projects.
func DefaultSettings() Settings {
	return Settings{
		AutoCancel:          true,
		BuildTimeout:        3600,
		MaxConcurrentBuilds: 5,
		PRBuildsEnabled:     true,
		ProtectedBranches:   []string{"main", "master"},
	}
}

// Project is the aggregate root for a source repository under CI. Deletion
// cascades are not handled here; they belong to the surrounding system.
type Project struct {
	id            identity.ProjectID
	name          string
	description   string
	repositoryURL string
	defaultBranch string
	visibility    Visibility
	settings      Settings
	metadata      map[string]string
	createdAt     time.Time
	updatedAt     time.Time

	event.Buffer
}

// New creates a project and emits ProjectCreated.
func New(name, repositoryURL, defaultBranch string) (*Project, error) {
	if name == "" {
		return nil, fault.Validation("project name cannot be empty")
	}
	if repositoryURL == "" {
		return nil, fault.Validation("repository URL cannot be empty")
	}

	now := time.Now()
	p := &Project{
		id:            identity.NewProjectID(),
		name:          name,
		repositoryURL: repositoryURL,
		defaultBranch: defaultBranch,
		visibility:    VisibilityPrivate,
		settings:      DefaultSettings(),
		metadata:      make(map[string]string),
		createdAt:     now,
		updatedAt:     now,
	}

	p.Append(event.ProjectCreated{
		ProjectID:     p.id,
		Name:          name,
		RepositoryURL: repositoryURL,
		At:            now,
	})

	return p, nil
}

// ID returns the project ID.
func (p *Project) ID() identity.ProjectID { return p.id }

// Name returns the project name.
func (p *Project) Name() string { return p.name }

// Description returns the project description.
func (p *Project) Description() string { return p.description }

// RepositoryURL returns the git repository URL.
func (p *Project) RepositoryURL() string { return p.repositoryURL }

// DefaultBranch returns the default branch name.
func (p *Project) DefaultBranch() string { return p.defaultBranch }

// Visibility returns the visibility level.
func (p *Project) Visibility() Visibility { return p.visibility }

// Settings returns the build policy settings.
func (p *Project) Settings() Settings { return p.settings }

// Metadata returns a copy of the metadata map.
func (p *Project) Metadata() map[string]string {
	m := make(map[string]string, len(p.metadata))
	for k, v := range p.metadata {
		m[k] = v
	}
	return m
}

// CreatedAt returns when the project was created.
func (p *Project) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns when the project was last mutated.
func (p *Project) UpdatedAt() time.Time { return p.updatedAt }

// SetDescription replaces the project description.
func (p *Project) SetDescription(description string) {
	p.description = description
	p.updatedAt = time.Now()
}

// UpdateSettings replaces the build policy settings.
func (p *Project) UpdateSettings(settings Settings) {
	p.settings = settings
	p.updatedAt = time.Now()
}

// SetVisibility changes the visibility level.
func (p *Project) SetVisibility(v Visibility) error {
	if !v.IsValid() {
		return fault.Validationf("unknown visibility %q", v)
	}
	p.visibility = v
	p.updatedAt = time.Now()
	return nil
}

// AddMetadata sets a metadata key.
func (p *Project) AddMetadata(key, value string) {
	p.metadata[key] = value
	p.updatedAt = time.Now()
}
