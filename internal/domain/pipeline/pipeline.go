// Package pipeline provides the pipeline definition aggregate and the YAML
// configuration it carries. A pipeline describes what to run; builds record
// individual runs of it.
package pipeline

import (
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// Pipeline is the aggregate root for a CI pipeline definition. The version
// counter starts at 1 and increments on every accepted config update.
type Pipeline struct {
	id          identity.PipelineID
	projectID   identity.ProjectID
	name        string
	description string
	config      Config
	enabled     bool
	version     uint32
	tags        []string
	environment map[string]string
	createdAt   time.Time
	updatedAt   time.Time

	event.Buffer
}

// New creates an enabled pipeline at version 1 and emits PipelineCreated.
// The config must already be valid.
func New(projectID identity.ProjectID, name string, config Config) (*Pipeline, error) {
	if name == "" {
		return nil, fault.Validation("pipeline name cannot be empty")
	}
	if len(name) > 255 {
		return nil, fault.Validation("pipeline name is too long")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Pipeline{
		id:          identity.NewPipelineID(),
		projectID:   projectID,
		name:        name,
		config:      config,
		enabled:     true,
		version:     1,
		environment: make(map[string]string),
		createdAt:   now,
		updatedAt:   now,
	}

	p.Append(event.PipelineCreated{
		PipelineID: p.id,
		ProjectID:  projectID,
		Name:       name,
		At:         now,
	})

	return p, nil
}

// ID returns the pipeline ID.
func (p *Pipeline) ID() identity.PipelineID { return p.id }

// ProjectID returns the owning project's ID.
func (p *Pipeline) ProjectID() identity.ProjectID { return p.projectID }

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// Description returns the pipeline description.
func (p *Pipeline) Description() string { return p.description }

// Config returns the current configuration.
func (p *Pipeline) Config() Config { return p.config }

// IsEnabled reports whether the pipeline accepts new builds.
func (p *Pipeline) IsEnabled() bool { return p.enabled }

// Version returns the configuration version counter.
func (p *Pipeline) Version() uint32 { return p.version }

// Tags returns the pipeline's tags.
func (p *Pipeline) Tags() []string { return p.tags }

// CreatedAt returns when the pipeline was created.
func (p *Pipeline) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns when the pipeline was last mutated.
func (p *Pipeline) UpdatedAt() time.Time { return p.updatedAt }

// UpdateConfig replaces the configuration, bumps the version, and emits
// PipelineConfigUpdated. An invalid config is rejected and the pipeline is
// left untouched.
func (p *Pipeline) UpdateConfig(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	old := p.version
	p.config = config
	p.version++
	p.updatedAt = time.Now()

	p.Append(event.PipelineConfigUpdated{
		PipelineID: p.id,
		OldVersion: old,
		NewVersion: p.version,
		At:         p.updatedAt,
	})

	return nil
}

// Enable turns the pipeline on. Enabling an enabled pipeline is a no-op
// and emits nothing.
func (p *Pipeline) Enable() {
	if p.enabled {
		return
	}
	p.enabled = true
	p.updatedAt = time.Now()
	p.Append(event.PipelineEnabled{PipelineID: p.id, At: p.updatedAt})
}

// Disable turns the pipeline off. Disabling a disabled pipeline is a no-op
// and emits nothing.
func (p *Pipeline) Disable() {
	if !p.enabled {
		return
	}
	p.enabled = false
	p.updatedAt = time.Now()
	p.Append(event.PipelineDisabled{PipelineID: p.id, At: p.updatedAt})
}

// AddTag adds a tag, ignoring duplicates.
func (p *Pipeline) AddTag(tag string) {
	for _, t := range p.tags {
		if t == tag {
			return
		}
	}
	p.tags = append(p.tags, tag)
	p.updatedAt = time.Now()
}

// RemoveTag removes a tag if present.
func (p *Pipeline) RemoveTag(tag string) {
	for i, t := range p.tags {
		if t == tag {
			p.tags = append(p.tags[:i], p.tags[i+1:]...)
			p.updatedAt = time.Now()
			return
		}
	}
}

// SetEnvironment sets a pipeline-level environment variable.
func (p *Pipeline) SetEnvironment(key, value string) {
	p.environment[key] = value
	p.updatedAt = time.Now()
}

// RemoveEnvironment unsets a pipeline-level environment variable.
func (p *Pipeline) RemoveEnvironment(key string) {
	delete(p.environment, key)
	p.updatedAt = time.Now()
}

// Environment returns a copy of the pipeline-level environment.
func (p *Pipeline) Environment() map[string]string {
	m := make(map[string]string, len(p.environment))
	for k, v := range p.environment {
		m[k] = v
	}
	return m
}
