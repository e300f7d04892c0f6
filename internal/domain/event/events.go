package event

import (
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// The closed set of event kinds. Each struct carries only the identifiers
// and timestamp of the fact it records; statuses and roles travel as their
// string form so this package stays a leaf.

// BuildCreated is emitted when a new build is created.
type BuildCreated struct {
	BuildID    identity.BuildID
	PipelineID identity.PipelineID
	ProjectID  identity.ProjectID
	Number     uint64
	At         time.Time
}

func (e BuildCreated) EventName() string     { return "build.created" }
func (e BuildCreated) OccurredAt() time.Time { return e.At }

// BuildStarted is emitted when an agent picks up a build.
type BuildStarted struct {
	BuildID identity.BuildID
	AgentID identity.AgentID
	At      time.Time
}

func (e BuildStarted) EventName() string     { return "build.started" }
func (e BuildStarted) OccurredAt() time.Time { return e.At }

// BuildCompleted is emitted when a build reaches Success or Failed.
type BuildCompleted struct {
	BuildID identity.BuildID
	Status  string
	At      time.Time
}

func (e BuildCompleted) EventName() string     { return "build.completed" }
func (e BuildCompleted) OccurredAt() time.Time { return e.At }

// BuildCancelled is emitted when a non-terminal build is cancelled.
type BuildCancelled struct {
	BuildID identity.BuildID
	At      time.Time
}

func (e BuildCancelled) EventName() string     { return "build.cancelled" }
func (e BuildCancelled) OccurredAt() time.Time { return e.At }

// PipelineCreated is emitted when a pipeline definition is created.
type PipelineCreated struct {
	PipelineID identity.PipelineID
	ProjectID  identity.ProjectID
	Name       string
	At         time.Time
}

func (e PipelineCreated) EventName() string     { return "pipeline.created" }
func (e PipelineCreated) OccurredAt() time.Time { return e.At }

// PipelineConfigUpdated is emitted on a successful configuration update.
type PipelineConfigUpdated struct {
	PipelineID identity.PipelineID
	OldVersion uint32
	NewVersion uint32
	At         time.Time
}

func (e PipelineConfigUpdated) EventName() string     { return "pipeline.config_updated" }
func (e PipelineConfigUpdated) OccurredAt() time.Time { return e.At }

// PipelineEnabled is emitted when a disabled pipeline is enabled.
type PipelineEnabled struct {
	PipelineID identity.PipelineID
	At         time.Time
}

func (e PipelineEnabled) EventName() string     { return "pipeline.enabled" }
func (e PipelineEnabled) OccurredAt() time.Time { return e.At }

// PipelineDisabled is emitted when an enabled pipeline is disabled.
type PipelineDisabled struct {
	PipelineID identity.PipelineID
	At         time.Time
}

func (e PipelineDisabled) EventName() string     { return "pipeline.disabled" }
func (e PipelineDisabled) OccurredAt() time.Time { return e.At }

// ProjectCreated is emitted when a project is created.
type ProjectCreated struct {
	ProjectID     identity.ProjectID
	Name          string
	RepositoryURL string
	At            time.Time
}

func (e ProjectCreated) EventName() string     { return "project.created" }
func (e ProjectCreated) OccurredAt() time.Time { return e.At }

// AgentRegistered is emitted once, when an agent aggregate is constructed.
type AgentRegistered struct {
	AgentID identity.AgentID
	Name    string
	At      time.Time
}

func (e AgentRegistered) EventName() string     { return "agent.registered" }
func (e AgentRegistered) OccurredAt() time.Time { return e.At }

// AgentDisconnected is emitted when an agent goes offline, whether by an
// explicit disconnect or the dead-agent reaper.
type AgentDisconnected struct {
	AgentID identity.AgentID
	At      time.Time
}

func (e AgentDisconnected) EventName() string     { return "agent.disconnected" }
func (e AgentDisconnected) OccurredAt() time.Time { return e.At }

// UserCreated is emitted when a user account is created.
type UserCreated struct {
	UserID   identity.UserID
	Username string
	Email    string
	Role     string
	At       time.Time
}

func (e UserCreated) EventName() string     { return "user.created" }
func (e UserCreated) OccurredAt() time.Time { return e.At }

// UserPasswordChanged is emitted when a user's password hash is replaced.
type UserPasswordChanged struct {
	UserID identity.UserID
	At     time.Time
}

func (e UserPasswordChanged) EventName() string     { return "user.password_changed" }
func (e UserPasswordChanged) OccurredAt() time.Time { return e.At }

// UserDeactivated is emitted when an active user is deactivated.
type UserDeactivated struct {
	UserID identity.UserID
	At     time.Time
}

func (e UserDeactivated) EventName() string     { return "user.deactivated" }
func (e UserDeactivated) OccurredAt() time.Time { return e.At }
