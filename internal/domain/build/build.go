// Package build provides the execution-side aggregates: a Build records one
// run of a pipeline, split into stages which group jobs. Each carries a
// lifecycle status with an explicit transition table.
package build

import (
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// Build is the aggregate root for one execution of a pipeline. Numbers are
// sequential per pipeline, assigned at creation and never reused.
type Build struct {
	id            identity.BuildID
	pipelineID    identity.PipelineID
	projectID     identity.ProjectID
	number        uint64
	status        Status
	commitSHA     string
	branch        string
	commitMessage string
	commitAuthor  string
	agentID       identity.AgentID
	parameters    map[string]string
	environment   map[string]string
	startedAt     time.Time
	completedAt   time.Time
	trigger       Trigger
	logsURL       string
	artifacts     []string
	errorMessage  string
	createdAt     time.Time
	updatedAt     time.Time

	event.Buffer
}

// New creates a pending build and emits BuildCreated. The number must come
// from the repository's per-pipeline counter.
func New(pipelineID identity.PipelineID, projectID identity.ProjectID, number uint64, commitSHA, branch string, trigger Trigger) *Build {
	now := time.Now()
	b := &Build{
		id:          identity.NewBuildID(),
		pipelineID:  pipelineID,
		projectID:   projectID,
		number:      number,
		status:      StatusPending,
		commitSHA:   commitSHA,
		branch:      branch,
		parameters:  make(map[string]string),
		environment: make(map[string]string),
		trigger:     trigger,
		createdAt:   now,
		updatedAt:   now,
	}

	b.Append(event.BuildCreated{
		BuildID:    b.id,
		PipelineID: pipelineID,
		ProjectID:  projectID,
		Number:     number,
		At:         now,
	})

	return b
}

// ID returns the build ID.
func (b *Build) ID() identity.BuildID { return b.id }

// PipelineID returns the pipeline this build runs.
func (b *Build) PipelineID() identity.PipelineID { return b.pipelineID }

// ProjectID returns the owning project's ID.
func (b *Build) ProjectID() identity.ProjectID { return b.projectID }

// Number returns the per-pipeline sequential build number.
func (b *Build) Number() uint64 { return b.number }

// Status returns the current lifecycle status.
func (b *Build) Status() Status { return b.status }

// CommitSHA returns the commit being built.
func (b *Build) CommitSHA() string { return b.commitSHA }

// Branch returns the branch being built.
func (b *Build) Branch() string { return b.branch }

// Trigger returns what caused the build.
func (b *Build) Trigger() Trigger { return b.trigger }

// AgentID returns the executing agent's ID, zero until the build starts.
func (b *Build) AgentID() identity.AgentID { return b.agentID }

// StartedAt returns when the build started, zero if it never ran.
func (b *Build) StartedAt() time.Time { return b.startedAt }

// CompletedAt returns when the build reached a terminal status.
func (b *Build) CompletedAt() time.Time { return b.completedAt }

// ErrorMessage returns the failure reason, empty unless the build failed.
func (b *Build) ErrorMessage() string { return b.errorMessage }

// LogsURL returns where the build logs are stored.
func (b *Build) LogsURL() string { return b.logsURL }

// Artifacts returns the artifact paths recorded for this build.
func (b *Build) Artifacts() []string { return b.artifacts }

// CreatedAt returns when the build was created.
func (b *Build) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns when the build was last mutated.
func (b *Build) UpdatedAt() time.Time { return b.updatedAt }

// Duration returns how long the build ran. It is zero until the build has
// both started and completed.
func (b *Build) Duration() time.Duration {
	if b.startedAt.IsZero() || b.completedAt.IsZero() {
		return 0
	}
	return b.completedAt.Sub(b.startedAt)
}

// Start moves the build from Pending to Running, records the executing
// agent, and emits BuildStarted.
func (b *Build) Start(agentID identity.AgentID) error {
	if b.status != StatusPending {
		return fault.InvalidStatef("build %d is %s, not pending", b.number, b.status)
	}

	now := time.Now()
	b.status = StatusRunning
	b.agentID = agentID
	b.startedAt = now
	b.updatedAt = now

	b.Append(event.BuildStarted{BuildID: b.id, AgentID: agentID, At: now})
	return nil
}

// Succeed moves the build from Running to Success and emits BuildCompleted.
func (b *Build) Succeed() error {
	if b.status != StatusRunning {
		return fault.InvalidStatef("build %d is %s, not running", b.number, b.status)
	}

	now := time.Now()
	b.status = StatusSuccess
	b.completedAt = now
	b.updatedAt = now

	b.Append(event.BuildCompleted{BuildID: b.id, Status: string(StatusSuccess), At: now})
	return nil
}

// Fail moves the build from Running to Failed, records the reason, and
// emits BuildCompleted.
func (b *Build) Fail(errorMessage string) error {
	if b.status != StatusRunning {
		return fault.InvalidStatef("build %d is %s, not running", b.number, b.status)
	}

	now := time.Now()
	b.status = StatusFailed
	b.errorMessage = errorMessage
	b.completedAt = now
	b.updatedAt = now

	b.Append(event.BuildCompleted{BuildID: b.id, Status: string(StatusFailed), At: now})
	return nil
}

// Cancel moves a non-terminal build to Cancelled and emits BuildCancelled.
// Cancelling a build that has already finished, including one already
// cancelled, is an error.
func (b *Build) Cancel() error {
	if b.status.IsTerminal() {
		return fault.InvalidStatef("build %d already finished as %s", b.number, b.status)
	}

	now := time.Now()
	b.status = StatusCancelled
	b.completedAt = now
	b.updatedAt = now

	b.Append(event.BuildCancelled{BuildID: b.id, At: now})
	return nil
}

// AddParameter records a build parameter.
func (b *Build) AddParameter(key, value string) {
	b.parameters[key] = value
	b.updatedAt = time.Now()
}

// AddEnvironment records a build-level environment variable.
func (b *Build) AddEnvironment(key, value string) {
	b.environment[key] = value
	b.updatedAt = time.Now()
}

// AddArtifact records an artifact path, ignoring duplicates.
func (b *Build) AddArtifact(path string) {
	for _, a := range b.artifacts {
		if a == path {
			return
		}
	}
	b.artifacts = append(b.artifacts, path)
	b.updatedAt = time.Now()
}

// SetCommitDetails records the commit message and author.
func (b *Build) SetCommitDetails(message, author string) {
	b.commitMessage = message
	b.commitAuthor = author
	b.updatedAt = time.Now()
}

// SetLogsURL records where the build logs live.
func (b *Build) SetLogsURL(url string) {
	b.logsURL = url
	b.updatedAt = time.Now()
}
