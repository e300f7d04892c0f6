// Package workspace provides the build workspace entity: a checkout
// directory on an agent with a cleanup lifecycle.
package workspace

import (
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// Status is the lifecycle state of a workspace.
type Status string

const (
	StatusInitializing Status = "Initializing"
	StatusReady        Status = "Ready"
	StatusInUse        Status = "InUse"
	StatusCleaningUp   Status = "CleaningUp"
	StatusCleaned      Status = "Cleaned"
	StatusError        Status = "Error"
)

func (s Status) String() string { return string(s) }

// Workspace tracks the directory a build runs in. The happy path is
// Initializing, Ready, InUse, CleaningUp, Cleaned; Error may be entered
// from any state.
type Workspace struct {
	id            identity.WorkspaceID
	buildID       identity.BuildID
	agentID       identity.AgentID
	path          string
	status        Status
	size          uint64
	repositoryURL string
	commit        string
	branch        string
	cleanupOnDone bool
	createdAt     time.Time
	updatedAt     time.Time
}

// New creates an initializing workspace that cleans up after its build.
func New(buildID identity.BuildID, path string) *Workspace {
	now := time.Now()
	return &Workspace{
		id:            identity.NewWorkspaceID(),
		buildID:       buildID,
		path:          path,
		status:        StatusInitializing,
		cleanupOnDone: true,
		createdAt:     now,
		updatedAt:     now,
	}
}

// ID returns the workspace ID.
func (w *Workspace) ID() identity.WorkspaceID { return w.id }

// BuildID returns the build using this workspace.
func (w *Workspace) BuildID() identity.BuildID { return w.buildID }

// AgentID returns the hosting agent's ID, zero until assigned.
func (w *Workspace) AgentID() identity.AgentID { return w.agentID }

// Path returns the directory path.
func (w *Workspace) Path() string { return w.path }

// Status returns the lifecycle state.
func (w *Workspace) Status() Status { return w.status }

// Size returns the directory size in bytes.
func (w *Workspace) Size() uint64 { return w.size }

// RepositoryURL returns the checked-out repository URL.
func (w *Workspace) RepositoryURL() string { return w.repositoryURL }

// Commit returns the checked-out commit.
func (w *Workspace) Commit() string { return w.commit }

// Branch returns the checked-out branch.
func (w *Workspace) Branch() string { return w.branch }

// CleanupOnCompletion reports whether the workspace is removed after its
// build finishes.
func (w *Workspace) CleanupOnCompletion() bool { return w.cleanupOnDone }

// AssignToAgent records the hosting agent.
func (w *Workspace) AssignToAgent(agentID identity.AgentID) {
	w.agentID = agentID
	w.updatedAt = time.Now()
}

// SetRepository records what is checked out in the workspace.
func (w *Workspace) SetRepository(url, commit, branch string) {
	w.repositoryURL = url
	w.commit = commit
	w.branch = branch
	w.updatedAt = time.Now()
}

// MarkReady moves the workspace from Initializing to Ready.
func (w *Workspace) MarkReady() error {
	if w.status != StatusInitializing {
		return fault.InvalidStatef("workspace is %s, not initializing", w.status)
	}
	w.status = StatusReady
	w.updatedAt = time.Now()
	return nil
}

// MarkInUse moves the workspace from Ready to InUse.
func (w *Workspace) MarkInUse() error {
	if w.status != StatusReady {
		return fault.InvalidStatef("workspace is %s, not ready", w.status)
	}
	w.status = StatusInUse
	w.updatedAt = time.Now()
	return nil
}

// StartCleanup begins removal. Cleanup cannot start twice.
func (w *Workspace) StartCleanup() error {
	if w.status == StatusCleaningUp || w.status == StatusCleaned {
		return fault.InvalidState("workspace is already being cleaned")
	}
	w.status = StatusCleaningUp
	w.updatedAt = time.Now()
	return nil
}

// MarkCleaned finishes removal and zeroes the recorded size.
func (w *Workspace) MarkCleaned() error {
	if w.status != StatusCleaningUp {
		return fault.InvalidStatef("workspace is %s, not being cleaned", w.status)
	}
	w.status = StatusCleaned
	w.size = 0
	w.updatedAt = time.Now()
	return nil
}

// MarkError moves the workspace to Error from any state.
func (w *Workspace) MarkError() {
	w.status = StatusError
	w.updatedAt = time.Now()
}

// UpdateSize records the current directory size.
func (w *Workspace) UpdateSize(size uint64) {
	w.size = size
	w.updatedAt = time.Now()
}

// SetCleanupOnCompletion sets the cleanup policy.
func (w *Workspace) SetCleanupOnCompletion(cleanup bool) {
	w.cleanupOnDone = cleanup
	w.updatedAt = time.Now()
}
