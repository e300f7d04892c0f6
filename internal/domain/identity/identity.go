// Package identity provides the typed identifiers used across the domain.
// Each entity kind gets its own opaque ID type so a BuildID can never be
// passed where a PipelineID is expected. IDs are UUIDv4 under the hood and
// round-trip through their string form.
package identity

import (
	"fmt"

	"github.com/google/uuid"
)

func newID() string { return uuid.NewString() }

func parseID(kind, s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid %s id %q: %w", kind, s, err)
	}
	return u.String(), nil
}

func short(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// PipelineID identifies a pipeline definition.
type PipelineID string

// NewPipelineID returns a fresh unique PipelineID.
func NewPipelineID() PipelineID { return PipelineID(newID()) }

// ParsePipelineID parses the string form of a PipelineID.
func ParsePipelineID(s string) (PipelineID, error) {
	id, err := parseID("pipeline", s)
	return PipelineID(id), err
}

func (id PipelineID) String() string { return string(id) }

// Short returns the first 8 characters for display.
func (id PipelineID) Short() string { return short(string(id)) }

// IsZero reports whether the ID is unset.
func (id PipelineID) IsZero() bool { return id == "" }

// BuildID identifies one execution instance of a pipeline.
type BuildID string

// NewBuildID returns a fresh unique BuildID.
func NewBuildID() BuildID { return BuildID(newID()) }

// ParseBuildID parses the string form of a BuildID.
func ParseBuildID(s string) (BuildID, error) {
	id, err := parseID("build", s)
	return BuildID(id), err
}

func (id BuildID) String() string { return string(id) }

// Short returns the first 8 characters for display.
func (id BuildID) Short() string { return short(string(id)) }

// IsZero reports whether the ID is unset.
func (id BuildID) IsZero() bool { return id == "" }

// StageID identifies a runtime stage within a build.
type StageID string

// NewStageID returns a fresh unique StageID.
func NewStageID() StageID { return StageID(newID()) }

// ParseStageID parses the string form of a StageID.
func ParseStageID(s string) (StageID, error) {
	id, err := parseID("stage", s)
	return StageID(id), err
}

func (id StageID) String() string { return string(id) }

// Short returns the first 8 characters for display.
func (id StageID) Short() string { return short(string(id)) }

// IsZero reports whether the ID is unset.
func (id StageID) IsZero() bool { return id == "" }

// JobID identifies a runtime job within a build.
type JobID string

// NewJobID returns a fresh unique JobID.
func NewJobID() JobID { return JobID(newID()) }

// ParseJobID parses the string form of a JobID.
func ParseJobID(s string) (JobID, error) {
	id, err := parseID("job", s)
	return JobID(id), err
}

func (id JobID) String() string { return string(id) }

// Short returns the first 8 characters for display.
func (id JobID) Short() string { return short(string(id)) }

// IsZero reports whether the ID is unset.
func (id JobID) IsZero() bool { return id == "" }

// AgentID identifies a build agent.
type AgentID string

// NewAgentID returns a fresh unique AgentID.
func NewAgentID() AgentID { return AgentID(newID()) }

// ParseAgentID parses the string form of an AgentID.
func ParseAgentID(s string) (AgentID, error) {
	id, err := parseID("agent", s)
	return AgentID(id), err
}

func (id AgentID) String() string { return string(id) }

// Short returns the first 8 characters for display.
func (id AgentID) Short() string { return short(string(id)) }

// IsZero reports whether the ID is unset.
func (id AgentID) IsZero() bool { return id == "" }

// ProjectID identifies a project.
type ProjectID string

// NewProjectID returns a fresh unique ProjectID.
func NewProjectID() ProjectID { return ProjectID(newID()) }

// ParseProjectID parses the string form of a ProjectID.
func ParseProjectID(s string) (ProjectID, error) {
	id, err := parseID("project", s)
	return ProjectID(id), err
}

func (id ProjectID) String() string { return string(id) }

// Short returns the first 8 characters for display.
func (id ProjectID) Short() string { return short(string(id)) }

// IsZero reports whether the ID is unset.
func (id ProjectID) IsZero() bool { return id == "" }

// UserID identifies a system user.
type UserID string

// NewUserID returns a fresh unique UserID.
func NewUserID() UserID { return UserID(newID()) }

// ParseUserID parses the string form of a UserID.
func ParseUserID(s string) (UserID, error) {
	id, err := parseID("user", s)
	return UserID(id), err
}

func (id UserID) String() string { return string(id) }

// Short returns the first 8 characters for display.
func (id UserID) Short() string { return short(string(id)) }

// IsZero reports whether the ID is unset.
func (id UserID) IsZero() bool { return id == "" }

// ArtifactID identifies a build artifact.
type ArtifactID string

// NewArtifactID returns a fresh unique ArtifactID.
func NewArtifactID() ArtifactID { return ArtifactID(newID()) }

// ParseArtifactID parses the string form of an ArtifactID.
func ParseArtifactID(s string) (ArtifactID, error) {
	id, err := parseID("artifact", s)
	return ArtifactID(id), err
}

func (id ArtifactID) String() string { return string(id) }

// Short returns the first 8 characters for display.
func (id ArtifactID) Short() string { return short(string(id)) }

// IsZero reports whether the ID is unset.
func (id ArtifactID) IsZero() bool { return id == "" }

// WorkspaceID identifies a build workspace.
type WorkspaceID string

// NewWorkspaceID returns a fresh unique WorkspaceID.
func NewWorkspaceID() WorkspaceID { return WorkspaceID(newID()) }

// ParseWorkspaceID parses the string form of a WorkspaceID.
func ParseWorkspaceID(s string) (WorkspaceID, error) {
	id, err := parseID("workspace", s)
	return WorkspaceID(id), err
}

func (id WorkspaceID) String() string { return string(id) }

// Short returns the first 8 characters for display.
func (id WorkspaceID) Short() string { return short(string(id)) }

// IsZero reports whether the ID is unset.
func (id WorkspaceID) IsZero() bool { return id == "" }
