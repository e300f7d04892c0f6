// Package artifact provides the build artifact entity: a file produced by
// a build, tracked with its checksum, size, and expiry.
package artifact

import (
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// Type classifies what an artifact contains.
type Type string

const (
	TypeBuildOutput    Type = "BuildOutput"
	TypeTestResults    Type = "TestResults"
	TypeCoverage       Type = "Coverage"
	TypeDocumentation  Type = "Documentation"
	TypeContainerImage Type = "ContainerImage"
	TypeArchive        Type = "Archive"
	TypeLogs           Type = "Logs"
	TypeOther          Type = "Other"
)

// Artifact records one file produced by a build. Expiry is either explicit
// through Expire or implied by a deadline; both make IsExpired true.
type Artifact struct {
	id          identity.ArtifactID
	buildID     identity.BuildID
	name        string
	path        string
	kind        Type
	size        uint64
	checksum    string
	contentType string
	expired     bool
	expiresAt   time.Time
	createdAt   time.Time
	accessedAt  time.Time
}

// New creates an artifact record with the default content type.
func New(buildID identity.BuildID, name, path string, size uint64, checksum string, kind Type) *Artifact {
	now := time.Now()
	return &Artifact{
		id:          identity.NewArtifactID(),
		buildID:     buildID,
		name:        name,
		path:        path,
		kind:        kind,
		size:        size,
		checksum:    checksum,
		contentType: "application/octet-stream",
		createdAt:   now,
		accessedAt:  now,
	}
}

// ID returns the artifact ID.
func (a *Artifact) ID() identity.ArtifactID { return a.id }

// BuildID returns the build that produced this artifact.
func (a *Artifact) BuildID() identity.BuildID { return a.buildID }

// Name returns the artifact name.
func (a *Artifact) Name() string { return a.name }

// Path returns the storage path.
func (a *Artifact) Path() string { return a.path }

// Kind returns the artifact classification.
func (a *Artifact) Kind() Type { return a.kind }

// Size returns the file size in bytes.
func (a *Artifact) Size() uint64 { return a.size }

// Checksum returns the SHA-256 checksum.
func (a *Artifact) Checksum() string { return a.checksum }

// ContentType returns the MIME type.
func (a *Artifact) ContentType() string { return a.contentType }

// AccessedAt returns when the artifact was last read.
func (a *Artifact) AccessedAt() time.Time { return a.accessedAt }

// CreatedAt returns when the artifact was recorded.
func (a *Artifact) CreatedAt() time.Time { return a.createdAt }

// IsExpired reports whether the artifact is past its lifetime, either
// marked explicitly or past its deadline.
func (a *Artifact) IsExpired() bool {
	if a.expired {
		return true
	}
	if !a.expiresAt.IsZero() {
		return time.Now().After(a.expiresAt)
	}
	return false
}

// SetContentType overrides the MIME type.
func (a *Artifact) SetContentType(contentType string) {
	a.contentType = contentType
}

// SetExpiration sets the expiry deadline.
func (a *Artifact) SetExpiration(at time.Time) {
	a.expiresAt = at
}

// Expire marks the artifact expired regardless of deadline.
func (a *Artifact) Expire() {
	a.expired = true
}

// RecordAccess stamps the last access time.
func (a *Artifact) RecordAccess() {
	a.accessedAt = time.Now()
}

// Validate checks the record is complete enough to store.
func (a *Artifact) Validate() error {
	if a.name == "" {
		return fault.Validation("artifact name cannot be empty")
	}
	if a.path == "" {
		return fault.Validation("artifact path cannot be empty")
	}
	if a.checksum == "" {
		return fault.Validation("artifact checksum cannot be empty")
	}
	return nil
}
