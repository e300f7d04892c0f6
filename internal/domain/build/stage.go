package build

import (
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// Stage groups the jobs of one phase of a build. Stages belong to a Build
// and emit no events of their own.
type Stage struct {
	id          identity.StageID
	buildID     identity.BuildID
	name        string
	status      StageStatus
	jobIDs      []identity.JobID
	startedAt   time.Time
	completedAt time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// NewStage creates a pending stage for a build.
func NewStage(buildID identity.BuildID, name string) *Stage {
	now := time.Now()
	return &Stage{
		id:        identity.NewStageID(),
		buildID:   buildID,
		name:      name,
		status:    StagePending,
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the stage ID.
func (s *Stage) ID() identity.StageID { return s.id }

// BuildID returns the build this stage belongs to.
func (s *Stage) BuildID() identity.BuildID { return s.buildID }

// Name returns the stage name.
func (s *Stage) Name() string { return s.name }

// Status returns the current lifecycle status.
func (s *Stage) Status() StageStatus { return s.status }

// JobIDs returns the IDs of the jobs in this stage.
func (s *Stage) JobIDs() []identity.JobID { return s.jobIDs }

// StartedAt returns when the stage started, zero if it never ran.
func (s *Stage) StartedAt() time.Time { return s.startedAt }

// CompletedAt returns when the stage reached a terminal status.
func (s *Stage) CompletedAt() time.Time { return s.completedAt }

// Duration returns how long the stage ran, zero until it has both started
// and completed.
func (s *Stage) Duration() time.Duration {
	if s.startedAt.IsZero() || s.completedAt.IsZero() {
		return 0
	}
	return s.completedAt.Sub(s.startedAt)
}

// AddJob attaches a job to the stage, ignoring duplicates.
func (s *Stage) AddJob(jobID identity.JobID) {
	for _, id := range s.jobIDs {
		if id == jobID {
			return
		}
	}
	s.jobIDs = append(s.jobIDs, jobID)
	s.updatedAt = time.Now()
}

// Start moves the stage from Pending to Running.
func (s *Stage) Start() error {
	if s.status != StagePending {
		return fault.InvalidStatef("stage %q is %s, not pending", s.name, s.status)
	}
	now := time.Now()
	s.status = StageRunning
	s.startedAt = now
	s.updatedAt = now
	return nil
}

// Succeed moves the stage from Running to Success.
func (s *Stage) Succeed() error {
	if s.status != StageRunning {
		return fault.InvalidStatef("stage %q is %s, not running", s.name, s.status)
	}
	now := time.Now()
	s.status = StageSuccess
	s.completedAt = now
	s.updatedAt = now
	return nil
}

// Fail moves the stage from Running to Failed.
func (s *Stage) Fail() error {
	if s.status != StageRunning {
		return fault.InvalidStatef("stage %q is %s, not running", s.name, s.status)
	}
	now := time.Now()
	s.status = StageFailed
	s.completedAt = now
	s.updatedAt = now
	return nil
}

// Cancel moves a non-terminal stage to Cancelled.
func (s *Stage) Cancel() error {
	if s.status.IsTerminal() {
		return fault.InvalidStatef("stage %q already finished as %s", s.name, s.status)
	}
	now := time.Now()
	s.status = StageCancelled
	s.completedAt = now
	s.updatedAt = now
	return nil
}

// Skip marks a stage that never ran as Skipped. Only a Pending stage can
// be skipped.
func (s *Stage) Skip() error {
	if s.status != StagePending {
		return fault.InvalidStatef("stage %q is %s, cannot skip", s.name, s.status)
	}
	s.status = StageSkipped
	s.updatedAt = time.Now()
	return nil
}
