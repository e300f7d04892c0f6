package build

// Status is the lifecycle state of a build.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusRunning   Status = "Running"
	StatusSuccess   Status = "Success"
	StatusFailed    Status = "Failed"
	StatusCancelled Status = "Cancelled"
)

var buildTransitions = map[Status][]Status{
	StatusPending: {StatusRunning, StatusCancelled},
	StatusRunning: {StatusSuccess, StatusFailed, StatusCancelled},
}

// CanTransitionTo reports whether the status may move to target. Terminal
// statuses have no outgoing transitions.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range buildTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the build has finished for good.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsInProgress reports whether the build is executing on an agent.
func (s Status) IsInProgress() bool { return s == StatusRunning }

// IsSuccess reports whether the build completed successfully.
func (s Status) IsSuccess() bool { return s == StatusSuccess }

// IsFailed reports whether the build failed.
func (s Status) IsFailed() bool { return s == StatusFailed }

// Description returns a human-readable description of the status.
func (s Status) Description() string {
	switch s {
	case StatusPending:
		return "Waiting to start"
	case StatusRunning:
		return "Running"
	case StatusSuccess:
		return "Completed successfully"
	case StatusFailed:
		return "Failed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

func (s Status) String() string { return string(s) }

// StageStatus is the lifecycle state of a stage within a build.
type StageStatus string

const (
	StagePending   StageStatus = "Pending"
	StageRunning   StageStatus = "Running"
	StageSuccess   StageStatus = "Success"
	StageFailed    StageStatus = "Failed"
	StageCancelled StageStatus = "Cancelled"
	StageSkipped   StageStatus = "Skipped"
)

var stageTransitions = map[StageStatus][]StageStatus{
	StagePending: {StageRunning, StageCancelled, StageSkipped},
	StageRunning: {StageSuccess, StageFailed, StageCancelled},
}

// CanTransitionTo reports whether the stage status may move to target.
func (s StageStatus) CanTransitionTo(target StageStatus) bool {
	for _, t := range stageTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the stage has finished for good.
func (s StageStatus) IsTerminal() bool {
	switch s {
	case StageSuccess, StageFailed, StageCancelled, StageSkipped:
		return true
	default:
		return false
	}
}

func (s StageStatus) String() string { return string(s) }

// JobStatus is the lifecycle state of a job within a stage. Jobs pass
// through Queued between Pending and Running; a failed job may return to
// Queued when retried.
type JobStatus string

const (
	JobPending   JobStatus = "Pending"
	JobQueued    JobStatus = "Queued"
	JobRunning   JobStatus = "Running"
	JobSuccess   JobStatus = "Success"
	JobFailed    JobStatus = "Failed"
	JobCancelled JobStatus = "Cancelled"
	JobSkipped   JobStatus = "Skipped"
)

var jobTransitions = map[JobStatus][]JobStatus{
	JobPending: {JobQueued, JobCancelled, JobSkipped},
	JobQueued:  {JobRunning, JobCancelled, JobSkipped},
	JobRunning: {JobSuccess, JobFailed, JobCancelled},
	JobFailed:  {JobQueued},
}

// CanTransitionTo reports whether the job status may move to target.
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	for _, t := range jobTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the job has finished. A Failed job is only
// conditionally terminal; retries are gated by the job's attempt budget.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobSuccess, JobFailed, JobCancelled, JobSkipped:
		return true
	default:
		return false
	}
}

func (s JobStatus) String() string { return string(s) }
