package build

import (
	"strings"
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// DefaultJobTimeout bounds a job that declares no timeout of its own.
const DefaultJobTimeout = 3600 * time.Second

// Job is a unit of work within a stage. A job is retried by returning it
// to Queued; the attempt counter only ever moves forward.
type Job struct {
	id          identity.JobID
	buildID     identity.BuildID
	name        string
	stage       string
	status      JobStatus
	agentID     identity.AgentID
	image       string
	commands    []string
	environment map[string]string
	workingDir  string
	timeout     time.Duration
	retry       uint32
	attempt     uint32
	deps        []string
	logs        strings.Builder
	startedAt   time.Time
	completedAt time.Time
	exitCode    int
	exited      bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewJob creates a pending job in the named stage.
func NewJob(buildID identity.BuildID, name, stage string, commands []string) *Job {
	now := time.Now()
	return &Job{
		id:          identity.NewJobID(),
		buildID:     buildID,
		name:        name,
		stage:       stage,
		status:      JobPending,
		commands:    commands,
		environment: make(map[string]string),
		timeout:     DefaultJobTimeout,
		createdAt:   now,
		updatedAt:   now,
	}
}

// ID returns the job ID.
func (j *Job) ID() identity.JobID { return j.id }

// BuildID returns the build this job belongs to.
func (j *Job) BuildID() identity.BuildID { return j.buildID }

// Name returns the job name.
func (j *Job) Name() string { return j.name }

// StageName returns the name of the stage this job runs in.
func (j *Job) StageName() string { return j.stage }

// Status returns the current lifecycle status.
func (j *Job) Status() JobStatus { return j.status }

// AgentID returns the executing agent's ID, zero until the job starts.
func (j *Job) AgentID() identity.AgentID { return j.agentID }

// Image returns the container image, empty for host execution.
func (j *Job) Image() string { return j.image }

// Commands returns the commands to run.
func (j *Job) Commands() []string { return j.commands }

// Timeout returns the job's execution bound.
func (j *Job) Timeout() time.Duration { return j.timeout }

// Attempt returns how many times the job has been started.
func (j *Job) Attempt() uint32 { return j.attempt }

// Logs returns the accumulated log output.
func (j *Job) Logs() string { return j.logs.String() }

// ExitCode returns the recorded exit code. The second return is false
// until the job has exited.
func (j *Job) ExitCode() (int, bool) { return j.exitCode, j.exited }

// StartedAt returns when the current attempt started.
func (j *Job) StartedAt() time.Time { return j.startedAt }

// CompletedAt returns when the job reached a terminal status.
func (j *Job) CompletedAt() time.Time { return j.completedAt }

// Duration returns how long the job ran, zero until it has both started
// and completed.
func (j *Job) Duration() time.Duration {
	if j.startedAt.IsZero() || j.completedAt.IsZero() {
		return 0
	}
	return j.completedAt.Sub(j.startedAt)
}

// SetImage sets the container image.
func (j *Job) SetImage(image string) {
	j.image = image
	j.updatedAt = time.Now()
}

// SetWorkingDirectory sets the working directory.
func (j *Job) SetWorkingDirectory(dir string) {
	j.workingDir = dir
	j.updatedAt = time.Now()
}

// SetTimeout overrides the default execution bound.
func (j *Job) SetTimeout(d time.Duration) {
	j.timeout = d
	j.updatedAt = time.Now()
}

// SetRetry sets how many times a failed job may be re-queued.
func (j *Job) SetRetry(n uint32) {
	j.retry = n
	j.updatedAt = time.Now()
}

// AddEnvironment records a job-level environment variable.
func (j *Job) AddEnvironment(key, value string) {
	j.environment[key] = value
	j.updatedAt = time.Now()
}

// Environment returns a copy of the job-level environment.
func (j *Job) Environment() map[string]string {
	m := make(map[string]string, len(j.environment))
	for k, v := range j.environment {
		m[k] = v
	}
	return m
}

// AddDependency records a dependency on another job by name, ignoring
// duplicates.
func (j *Job) AddDependency(name string) {
	for _, d := range j.deps {
		if d == name {
			return
		}
	}
	j.deps = append(j.deps, name)
	j.updatedAt = time.Now()
}

// Dependencies returns the names of the jobs this one depends on.
func (j *Job) Dependencies() []string { return j.deps }

// Queue moves the job from Pending to Queued.
func (j *Job) Queue() error {
	if j.status != JobPending {
		return fault.InvalidStatef("job %q is %s, not pending", j.name, j.status)
	}
	j.status = JobQueued
	j.updatedAt = time.Now()
	return nil
}

// Start moves the job from Queued to Running, records the agent, and
// increments the attempt counter.
func (j *Job) Start(agentID identity.AgentID) error {
	if j.status != JobQueued {
		return fault.InvalidStatef("job %q is %s, not queued", j.name, j.status)
	}
	now := time.Now()
	j.status = JobRunning
	j.agentID = agentID
	j.startedAt = now
	j.attempt++
	j.updatedAt = now
	return nil
}

// Succeed moves the job from Running to Success and records the exit code.
func (j *Job) Succeed(exitCode int) error {
	if j.status != JobRunning {
		return fault.InvalidStatef("job %q is %s, not running", j.name, j.status)
	}
	now := time.Now()
	j.status = JobSuccess
	j.exitCode = exitCode
	j.exited = true
	j.completedAt = now
	j.updatedAt = now
	return nil
}

// Fail moves the job from Running to Failed and records the exit code.
func (j *Job) Fail(exitCode int) error {
	if j.status != JobRunning {
		return fault.InvalidStatef("job %q is %s, not running", j.name, j.status)
	}
	now := time.Now()
	j.status = JobFailed
	j.exitCode = exitCode
	j.exited = true
	j.completedAt = now
	j.updatedAt = now
	return nil
}

// Cancel moves a non-terminal job to Cancelled.
func (j *Job) Cancel() error {
	if j.status.IsTerminal() {
		return fault.InvalidStatef("job %q already finished as %s", j.name, j.status)
	}
	now := time.Now()
	j.status = JobCancelled
	j.completedAt = now
	j.updatedAt = now
	return nil
}

// Skip marks a job that never ran as Skipped. Only Pending and Queued
// jobs can be skipped.
func (j *Job) Skip() error {
	if j.status != JobPending && j.status != JobQueued {
		return fault.InvalidStatef("job %q is %s, cannot skip", j.name, j.status)
	}
	j.status = JobSkipped
	j.updatedAt = time.Now()
	return nil
}

// AppendLogs adds output to the job log.
func (j *Job) AppendLogs(output string) {
	j.logs.WriteString(output)
	j.updatedAt = time.Now()
}

// CanRetry reports whether a failed job has attempt budget left. The
// budget is retry+1 total attempts.
func (j *Job) CanRetry() bool {
	return j.status == JobFailed && j.attempt < j.retry+1
}

// Retry returns a failed job to Queued for another attempt, clearing the
// timestamps, exit code, and logs of the failed run. The attempt counter
// is preserved.
func (j *Job) Retry() error {
	if !j.CanRetry() {
		return fault.InvalidStatef("job %q cannot be retried", j.name)
	}
	j.status = JobQueued
	j.startedAt = time.Time{}
	j.completedAt = time.Time{}
	j.exitCode = 0
	j.exited = false
	j.logs.Reset()
	j.updatedAt = time.Now()
	return nil
}
