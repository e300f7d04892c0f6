package build

import (
	"testing"
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

func newTestJob() *Job {
	return NewJob(identity.NewBuildID(), "compile", "build", []string{"make"})
}

func TestJobDefaults(t *testing.T) {
	j := newTestJob()

	if j.Status() != JobPending {
		t.Errorf("Status() = %s, want Pending", j.Status())
	}
	if j.Timeout() != DefaultJobTimeout {
		t.Errorf("Timeout() = %v, want %v", j.Timeout(), DefaultJobTimeout)
	}
	if j.Attempt() != 0 {
		t.Errorf("Attempt() = %d, want 0", j.Attempt())
	}
}

func TestJobLifecycle(t *testing.T) {
	j := newTestJob()

	if err := j.Queue(); err != nil {
		t.Fatalf("Queue: %v", err)
	}
	if j.Status() != JobQueued {
		t.Errorf("Status() = %s, want Queued", j.Status())
	}

	agentID := identity.NewAgentID()
	if err := j.Start(agentID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if j.Status() != JobRunning || j.Attempt() != 1 || j.StartedAt().IsZero() {
		t.Error("job not running after Start")
	}
	if j.AgentID() != agentID {
		t.Errorf("AgentID() = %s, want %s", j.AgentID(), agentID)
	}

	if err := j.Succeed(0); err != nil {
		t.Fatalf("Succeed: %v", err)
	}
	code, ok := j.ExitCode()
	if !ok || code != 0 {
		t.Errorf("ExitCode() = %d, %v", code, ok)
	}
}

func TestJobCannotStartFromPending(t *testing.T) {
	j := newTestJob()
	if err := j.Start(identity.NewAgentID()); err == nil {
		t.Error("started a pending job without queueing")
	}
}

func TestJobRetry(t *testing.T) {
	j := newTestJob()
	j.SetRetry(2)

	j.Queue()
	j.Start(identity.NewAgentID())
	j.AppendLogs("boom\n")
	if err := j.Fail(1); err != nil {
		t.Fatal(err)
	}

	if !j.CanRetry() {
		t.Fatal("CanRetry() = false with budget remaining")
	}
	if err := j.Retry(); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if j.Status() != JobQueued {
		t.Errorf("Status() = %s, want Queued", j.Status())
	}
	if !j.StartedAt().IsZero() || !j.CompletedAt().IsZero() {
		t.Error("timestamps not cleared on retry")
	}
	if _, ok := j.ExitCode(); ok {
		t.Error("exit code not cleared on retry")
	}
	if j.Logs() != "" {
		t.Error("logs not cleared on retry")
	}
	if j.Attempt() != 1 {
		t.Errorf("Attempt() = %d, want 1 after retry", j.Attempt())
	}
}

func TestJobRetryBudgetExhausted(t *testing.T) {
	j := newTestJob()
	j.SetRetry(1)

	// First attempt fails, one retry allowed.
	j.Queue()
	j.Start(identity.NewAgentID())
	j.Fail(1)
	if !j.CanRetry() {
		t.Fatal("first retry refused")
	}
	j.Retry()

	// Second attempt fails, budget of retry+1 attempts is spent.
	j.Start(identity.NewAgentID())
	j.Fail(1)
	if j.CanRetry() {
		t.Error("CanRetry() = true after exhausting attempts")
	}
	if err := j.Retry(); err == nil {
		t.Error("Retry succeeded after exhausting attempts")
	}
}

func TestJobRetryOnlyFromFailed(t *testing.T) {
	j := newTestJob()
	j.SetRetry(3)

	j.Queue()
	j.Start(identity.NewAgentID())
	j.Succeed(0)

	if j.CanRetry() {
		t.Error("CanRetry() = true for successful job")
	}
}

func TestJobSkip(t *testing.T) {
	j := newTestJob()
	if err := j.Skip(); err != nil {
		t.Fatalf("Skip pending: %v", err)
	}

	j = newTestJob()
	j.Queue()
	if err := j.Skip(); err != nil {
		t.Fatalf("Skip queued: %v", err)
	}

	j = newTestJob()
	j.Queue()
	j.Start(identity.NewAgentID())
	if err := j.Skip(); err == nil {
		t.Error("skipped a running job")
	}
}

func TestJobCancel(t *testing.T) {
	j := newTestJob()
	j.Queue()
	if err := j.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if j.Status() != JobCancelled {
		t.Errorf("Status() = %s, want Cancelled", j.Status())
	}

	if err := j.Cancel(); err == nil {
		t.Error("cancelled a finished job")
	}
}

func TestJobLogsAccumulate(t *testing.T) {
	j := newTestJob()
	j.AppendLogs("line 1\n")
	j.AppendLogs("line 2\n")
	if j.Logs() != "line 1\nline 2\n" {
		t.Errorf("Logs() = %q", j.Logs())
	}
}

func TestJobSetTimeout(t *testing.T) {
	j := newTestJob()
	j.SetTimeout(90 * time.Second)
	if j.Timeout() != 90*time.Second {
		t.Errorf("Timeout() = %v", j.Timeout())
	}
}
