package build

import (
	"errors"
	"testing"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

func newTestBuild() *Build {
	return New(
		identity.NewPipelineID(),
		identity.NewProjectID(),
		1,
		"abc123",
		"main",
		ManualTrigger{UserID: "user123"},
	)
}

func TestNew(t *testing.T) {
	b := newTestBuild()

	if b.Number() != 1 {
		t.Errorf("Number() = %d, want 1", b.Number())
	}
	if b.Status() != StatusPending {
		t.Errorf("Status() = %s, want Pending", b.Status())
	}
	if b.Branch() != "main" || b.CommitSHA() != "abc123" {
		t.Errorf("branch/sha = %s/%s", b.Branch(), b.CommitSHA())
	}

	events := b.TakeEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	created := events[0].(event.BuildCreated)
	if created.Number != 1 {
		t.Errorf("event number = %d, want 1", created.Number)
	}
}

func TestLifecycle(t *testing.T) {
	b := newTestBuild()
	agentID := identity.NewAgentID()

	if err := b.Start(agentID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if b.Status() != StatusRunning {
		t.Errorf("Status() = %s, want Running", b.Status())
	}
	if b.AgentID() != agentID {
		t.Errorf("AgentID() = %s, want %s", b.AgentID(), agentID)
	}
	if b.StartedAt().IsZero() {
		t.Error("StartedAt not set")
	}

	if err := b.Succeed(); err != nil {
		t.Fatalf("Succeed: %v", err)
	}
	if b.Status() != StatusSuccess {
		t.Errorf("Status() = %s, want Success", b.Status())
	}
	if b.CompletedAt().IsZero() {
		t.Error("CompletedAt not set")
	}
	if b.Duration() < 0 {
		t.Errorf("Duration() = %v", b.Duration())
	}

	events := b.TakeEvents()
	// Created, Started, Completed.
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	completed := events[2].(event.BuildCompleted)
	if completed.Status != "Success" {
		t.Errorf("completed status = %q, want Success", completed.Status)
	}
}

func TestFail(t *testing.T) {
	b := newTestBuild()
	if err := b.Start(identity.NewAgentID()); err != nil {
		t.Fatal(err)
	}

	if err := b.Fail("compile error"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if b.Status() != StatusFailed {
		t.Errorf("Status() = %s, want Failed", b.Status())
	}
	if b.ErrorMessage() != "compile error" {
		t.Errorf("ErrorMessage() = %q", b.ErrorMessage())
	}
}

func TestCancel(t *testing.T) {
	// Pending builds can be cancelled.
	b := newTestBuild()
	if err := b.Cancel(); err != nil {
		t.Fatalf("Cancel pending: %v", err)
	}
	if b.Status() != StatusCancelled {
		t.Errorf("Status() = %s, want Cancelled", b.Status())
	}

	// Running builds can be cancelled.
	b = newTestBuild()
	b.Start(identity.NewAgentID())
	if err := b.Cancel(); err != nil {
		t.Fatalf("Cancel running: %v", err)
	}

	// Finished builds cannot, cancelled ones included.
	b = newTestBuild()
	b.Start(identity.NewAgentID())
	b.Succeed()
	if err := b.Cancel(); err == nil {
		t.Error("cancelled a successful build")
	}

	b = newTestBuild()
	b.Cancel()
	if err := b.Cancel(); !errors.Is(err, fault.ErrInvalidState) {
		t.Errorf("second cancel: got %v, want invalid state", err)
	}
}

func TestInvalidTransitions(t *testing.T) {
	b := newTestBuild()

	if err := b.Succeed(); !errors.Is(err, fault.ErrInvalidState) {
		t.Errorf("Succeed from Pending: %v", err)
	}
	if err := b.Fail("x"); !errors.Is(err, fault.ErrInvalidState) {
		t.Errorf("Fail from Pending: %v", err)
	}

	agentID := identity.NewAgentID()
	if err := b.Start(agentID); err != nil {
		t.Fatal(err)
	}
	if err := b.Start(agentID); !errors.Is(err, fault.ErrInvalidState) {
		t.Errorf("second Start: %v", err)
	}
}

func TestRejectedTransitionLeavesBuildUntouched(t *testing.T) {
	b := newTestBuild()
	b.TakeEvents()

	if err := b.Succeed(); err == nil {
		t.Fatal("Succeed from Pending accepted")
	}
	if b.Status() != StatusPending {
		t.Errorf("status changed on rejected transition: %s", b.Status())
	}
	if len(b.TakeEvents()) != 0 {
		t.Error("events emitted on rejected transition")
	}
}

func TestArtifacts(t *testing.T) {
	b := newTestBuild()

	b.AddArtifact("dist/app.tar.gz")
	b.AddArtifact("dist/app.sha256")
	b.AddArtifact("dist/app.tar.gz")

	if len(b.Artifacts()) != 2 {
		t.Errorf("Artifacts() = %v, want 2 entries", b.Artifacts())
	}
}

func TestDurationUnknownUntilComplete(t *testing.T) {
	b := newTestBuild()
	if b.Duration() != 0 {
		t.Error("Duration before start should be zero")
	}
	b.Start(identity.NewAgentID())
	if b.Duration() != 0 {
		t.Error("Duration before completion should be zero")
	}
}

func TestTriggerKinds(t *testing.T) {
	tests := []struct {
		trigger Trigger
		kind    string
	}{
		{ManualTrigger{UserID: "u1"}, "manual"},
		{PushTrigger{}, "push"},
		{PullRequestTrigger{PRNumber: 42}, "pull_request"},
		{ScheduleTrigger{Cron: "0 4 * * *"}, "schedule"},
		{APITrigger{Token: "t"}, "api"},
		{WebhookTrigger{Source: "github"}, "webhook"},
	}
	for _, tt := range tests {
		if got := tt.trigger.Kind(); got != tt.kind {
			t.Errorf("Kind() = %q, want %q", got, tt.kind)
		}
		if tt.trigger.Describe() == "" {
			t.Errorf("%s: empty description", tt.kind)
		}
	}
}
