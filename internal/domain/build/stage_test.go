package build

import (
	"testing"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

func TestStageLifecycle(t *testing.T) {
	s := NewStage(identity.NewBuildID(), "test")

	if s.Status() != StagePending {
		t.Fatalf("Status() = %s, want Pending", s.Status())
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Status() != StageRunning || s.StartedAt().IsZero() {
		t.Error("stage not running after Start")
	}

	if err := s.Succeed(); err != nil {
		t.Fatalf("Succeed: %v", err)
	}
	if s.Status() != StageSuccess || s.CompletedAt().IsZero() {
		t.Error("stage not completed after Succeed")
	}
}

func TestStageFail(t *testing.T) {
	s := NewStage(identity.NewBuildID(), "deploy")

	if err := s.Fail(); err == nil {
		t.Error("Fail from Pending accepted")
	}

	s.Start()
	if err := s.Fail(); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if s.Status() != StageFailed {
		t.Errorf("Status() = %s, want Failed", s.Status())
	}
}

func TestStageSkip(t *testing.T) {
	s := NewStage(identity.NewBuildID(), "optional")
	if err := s.Skip(); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if s.Status() != StageSkipped {
		t.Errorf("Status() = %s, want Skipped", s.Status())
	}

	// A running stage cannot be skipped.
	s = NewStage(identity.NewBuildID(), "build")
	s.Start()
	if err := s.Skip(); err == nil {
		t.Error("skipped a running stage")
	}
}

func TestStageCancel(t *testing.T) {
	s := NewStage(identity.NewBuildID(), "build")
	s.Start()
	s.Succeed()
	if err := s.Cancel(); err == nil {
		t.Error("cancelled a finished stage")
	}
}

func TestStageAddJob(t *testing.T) {
	s := NewStage(identity.NewBuildID(), "build")
	j1, j2 := identity.NewJobID(), identity.NewJobID()

	s.AddJob(j1)
	s.AddJob(j2)
	s.AddJob(j1)

	if len(s.JobIDs()) != 2 {
		t.Errorf("JobIDs() = %v, want 2 entries", s.JobIDs())
	}
}
