package build

import (
	"testing"
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
	"github.com/conveyor-ci/conveyor/internal/domain/pipeline"
)

func TestMaterialize(t *testing.T) {
	cfg := pipeline.NewConfig(
		[]pipeline.StageConfig{
			{
				Name: "build",
				Jobs: []pipeline.JobConfig{
					{
						Name:     "compile",
						Image:    "golang:1.24",
						Commands: []string{"make build"},
						Timeout:  900,
						Retry:    2,
						Environment: map[string]string{
							"GOFLAGS": "-trimpath",
						},
					},
					{Name: "lint", Commands: []string{"make lint"}},
				},
			},
			{
				Name: "deploy",
				Jobs: []pipeline.JobConfig{
					{
						Name:     "release",
						Commands: []string{"make deploy"},
						Needs:    []string{"compile"},
					},
				},
			},
		},
		[]pipeline.Trigger{{Type: pipeline.TriggerManual}},
	)
	cfg.Environment = map[string]string{"CI": "true"}

	buildID := identity.NewBuildID()
	plan := Materialize(buildID, cfg)

	if len(plan.Stages) != 2 {
		t.Fatalf("materialized %d stages, want 2", len(plan.Stages))
	}
	if len(plan.Jobs) != 3 {
		t.Fatalf("materialized %d jobs, want 3", len(plan.Jobs))
	}

	// Stage order follows the config.
	if plan.Stages[0].Name() != "build" || plan.Stages[1].Name() != "deploy" {
		t.Errorf("stage order: %s, %s", plan.Stages[0].Name(), plan.Stages[1].Name())
	}
	if len(plan.Stages[0].JobIDs()) != 2 || len(plan.Stages[1].JobIDs()) != 1 {
		t.Error("jobs not attached to their stages")
	}

	compile := plan.Jobs[0]
	if compile.BuildID() != buildID {
		t.Error("job not bound to build")
	}
	if compile.Image() != "golang:1.24" {
		t.Errorf("Image() = %q", compile.Image())
	}
	if compile.Timeout() != 900*time.Second {
		t.Errorf("Timeout() = %v, want 900s", compile.Timeout())
	}
	if compile.Status() != JobPending {
		t.Errorf("Status() = %s, want Pending", compile.Status())
	}

	// Without an explicit timeout the default applies.
	lint := plan.Jobs[1]
	if lint.Timeout() != DefaultJobTimeout {
		t.Errorf("lint Timeout() = %v, want default", lint.Timeout())
	}

	release := plan.Jobs[2]
	if len(release.Dependencies()) != 1 || release.Dependencies()[0] != "compile" {
		t.Errorf("Dependencies() = %v", release.Dependencies())
	}
}

func TestMaterializeEnvironmentPrecedence(t *testing.T) {
	cfg := pipeline.NewConfig(
		[]pipeline.StageConfig{{
			Name: "build",
			Jobs: []pipeline.JobConfig{{
				Name:        "compile",
				Commands:    []string{"make"},
				Environment: map[string]string{"LEVEL": "job"},
			}},
		}},
		[]pipeline.Trigger{{Type: pipeline.TriggerManual}},
	)
	cfg.Environment = map[string]string{"LEVEL": "pipeline", "CI": "true"}

	plan := Materialize(identity.NewBuildID(), cfg)
	job := plan.Jobs[0]

	env := job.Environment()
	if env["LEVEL"] != "job" {
		t.Errorf("job-level env lost precedence: %q", env["LEVEL"])
	}
	if env["CI"] != "true" {
		t.Error("pipeline-level env not inherited")
	}
}
