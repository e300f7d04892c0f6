package build

import (
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
	"github.com/conveyor-ci/conveyor/internal/domain/pipeline"
)

// Plan is the execution layout of one build: its stages in pipeline order
// and the jobs grouped by stage name.
type Plan struct {
	Stages []*Stage
	Jobs   []*Job
}

// Materialize expands a validated pipeline config into the stages and jobs
// of a build. Stage order follows the config; every job starts Pending.
func Materialize(buildID identity.BuildID, cfg pipeline.Config) *Plan {
	plan := &Plan{}

	for _, sc := range cfg.Stages {
		stage := NewStage(buildID, sc.Name)

		for _, jc := range sc.Jobs {
			job := NewJob(buildID, jc.Name, sc.Name, jc.Commands)
			if jc.Image != "" {
				job.SetImage(jc.Image)
			}
			if jc.WorkingDirectory != "" {
				job.SetWorkingDirectory(jc.WorkingDirectory)
			}
			if jc.Timeout > 0 {
				job.SetTimeout(time.Duration(jc.Timeout) * time.Second)
			}
			if jc.Retry > 0 {
				job.SetRetry(jc.Retry)
			}
			for k, v := range jc.Environment {
				job.AddEnvironment(k, v)
			}
			for k, v := range cfg.Environment {
				if _, ok := jc.Environment[k]; !ok {
					job.AddEnvironment(k, v)
				}
			}
			for _, dep := range jc.Needs {
				job.AddDependency(dep)
			}

			stage.AddJob(job.ID())
			plan.Jobs = append(plan.Jobs, job)
		}

		plan.Stages = append(plan.Stages, stage)
	}

	return plan
}
