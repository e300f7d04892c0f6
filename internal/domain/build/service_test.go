package build_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conveyor-ci/conveyor/internal/domain/build"
	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
	"github.com/conveyor-ci/conveyor/internal/domain/pipeline"
	"github.com/conveyor-ci/conveyor/internal/domain/project"
	"github.com/conveyor-ci/conveyor/internal/infrastructure/eventbus"
	"github.com/conveyor-ci/conveyor/internal/infrastructure/persistence"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

type fixture struct {
	svc        *build.Service
	builds     *persistence.BuildRepository
	pipelines  *persistence.PipelineRepository
	bus        *eventbus.InMemoryPublisher
	pipelineID identity.PipelineID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	projects := persistence.NewProjectRepository()
	pipelines := persistence.NewPipelineRepository()
	builds := persistence.NewBuildRepository()
	bus := eventbus.NewInMemoryPublisher()

	pr, err := project.New("webapp", "https://git.example.com/webapp.git", "main")
	require.NoError(t, err)
	require.NoError(t, projects.Save(ctx, pr))

	cfg := pipeline.NewConfig(
		[]pipeline.StageConfig{{
			Name: "build",
			Jobs: []pipeline.JobConfig{{Name: "compile", Commands: []string{"make"}}},
		}},
		[]pipeline.Trigger{{Type: pipeline.TriggerPush}},
	)
	p, err := pipeline.New(pr.ID(), "ci", cfg)
	require.NoError(t, err)
	p.TakeEvents()
	require.NoError(t, pipelines.Save(ctx, p))

	return &fixture{
		svc:        build.NewService(builds, pipelines, bus, testLogger()),
		builds:     builds,
		pipelines:  pipelines,
		bus:        bus,
		pipelineID: p.ID(),
	}
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.pipelineID, "abc123", "main", build.PushTrigger{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b.Number())
	assert.Equal(t, build.StatusPending, b.Status())

	stored, err := f.builds.FindByID(ctx, b.ID())
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Len(t, f.bus.EventsByName("build.created"), 1)
}

func TestService_Create_UnknownPipeline(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), identity.NewPipelineID(), "abc", "main", build.PushTrigger{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrNotFound))
}

func TestService_Create_DisabledPipeline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.pipelines.FindByID(ctx, f.pipelineID)
	require.NoError(t, err)
	p.Disable()
	require.NoError(t, f.pipelines.Update(ctx, p))

	_, err = f.svc.Create(ctx, f.pipelineID, "abc", "main", build.PushTrigger{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrInvalidState))
}

func TestService_Create_ConcurrentNumbersAreDense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 20
	numbers := make([]uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			b, err := f.svc.Create(ctx, f.pipelineID, "abc", "main", build.PushTrigger{})
			if err != nil {
				t.Error(err)
				return
			}
			numbers[idx] = b.Number()
		}(i)
	}
	wg.Wait()

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	for i, num := range numbers {
		assert.Equal(t, uint64(i+1), num, "numbers must be 1..n without gaps or duplicates")
	}
}

func TestService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.pipelineID, "abc123", "main", build.ManualTrigger{UserID: string(identity.NewUserID())})
	require.NoError(t, err)

	agentID := identity.NewAgentID()
	require.NoError(t, f.svc.Start(ctx, b.ID(), agentID))
	require.NoError(t, f.svc.Complete(ctx, b.ID()))

	stored, err := f.builds.FindByID(ctx, b.ID())
	require.NoError(t, err)
	assert.Equal(t, build.StatusSuccess, stored.Status())
	assert.Equal(t, agentID, stored.AgentID())

	assert.Len(t, f.bus.EventsByName("build.started"), 1)
	assert.Len(t, f.bus.EventsByName("build.completed"), 1)
}

func TestService_Fail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.pipelineID, "abc123", "main", build.PushTrigger{})
	require.NoError(t, err)
	require.NoError(t, f.svc.Start(ctx, b.ID(), identity.NewAgentID()))
	require.NoError(t, f.svc.Fail(ctx, b.ID(), "compile error"))

	stored, _ := f.builds.FindByID(ctx, b.ID())
	assert.Equal(t, build.StatusFailed, stored.Status())
	assert.Equal(t, "compile error", stored.ErrorMessage())
}

func TestService_Cancel_TerminalBuildRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.pipelineID, "abc123", "main", build.PushTrigger{})
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, b.ID()))

	err = f.svc.Cancel(ctx, b.ID())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrInvalidState))
	assert.Len(t, f.bus.EventsByName("build.cancelled"), 1)
}

func TestService_Plan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.pipelineID, "abc123", "main", build.PushTrigger{})
	require.NoError(t, err)

	plan, err := f.svc.Plan(ctx, b.ID())
	require.NoError(t, err)
	require.Len(t, plan.Stages, 1)
	require.Len(t, plan.Jobs, 1)
	assert.Equal(t, "build", plan.Stages[0].Name())
	assert.Equal(t, "compile", plan.Jobs[0].Name())
}

func TestService_ListRunning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	running, err := f.svc.Create(ctx, f.pipelineID, "aaa", "main", build.PushTrigger{})
	require.NoError(t, err)
	require.NoError(t, f.svc.Start(ctx, running.ID(), identity.NewAgentID()))

	_, err = f.svc.Create(ctx, f.pipelineID, "bbb", "main", build.PushTrigger{})
	require.NoError(t, err)

	list, err := f.svc.ListRunning(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, running.ID(), list[0].ID())
}
