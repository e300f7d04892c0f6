// Package reaper runs the periodic dead-agent sweep on a cron schedule.
package reaper

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Sweeper is the part of the agent service the reaper drives.
type Sweeper interface {
	CleanupDeadAgents(ctx context.Context, timeout time.Duration) (int, error)
}

// Reaper disconnects agents whose heartbeat went stale. Each tick runs one
// sweep; a failing sweep is logged and the schedule keeps going.
type Reaper struct {
	agents   Sweeper
	schedule string
	timeout  time.Duration
	logger   *log.Logger
	cron     *cron.Cron
}

// New creates a reaper. The schedule is a standard five-field cron
// expression; timeout is how stale a heartbeat must be before the agent
// counts as dead.
func New(agents Sweeper, schedule string, timeout time.Duration, logger *log.Logger) *Reaper {
	return &Reaper{
		agents:   agents,
		schedule: schedule,
		timeout:  timeout,
		logger:   logger.With("component", "reaper"),
		cron:     cron.New(),
	}
}

// Start registers the sweep and starts the schedule. It returns an error
// only when the cron expression does not parse.
func (r *Reaper) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, func() {
		r.Sweep(context.Background())
	}); err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info("reaper started", "schedule", r.schedule, "timeout", r.timeout)
	return nil
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (r *Reaper) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("reaper stopped")
}

// Sweep runs one pass immediately.
func (r *Reaper) Sweep(ctx context.Context) {
	cleaned, err := r.agents.CleanupDeadAgents(ctx, r.timeout)
	if err != nil {
		r.logger.Error("dead agent sweep failed", "error", err)
		return
	}
	if cleaned > 0 {
		r.logger.Info("disconnected dead agents", "count", cleaned)
	}
}

// Run blocks running the schedule until ctx is cancelled. It exists so the
// reaper can live in an errgroup next to the HTTP server.
func (r *Reaper) Run(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	r.Stop()
	return nil
}
