package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/conveyor-ci/conveyor/internal/domain/agent"
	"github.com/conveyor-ci/conveyor/internal/httpserver"
	"github.com/conveyor-ci/conveyor/internal/infrastructure/eventbus"
	"github.com/conveyor-ci/conveyor/internal/infrastructure/persistence"
	"github.com/conveyor-ci/conveyor/internal/infrastructure/reaper"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the control-plane server",
	Long: `Start the Conveyor control-plane server.

This runs the HTTP liveness endpoint and the dead-agent reaper until
interrupted. Configuration comes from conveyor.yaml and CONVEYOR_*
environment variables; --address overrides the listen address.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddress, "address", "", "address to listen on (e.g. localhost:8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if serveAddress != "" {
		cfg.Server.Address = serveAddress
	}

	agents := persistence.NewAgentRepository()
	bus := eventbus.NewInMemoryPublisher()
	publisher := eventbus.NewRetryingPublisher(bus, eventbus.RetryConfig{
		MaxAttempts:  cfg.Events.RetryMaxAttempts,
		InitialDelay: cfg.Events.RetryInitialDelay,
		MaxDelay:     cfg.Events.RetryMaxDelay,
	})
	agentService := agent.NewService(agents, publisher, logger)

	server := httpserver.NewServer(cfg.Server, logger)
	sweeper := reaper.New(agentService, cfg.Agents.ReaperSchedule, cfg.Agents.HeartbeatTimeout, logger)

	logger.Info("starting conveyor control plane", "version", versionInfo.Version)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Start(gctx) })
	g.Go(func() error { return sweeper.Run(gctx) })

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("conveyor stopped")
	return nil
}
