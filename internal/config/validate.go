package config

import (
	"github.com/robfig/cron/v3"

	"github.com/conveyor-ci/conveyor/internal/domain/fault"
)

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var logFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Agents.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	return c.Output.Validate()
}

// Validate checks the server section.
func (c ServerConfig) Validate() error {
	if c.Address == "" {
		return fault.Validation("server.address cannot be empty")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0 {
		return fault.Validation("server timeouts must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fault.Validation("server.shutdown_timeout must be positive")
	}
	return nil
}

// Validate checks the agents section.
func (c AgentsConfig) Validate() error {
	if c.HeartbeatTimeout <= 0 {
		return fault.Validation("agents.heartbeat_timeout must be positive")
	}
	if _, err := cron.ParseStandard(c.ReaperSchedule); err != nil {
		return fault.Validationf("invalid agents.reaper_schedule %q: %v", c.ReaperSchedule, err)
	}
	return nil
}

// Validate checks the events section.
func (c EventsConfig) Validate() error {
	if c.RetryMaxAttempts < 1 {
		return fault.Validation("events.retry_max_attempts must be at least 1")
	}
	if c.RetryInitialDelay <= 0 || c.RetryMaxDelay <= 0 {
		return fault.Validation("events retry delays must be positive")
	}
	if c.RetryMaxDelay < c.RetryInitialDelay {
		return fault.Validation("events.retry_max_delay cannot be below events.retry_initial_delay")
	}
	return nil
}

// Validate checks the output section.
func (c OutputConfig) Validate() error {
	if !logLevels[c.LogLevel] {
		return fault.Validationf("unknown output.log_level %q", c.LogLevel)
	}
	if !logFormats[c.LogFormat] {
		return fault.Validationf("unknown output.log_format %q", c.LogFormat)
	}
	return nil
}
