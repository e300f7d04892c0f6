// Package config provides configuration management for the Conveyor
// control plane: defaults, file loading with env overrides, and
// validation.
package config

import "time"

// ConfigFileNames are the base names searched for a config file.
var ConfigFileNames = []string{".conveyor", "conveyor"}

// ConfigFileExtensions are the recognized config file extensions.
var ConfigFileExtensions = []string{"yaml", "yml"}

// Config is the root configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Agents AgentsConfig `mapstructure:"agents"`
	Events EventsConfig `mapstructure:"events"`
	Output OutputConfig `mapstructure:"output"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AgentsConfig configures fleet liveness handling.
type AgentsConfig struct {
	// HeartbeatTimeout is how stale a heartbeat may get before the agent
	// counts as dead.
	HeartbeatTimeout time.Duration `mapstructure:"heartbeat_timeout"`
	// ReaperSchedule is the five-field cron expression for the dead-agent
	// sweep.
	ReaperSchedule string `mapstructure:"reaper_schedule"`
}

// EventsConfig configures best-effort event delivery.
type EventsConfig struct {
	RetryMaxAttempts  int           `mapstructure:"retry_max_attempts"`
	RetryInitialDelay time.Duration `mapstructure:"retry_initial_delay"`
	RetryMaxDelay     time.Duration `mapstructure:"retry_max_delay"`
}

// OutputConfig configures logging.
type OutputConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Agents: AgentsConfig{
			HeartbeatTimeout: 2 * time.Minute,
			ReaperSchedule:   "* * * * *",
		},
		Events: EventsConfig{
			RetryMaxAttempts:  3,
			RetryInitialDelay: 100 * time.Millisecond,
			RetryMaxDelay:     2 * time.Second,
		},
		Output: OutputConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
	}
}
