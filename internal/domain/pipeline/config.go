package pipeline

import (
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/conveyor-ci/conveyor/internal/domain/fault"
)

// TriggerType discriminates the trigger variants in a pipeline config.
type TriggerType string

const (
	TriggerPush        TriggerType = "push"
	TriggerPullRequest TriggerType = "pull_request"
	TriggerSchedule    TriggerType = "schedule"
	TriggerManual      TriggerType = "manual"
	TriggerTag         TriggerType = "tag"
)

// Trigger describes one way a pipeline run can start. Only the fields
// relevant to its Type are set.
type Trigger struct {
	Type     TriggerType `yaml:"type"`
	Branches []string    `yaml:"branches,omitempty"`
	Cron     string      `yaml:"cron,omitempty"`
	Patterns []string    `yaml:"patterns,omitempty"`
}

// Validate checks the trigger against its declared type. Schedule cron
// expressions must parse in the standard five-field format.
func (t Trigger) Validate() error {
	switch t.Type {
	case TriggerPush, TriggerPullRequest, TriggerManual, TriggerTag:
		return nil
	case TriggerSchedule:
		if t.Cron == "" {
			return fault.Validation("schedule trigger requires a cron expression")
		}
		if _, err := cron.ParseStandard(t.Cron); err != nil {
			return fault.Validationf("invalid cron expression %q: %v", t.Cron, err)
		}
		return nil
	default:
		return fault.Validationf("unknown trigger type %q", t.Type)
	}
}

// WhenCondition gates a stage or job on branch, event, or prior status.
type WhenCondition struct {
	Branch string `yaml:"branch,omitempty"`
	Event  string `yaml:"event,omitempty"`
	Status string `yaml:"status,omitempty"`
}

// ArtifactConfig lists the paths a job uploads after it finishes.
type ArtifactConfig struct {
	Paths    []string `yaml:"paths"`
	Exclude  []string `yaml:"exclude,omitempty"`
	Name     string   `yaml:"name,omitempty"`
	ExpireIn uint32   `yaml:"expire_in,omitempty"`
}

// CacheConfig describes a restorable cache keyed by Key.
type CacheConfig struct {
	Key    string   `yaml:"key"`
	Paths  []string `yaml:"paths"`
	Policy string   `yaml:"policy,omitempty"`
}

// SlackNotification routes build results to a Slack channel.
type SlackNotification struct {
	Channel   string `yaml:"channel"`
	OnSuccess bool   `yaml:"on_success"`
	OnFailure bool   `yaml:"on_failure"`
}

// NotificationConfig declares where build results are announced.
type NotificationConfig struct {
	Email    []string           `yaml:"email,omitempty"`
	Slack    *SlackNotification `yaml:"slack,omitempty"`
	Webhooks []string           `yaml:"webhooks,omitempty"`
}

// JobConfig declares a unit of work inside a stage.
type JobConfig struct {
	Name             string            `yaml:"name"`
	Image            string            `yaml:"image,omitempty"`
	Commands         []string          `yaml:"commands,omitempty"`
	Environment      map[string]string `yaml:"environment,omitempty"`
	WorkingDirectory string            `yaml:"working_directory,omitempty"`
	Timeout          uint64            `yaml:"timeout,omitempty"`
	Retry            uint32            `yaml:"retry,omitempty"`
	Artifacts        *ArtifactConfig   `yaml:"artifacts,omitempty"`
	Cache            *CacheConfig      `yaml:"cache,omitempty"`
	Needs            []string          `yaml:"needs,omitempty"`
	When             *WhenCondition    `yaml:"when,omitempty"`
}

// Validate requires a name and at least one command or an image.
func (j JobConfig) Validate() error {
	if j.Name == "" {
		return fault.Validation("job name cannot be empty")
	}
	if len(j.Commands) == 0 && j.Image == "" {
		return fault.Validationf("job %q must have at least one command or an image", j.Name)
	}
	return nil
}

// StageConfig groups jobs that run in one phase of the pipeline.
type StageConfig struct {
	Name     string         `yaml:"name"`
	Jobs     []JobConfig    `yaml:"jobs"`
	Parallel bool           `yaml:"parallel,omitempty"`
	When     *WhenCondition `yaml:"when,omitempty"`
}

// Validate requires a name and at least one valid job.
func (s StageConfig) Validate() error {
	if s.Name == "" {
		return fault.Validation("stage name cannot be empty")
	}
	if len(s.Jobs) == 0 {
		return fault.Validationf("stage %q must have at least one job", s.Name)
	}
	for _, j := range s.Jobs {
		if err := j.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Config is the declarative pipeline definition, typically loaded from a
// YAML file in the repository.
type Config struct {
	Version       string              `yaml:"version"`
	Stages        []StageConfig       `yaml:"stages"`
	Triggers      []Trigger           `yaml:"triggers"`
	Environment   map[string]string   `yaml:"environment,omitempty"`
	Notifications *NotificationConfig `yaml:"notifications,omitempty"`
}

// NewConfig builds a config at version "1.0" from stages and triggers.
func NewConfig(stages []StageConfig, triggers []Trigger) Config {
	return Config{
		Version:  "1.0",
		Stages:   stages,
		Triggers: triggers,
	}
}

// ParseConfig decodes a YAML pipeline definition and validates it.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fault.Validationf("malformed pipeline config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the whole definition. A valid config has a version, at
// least one stage with valid jobs, and at least one valid trigger.
func (c Config) Validate() error {
	if c.Version == "" {
		return fault.Validation("pipeline version cannot be empty")
	}
	if len(c.Stages) == 0 {
		return fault.Validation("pipeline must have at least one stage")
	}
	for _, s := range c.Stages {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	if len(c.Triggers) == 0 {
		return fault.Validation("pipeline must have at least one trigger")
	}
	for _, t := range c.Triggers {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
