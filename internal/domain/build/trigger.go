package build

import "fmt"

// Trigger records what caused a build. The set of trigger kinds is closed;
// each variant carries only the context relevant to its source.
type Trigger interface {
	// Kind returns the stable name of the trigger variant.
	Kind() string

	// Describe returns a one-line human-readable description.
	Describe() string

	isTrigger()
}

// ManualTrigger records a build started by a user.
type ManualTrigger struct {
	UserID string
}

func (t ManualTrigger) Kind() string     { return "manual" }
func (t ManualTrigger) Describe() string { return fmt.Sprintf("manually started by %s", t.UserID) }
func (ManualTrigger) isTrigger()         {}

// PushTrigger records a build started by a git push.
type PushTrigger struct{}

func (PushTrigger) Kind() string     { return "push" }
func (PushTrigger) Describe() string { return "triggered by push" }
func (PushTrigger) isTrigger()       {}

// PullRequestTrigger records a build started by a pull request update.
type PullRequestTrigger struct {
	PRNumber uint32
}

func (t PullRequestTrigger) Kind() string { return "pull_request" }
func (t PullRequestTrigger) Describe() string {
	return fmt.Sprintf("triggered by pull request #%d", t.PRNumber)
}
func (PullRequestTrigger) isTrigger() {}

// ScheduleTrigger records a build started by a cron schedule.
type ScheduleTrigger struct {
	Cron string
}

func (t ScheduleTrigger) Kind() string     { return "schedule" }
func (t ScheduleTrigger) Describe() string { return fmt.Sprintf("scheduled (%s)", t.Cron) }
func (ScheduleTrigger) isTrigger()         {}

// APITrigger records a build started through the API.
type APITrigger struct {
	Token string
}

func (t APITrigger) Kind() string     { return "api" }
func (t APITrigger) Describe() string { return "triggered via API" }
func (APITrigger) isTrigger()         {}

// WebhookTrigger records a build started by an external webhook.
type WebhookTrigger struct {
	Source string
}

func (t WebhookTrigger) Kind() string     { return "webhook" }
func (t WebhookTrigger) Describe() string { return fmt.Sprintf("triggered by webhook from %s", t.Source) }
func (WebhookTrigger) isTrigger()         {}
