package event

import (
	"testing"
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

func TestEventNames(t *testing.T) {
	now := time.Now()
	tests := []struct {
		e    Event
		want string
	}{
		{BuildCreated{At: now}, "build.created"},
		{BuildStarted{At: now}, "build.started"},
		{BuildCompleted{At: now}, "build.completed"},
		{BuildCancelled{At: now}, "build.cancelled"},
		{PipelineCreated{At: now}, "pipeline.created"},
		{PipelineConfigUpdated{At: now}, "pipeline.config_updated"},
		{PipelineEnabled{At: now}, "pipeline.enabled"},
		{PipelineDisabled{At: now}, "pipeline.disabled"},
		{ProjectCreated{At: now}, "project.created"},
		{AgentRegistered{At: now}, "agent.registered"},
		{AgentDisconnected{At: now}, "agent.disconnected"},
		{UserCreated{At: now}, "user.created"},
		{UserPasswordChanged{At: now}, "user.password_changed"},
		{UserDeactivated{At: now}, "user.deactivated"},
	}

	names := make(map[string]bool, len(tests))
	for _, tt := range tests {
		if got := tt.e.EventName(); got != tt.want {
			t.Errorf("EventName() = %q, want %q", got, tt.want)
		}
		if !tt.e.OccurredAt().Equal(now) {
			t.Errorf("%s: OccurredAt() = %v, want %v", tt.want, tt.e.OccurredAt(), now)
		}
		names[tt.e.EventName()] = true
	}
	if len(names) != len(tests) {
		t.Errorf("event names are not unique: %d distinct of %d", len(names), len(tests))
	}
}

func TestBufferDrainOnce(t *testing.T) {
	var buf Buffer
	buf.Append(BuildStarted{BuildID: identity.NewBuildID(), At: time.Now()})
	buf.Append(BuildCompleted{BuildID: identity.NewBuildID(), Status: "Success", At: time.Now()})

	if buf.PendingEvents() != 2 {
		t.Fatalf("PendingEvents() = %d, want 2", buf.PendingEvents())
	}

	first := buf.TakeEvents()
	if len(first) != 2 {
		t.Fatalf("first drain returned %d events, want 2", len(first))
	}
	if first[0].EventName() != "build.started" || first[1].EventName() != "build.completed" {
		t.Errorf("drain did not preserve append order: %s, %s", first[0].EventName(), first[1].EventName())
	}

	// Second drain must be empty; no event is delivered twice.
	second := buf.TakeEvents()
	if len(second) != 0 {
		t.Errorf("second drain returned %d events, want 0", len(second))
	}
	if buf.PendingEvents() != 0 {
		t.Errorf("PendingEvents() after drain = %d, want 0", buf.PendingEvents())
	}
}

func TestBufferAppendAfterDrain(t *testing.T) {
	var buf Buffer
	buf.Append(PipelineEnabled{At: time.Now()})
	buf.TakeEvents()

	buf.Append(PipelineDisabled{At: time.Now()})
	events := buf.TakeEvents()
	if len(events) != 1 || events[0].EventName() != "pipeline.disabled" {
		t.Errorf("buffer not reusable after drain: %v", events)
	}
}
