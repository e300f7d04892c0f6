package pipeline

import (
	"testing"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

func TestNew(t *testing.T) {
	p, err := New(identity.NewProjectID(), "deploy", testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !p.IsEnabled() {
		t.Error("new pipeline should be enabled")
	}
	if p.Version() != 1 {
		t.Errorf("Version() = %d, want 1", p.Version())
	}

	events := p.TakeEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	created, ok := events[0].(event.PipelineCreated)
	if !ok {
		t.Fatalf("expected PipelineCreated, got %T", events[0])
	}
	if created.Name != "deploy" {
		t.Errorf("event name = %q, want %q", created.Name, "deploy")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(identity.NewProjectID(), "", testConfig()); err == nil {
		t.Error("empty name accepted")
	}

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := New(identity.NewProjectID(), string(long), testConfig()); err == nil {
		t.Error("256-char name accepted")
	}

	if _, err := New(identity.NewProjectID(), "deploy", Config{}); err == nil {
		t.Error("empty config accepted")
	}
}

func TestUpdateConfig(t *testing.T) {
	p, _ := New(identity.NewProjectID(), "deploy", testConfig())
	p.TakeEvents()

	next := testConfig()
	next.Stages[0].Jobs = append(next.Stages[0].Jobs, JobConfig{
		Name:     "package",
		Commands: []string{"make package"},
	})

	if err := p.UpdateConfig(next); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if p.Version() != 2 {
		t.Errorf("Version() = %d, want 2", p.Version())
	}

	events := p.TakeEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	updated := events[0].(event.PipelineConfigUpdated)
	if updated.OldVersion != 1 || updated.NewVersion != 2 {
		t.Errorf("versions = %d -> %d, want 1 -> 2", updated.OldVersion, updated.NewVersion)
	}
}

func TestUpdateConfigRejectsInvalid(t *testing.T) {
	p, _ := New(identity.NewProjectID(), "deploy", testConfig())
	p.TakeEvents()

	if err := p.UpdateConfig(Config{Version: "1.0"}); err == nil {
		t.Fatal("invalid config accepted")
	}
	if p.Version() != 1 {
		t.Errorf("version bumped on rejected update: %d", p.Version())
	}
	if len(p.TakeEvents()) != 0 {
		t.Error("events emitted on rejected update")
	}
}

func TestEnableDisableIdempotent(t *testing.T) {
	p, _ := New(identity.NewProjectID(), "deploy", testConfig())
	p.TakeEvents()

	// Already enabled: nothing happens.
	p.Enable()
	if len(p.TakeEvents()) != 0 {
		t.Error("Enable on enabled pipeline emitted events")
	}

	p.Disable()
	events := p.TakeEvents()
	if len(events) != 1 || events[0].EventName() != "pipeline.disabled" {
		t.Fatalf("expected pipeline.disabled, got %v", events)
	}

	p.Disable()
	if len(p.TakeEvents()) != 0 {
		t.Error("Disable on disabled pipeline emitted events")
	}

	p.Enable()
	events = p.TakeEvents()
	if len(events) != 1 || events[0].EventName() != "pipeline.enabled" {
		t.Fatalf("expected pipeline.enabled, got %v", events)
	}
}

func TestTags(t *testing.T) {
	p, _ := New(identity.NewProjectID(), "deploy", testConfig())

	p.AddTag("production")
	p.AddTag("critical")
	p.AddTag("production")
	if len(p.Tags()) != 2 {
		t.Errorf("Tags() = %v, want 2 entries", p.Tags())
	}

	p.RemoveTag("critical")
	if len(p.Tags()) != 1 || p.Tags()[0] != "production" {
		t.Errorf("Tags() = %v, want [production]", p.Tags())
	}
}
