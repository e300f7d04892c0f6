// Package agent provides the build agent aggregate: a worker that accepts
// jobs up to a fixed concurrency and proves liveness through heartbeats.
package agent

import (
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// Status is the availability state of an agent.
type Status string

const (
	// StatusOnline agents are connected with capacity to spare.
	StatusOnline Status = "Online"

	// StatusBusy agents are connected but at capacity.
	StatusBusy Status = "Busy"

	// StatusOffline agents are disconnected.
	StatusOffline Status = "Offline"

	// StatusMaintenance agents are connected but withheld from scheduling.
	StatusMaintenance Status = "Maintenance"

	// StatusDisconnected agents dropped their connection without a clean
	// shutdown. Administrative; no transition sets it yet.
	StatusDisconnected Status = "Disconnected"
)

func (s Status) String() string { return string(s) }

// Platform describes the machine an agent runs on.
type Platform struct {
	OS           string
	OSVersion    string
	Architecture string
	CPUCores     uint32
	MemoryMB     uint64
	DiskGB       uint64
}

// Agent is the aggregate root for a build worker. The job counter never
// exceeds the concurrency limit and never goes below zero.
type Agent struct {
	id            identity.AgentID
	name          string
	description   string
	status        Status
	labels        map[string]string
	maxConcurrent int
	currentJobs   int
	platform      Platform
	lastHeartbeat time.Time
	ipAddress     string
	version       string
	createdAt     time.Time
	updatedAt     time.Time

	event.Buffer
}

// New creates an offline agent and emits AgentRegistered. The event is
// emitted here and nowhere else; reconnecting an existing agent does not
// register it again.
func New(name string, maxConcurrent int, platform Platform, version string) (*Agent, error) {
	if name == "" {
		return nil, fault.Validation("agent name cannot be empty")
	}
	if maxConcurrent < 1 {
		return nil, fault.Validation("agent must accept at least one concurrent job")
	}

	now := time.Now()
	a := &Agent{
		id:            identity.NewAgentID(),
		name:          name,
		status:        StatusOffline,
		labels:        make(map[string]string),
		maxConcurrent: maxConcurrent,
		platform:      platform,
		lastHeartbeat: now,
		version:       version,
		createdAt:     now,
		updatedAt:     now,
	}

	a.Append(event.AgentRegistered{AgentID: a.id, Name: name, At: now})
	return a, nil
}

// ID returns the agent ID.
func (a *Agent) ID() identity.AgentID { return a.id }

// Name returns the agent name.
func (a *Agent) Name() string { return a.name }

// Status returns the availability state.
func (a *Agent) Status() Status { return a.status }

// Platform returns the machine description.
func (a *Agent) Platform() Platform { return a.platform }

// Version returns the agent software version.
func (a *Agent) Version() string { return a.version }

// IPAddress returns the address recorded at connect time.
func (a *Agent) IPAddress() string { return a.ipAddress }

// CurrentJobs returns the number of jobs the agent is running.
func (a *Agent) CurrentJobs() int { return a.currentJobs }

// MaxConcurrentJobs returns the agent's concurrency limit.
func (a *Agent) MaxConcurrentJobs() int { return a.maxConcurrent }

// LastHeartbeat returns when the agent last proved liveness.
func (a *Agent) LastHeartbeat() time.Time { return a.lastHeartbeat }

// CreatedAt returns when the agent was registered.
func (a *Agent) CreatedAt() time.Time { return a.createdAt }

// UpdatedAt returns when the agent was last mutated.
func (a *Agent) UpdatedAt() time.Time { return a.updatedAt }

// CanAcceptJob reports whether the agent is online with spare capacity.
// Busy, Offline, and Maintenance agents never accept jobs.
func (a *Agent) CanAcceptJob() bool {
	return a.status == StatusOnline && a.currentJobs < a.maxConcurrent
}

// Connect brings the agent online at the given address and refreshes the
// heartbeat.
func (a *Agent) Connect(ipAddress string) {
	now := time.Now()
	a.status = StatusOnline
	a.ipAddress = ipAddress
	a.lastHeartbeat = now
	a.updatedAt = now
}

// Heartbeat refreshes the liveness timestamp.
func (a *Agent) Heartbeat() {
	now := time.Now()
	a.lastHeartbeat = now
	a.updatedAt = now
}

// Disconnect takes the agent offline and emits AgentDisconnected.
func (a *Agent) Disconnect() {
	a.status = StatusOffline
	a.updatedAt = time.Now()
	a.Append(event.AgentDisconnected{AgentID: a.id, At: a.updatedAt})
}

// SetMaintenance withholds the agent from scheduling without disconnecting.
func (a *Agent) SetMaintenance() {
	a.status = StatusMaintenance
	a.updatedAt = time.Now()
}

// AssignJob admits one job. The agent moves to Busy exactly when the
// counter reaches the limit.
func (a *Agent) AssignJob() error {
	if !a.CanAcceptJob() {
		return fault.AgentBusy("agent cannot accept more jobs")
	}

	a.currentJobs++
	if a.currentJobs >= a.maxConcurrent {
		a.status = StatusBusy
	} else {
		a.status = StatusOnline
	}
	a.updatedAt = time.Now()
	return nil
}

// ReleaseJob returns one unit of capacity. Releasing with no jobs running
// is an error; the counter never goes negative.
func (a *Agent) ReleaseJob() error {
	if a.currentJobs == 0 {
		return fault.Domain("no jobs to release")
	}

	a.currentJobs--
	a.status = StatusOnline
	a.updatedAt = time.Now()
	return nil
}

// AddLabel sets a capability label.
func (a *Agent) AddLabel(key, value string) {
	a.labels[key] = value
	a.updatedAt = time.Now()
}

// RemoveLabel unsets a capability label.
func (a *Agent) RemoveLabel(key string) {
	delete(a.labels, key)
	a.updatedAt = time.Now()
}

// HasLabel reports whether the agent carries the exact key/value pair.
func (a *Agent) HasLabel(key, value string) bool {
	v, ok := a.labels[key]
	return ok && v == value
}

// HasLabels reports whether the agent carries every requested key/value
// pair. An empty request matches.
func (a *Agent) HasLabels(labels map[string]string) bool {
	for k, v := range labels {
		if !a.HasLabel(k, v) {
			return false
		}
	}
	return true
}

// Labels returns a copy of the label map.
func (a *Agent) Labels() map[string]string {
	m := make(map[string]string, len(a.labels))
	for k, v := range a.labels {
		m[k] = v
	}
	return m
}

// IsDead reports whether the agent has missed heartbeats for longer than
// timeout.
func (a *Agent) IsDead(timeout time.Duration) bool {
	return time.Since(a.lastHeartbeat) > timeout
}
