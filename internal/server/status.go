package server

import (
	"sync"
	"time"
)

// State describes what the agent is currently doing.
type State string

const (
	StateIdle    State = "idle"
	StateBusy    State = "busy"
	StateError   State = "error"
	StateOffline State = "offline"
)

// StatusPayload is the wire form of the agent status.
type StatusPayload struct {
	AgentID     string    `json:"agent_id"`
	State       State     `json:"state"`
	CurrentTask string    `json:"current_task,omitempty"`
	LastActive  time.Time `json:"last_active"`
	Version     string    `json:"version"`
}

// statusTracker holds the mutable agent state shared between the
// worker and the HTTP handlers.
type statusTracker struct {
	mu          sync.Mutex
	agentID     string
	version     string
	state       State
	currentTask string
	lastActive  time.Time
}

func newStatusTracker(agentID, version string) *statusTracker {
	return &statusTracker{
		agentID:    agentID,
		version:    version,
		state:      StateIdle,
		lastActive: time.Now().UTC(),
	}
}

func (t *statusTracker) set(state State, task string) StatusPayload {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
	t.currentTask = task
	t.lastActive = time.Now().UTC()
	return t.payloadLocked()
}

func (t *statusTracker) payload() StatusPayload {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.payloadLocked()
}

func (t *statusTracker) payloadLocked() StatusPayload {
	return StatusPayload{
		AgentID:     t.agentID,
		State:       t.state,
		CurrentTask: t.currentTask,
		LastActive:  t.lastActive,
		Version:     t.version,
	}
}
