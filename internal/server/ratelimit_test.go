package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_BurstThenBlocked(t *testing.T) {
	rl := newRateLimiter(0.0001, 3)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
}

func TestRateLimiter_ClientsIndependent(t *testing.T) {
	rl := newRateLimiter(0.0001, 1)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"))
}

func TestStatusTracker_Transitions(t *testing.T) {
	tr := newStatusTracker("controller", "test")
	assert.Equal(t, StateIdle, tr.payload().State)

	p := tr.set(StateBusy, "deploying")
	assert.Equal(t, StateBusy, p.State)
	assert.Equal(t, "deploying", p.CurrentTask)

	p = tr.set(StateIdle, "")
	assert.Equal(t, StateIdle, p.State)
	assert.Empty(t, p.CurrentTask)
}
