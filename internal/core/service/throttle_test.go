package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottleFirstRunAllowed(t *testing.T) {

	assert := assert.New(t)

	th := NewThrottle(30 * time.Second)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(th.Allow(now))
	assert.Equal(now, th.LastRun())
}

func TestThrottleDeniesWithinWindow(t *testing.T) {

	assert := assert.New(t)

	th := NewThrottle(30 * time.Second)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(th.Allow(now))
	assert.False(th.Allow(now.Add(10 * time.Second)))
	assert.False(th.Allow(now.Add(29999 * time.Millisecond)))
	// last run is not advanced by denied attempts
	assert.Equal(now, th.LastRun())
}

func TestThrottleAllowsAfterWindow(t *testing.T) {

	assert := assert.New(t)

	th := NewThrottle(30 * time.Second)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(th.Allow(now))
	assert.True(th.Allow(now.Add(30 * time.Second)))
	assert.Equal(now.Add(30*time.Second), th.LastRun())
}

func TestThrottleReset(t *testing.T) {

	assert := assert.New(t)

	th := NewThrottle(30 * time.Second)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(th.Allow(now))
	th.Reset()
	assert.True(th.Allow(now.Add(1 * time.Second)))
}
