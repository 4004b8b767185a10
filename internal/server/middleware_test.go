package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientLimiters_PerHost(t *testing.T) {
	limiters := newClientLimiters()

	a := limiters.get("10.0.0.1:51000")
	b := limiters.get("10.0.0.2:51000")
	assert.NotSame(t, a, b)

	// same host, different ephemeral port shares one limiter
	assert.Same(t, a, limiters.get("10.0.0.1:51001"))
}

func TestClientLimiters_BurstThenThrottle(t *testing.T) {
	limiters := newClientLimiters()
	limiter := limiters.get("10.0.0.1:51000")

	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow(), "request %d within burst", i)
	}
	assert.False(t, limiter.Allow())
}

func TestClientLimiters_PruneEvictsIdle(t *testing.T) {
	limiters := newClientLimiters()

	limiters.get("10.0.0.1:51000")
	limiters.get("10.0.0.2:51000")
	assert.Len(t, limiters.clients, 2)

	limiters.clients["10.0.0.1"].lastSeen = time.Now().Add(-10 * time.Minute)

	limiters.prune(time.Now().Add(-3 * time.Minute))

	assert.Len(t, limiters.clients, 1)
	assert.Contains(t, limiters.clients, "10.0.0.2")
	assert.NotContains(t, limiters.clients, "10.0.0.1")
}
