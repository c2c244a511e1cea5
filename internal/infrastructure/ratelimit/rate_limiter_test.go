package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubmitReportLimit(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 5; i++ {
		allowed, _ := rl.Allow("user-1", "submit_report")
		assert.True(t, allowed, "submission %d should be allowed", i+1)
	}

	allowed, wait := rl.Allow("user-1", "submit_report")
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
}

func TestLimitsAreIndependentPerUserAndAction(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 5; i++ {
		rl.Allow("user-1", "submit_report")
	}

	allowed, _ := rl.Allow("user-2", "submit_report")
	assert.True(t, allowed, "another user has their own bucket")

	allowed, _ = rl.Allow("user-1", "vote")
	assert.True(t, allowed, "a different action has its own bucket")
}

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(1, 1, 10*time.Millisecond)

	allowed, _ := tb.Allow()
	assert.True(t, allowed)

	allowed, _ = tb.Allow()
	assert.False(t, allowed)

	time.Sleep(15 * time.Millisecond)
	allowed, _ = tb.Allow()
	assert.True(t, allowed)
}
