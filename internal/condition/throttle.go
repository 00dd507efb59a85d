package condition

import (
	"sync"

	"golang.org/x/time/rate"

	"lineroute/pkg/routetypes"
)

// ThrottleCondition enforces a steady per-actor invocation rate across all
// commands, complementing the per-command cooldowns. Each actor gets its own
// token bucket, created on first use.
type ThrottleCondition struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewThrottleCondition creates a throttle allowing limit events per second
// with the given burst per actor.
func NewThrottleCondition(limit rate.Limit, burst int) *ThrottleCondition {
	return &ThrottleCondition{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Name returns "throttle".
func (c *ThrottleCondition) Name() string { return "throttle" }

// Check reserves one event from the actor's bucket, vetoing with the delay
// until the next permitted invocation when the bucket is empty.
func (c *ThrottleCondition) Check(inv Invocation, _ []string) error {
	c.mu.Lock()
	limiter, ok := c.limiters[inv.Actor().ID()]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.limiters[inv.Actor().ID()] = limiter
	}
	c.mu.Unlock()

	reservation := limiter.Reserve()
	if !reservation.OK() {
		e := routetypes.NewRouteError(routetypes.KindThrottled, "invocation rate exceeded")
		return e
	}
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		e := routetypes.NewRouteError(routetypes.KindThrottled,
			"invocation rate exceeded, retry in %s", delay)
		e.Remaining = delay
		return e
	}
	return nil
}
