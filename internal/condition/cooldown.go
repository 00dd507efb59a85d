package condition

import (
	"sync"
	"time"

	"lineroute/pkg/routetypes"
)

// defaultSweepInterval is how often the janitor scans for expired entries.
const defaultSweepInterval = time.Second

// cooldownEntry records when an actor last started a cooldown-guarded command
// and for how long the guard holds.
type cooldownEntry struct {
	start    time.Time
	duration time.Duration
}

// CooldownCondition rate-limits commands that declare a cooldown duration.
// State is a per-actor map of per-command-id entries, safe for concurrent
// dispatch; a single background janitor shared by all entries removes the
// expired ones. Expiry is advisory housekeeping: Check recomputes elapsed time
// itself and never depends on the janitor for correctness.
type CooldownCondition struct {
	mu      sync.Mutex
	entries map[string]map[int]cooldownEntry

	// clamp is the minimum remaining duration a veto reports; sub-clamp
	// remainders are rounded up to it for display. Zero disables clamping.
	clamp time.Duration
	now   func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewCooldownCondition creates a cooldown condition and starts its janitor.
// Call Stop when the owning dispatcher shuts down.
func NewCooldownCondition(clamp time.Duration) *CooldownCondition {
	c := &CooldownCondition{
		entries: make(map[string]map[int]cooldownEntry),
		clamp:   clamp,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go c.janitor(defaultSweepInterval)
	return c
}

// newCooldownConditionForTest builds a condition with a fake clock and no
// janitor.
func newCooldownConditionForTest(clamp time.Duration, now func() time.Time) *CooldownCondition {
	return &CooldownCondition{
		entries: make(map[string]map[int]cooldownEntry),
		clamp:   clamp,
		now:     now,
		stop:    make(chan struct{}),
	}
}

// Name returns "cooldown".
func (c *CooldownCondition) Name() string { return "cooldown" }

// Check allows the first invocation per (actor, command) and vetoes repeats
// until the declared duration elapses, reporting the remaining time.
func (c *CooldownCondition) Check(inv Invocation, _ []string) error {
	exec := inv.Executable()
	duration := exec.Cooldown()
	if duration <= 0 {
		return nil
	}

	actorID := inv.Actor().ID()
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	perActor, ok := c.entries[actorID]
	if !ok {
		perActor = make(map[int]cooldownEntry)
		c.entries[actorID] = perActor
	}
	if entry, ok := perActor[exec.ID()]; ok {
		remaining := entry.start.Add(entry.duration).Sub(now)
		if remaining > 0 {
			if c.clamp > 0 && remaining < c.clamp {
				remaining = c.clamp
			}
			e := routetypes.NewRouteError(routetypes.KindCooldown,
				"command is on cooldown for another %s", remaining)
			e.Remaining = remaining
			return e
		}
	}
	perActor[exec.ID()] = cooldownEntry{start: now, duration: duration}
	return nil
}

// Stop shuts the janitor down. Safe to call more than once.
func (c *CooldownCondition) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// janitor periodically removes expired entries so the maps do not grow with
// every actor ever seen.
func (c *CooldownCondition) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *CooldownCondition) sweep() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for actorID, perActor := range c.entries {
		for id, entry := range perActor {
			if now.Sub(entry.start) >= entry.duration {
				delete(perActor, id)
			}
		}
		if len(perActor) == 0 {
			delete(c.entries, actorID)
		}
	}
}
