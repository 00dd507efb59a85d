package testutils

import (
	"sync"

	"lineroute/pkg/routetypes"
)

// MockPermissionChecker grants the permissions explicitly listed per actor
// id, or everything when AllowAll is set. It records every query so tests can
// assert on what was consulted.
type MockPermissionChecker struct {
	mu       sync.Mutex
	AllowAll bool
	granted  map[string]map[string]bool
	queries  []string
}

// NewMockPermissionChecker creates a checker that denies everything until
// permissions are granted.
func NewMockPermissionChecker() *MockPermissionChecker {
	return &MockPermissionChecker{granted: make(map[string]map[string]bool)}
}

// NewAllowAllChecker creates a checker that grants every permission.
func NewAllowAllChecker() *MockPermissionChecker {
	c := NewMockPermissionChecker()
	c.AllowAll = true
	return c
}

// Grant gives actorID the permission.
func (c *MockPermissionChecker) Grant(actorID, permission string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.granted[actorID] == nil {
		c.granted[actorID] = make(map[string]bool)
	}
	c.granted[actorID][permission] = true
}

// Revoke removes the permission from actorID.
func (c *MockPermissionChecker) Revoke(actorID, permission string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.granted[actorID], permission)
}

// HasPermission implements routetypes.PermissionChecker.
func (c *MockPermissionChecker) HasPermission(actor routetypes.Actor, permission string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, actor.ID()+":"+permission)
	if c.AllowAll {
		return true
	}
	return c.granted[actor.ID()][permission]
}

// Queries returns every "actorID:permission" pair checked so far.
func (c *MockPermissionChecker) Queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.queries...)
}
