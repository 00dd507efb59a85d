// Package testutils provides shared test doubles for the engine: actors,
// permission backends, response collectors, and a controllable clock.
package testutils

import "lineroute/pkg/routetypes"

var _ routetypes.Actor = (*MockActor)(nil)

// MockActor is a configurable Actor for tests.
type MockActor struct {
	ActorID   string
	ActorName string
	Console   bool
}

// NewMockActor creates an ordinary (non-console) actor whose id doubles as
// its name.
func NewMockActor(id string) *MockActor {
	return &MockActor{ActorID: id, ActorName: id}
}

// NewConsoleActor creates a console actor.
func NewConsoleActor() *MockActor {
	return &MockActor{ActorID: "console", ActorName: "Console", Console: true}
}

// ID returns the configured identity.
func (a *MockActor) ID() string { return a.ActorID }

// Name returns the configured display name.
func (a *MockActor) Name() string { return a.ActorName }

// IsConsole reports whether the actor was built as a console actor.
func (a *MockActor) IsConsole() bool { return a.Console }
