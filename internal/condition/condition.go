// Package condition holds the pre-execution checks run before any parameter
// resolution. Conditions are evaluated in registration order; the first
// failure vetoes dispatch and short-circuits to the error router.
package condition

import (
	"lineroute/internal/tree"
	"lineroute/pkg/routetypes"
)

// Invocation is the read-only view of the dispatch a condition receives.
type Invocation interface {
	// Actor returns the invoking actor.
	Actor() routetypes.Actor
	// Executable returns the command about to execute.
	Executable() *tree.Executable
}

// Condition is a named pre-execution predicate. Check returns nil to allow
// dispatch or a classified error to veto it. remaining is a read-only view of
// the unconsumed tokens.
type Condition interface {
	Name() string
	Check(inv Invocation, remaining []string) error
}

// Func adapts a plain function to Condition.
type Func struct {
	ConditionName string
	CheckFunc     func(inv Invocation, remaining []string) error
}

// Name returns the condition name.
func (f Func) Name() string { return f.ConditionName }

// Check calls the wrapped function.
func (f Func) Check(inv Invocation, remaining []string) error {
	return f.CheckFunc(inv, remaining)
}
