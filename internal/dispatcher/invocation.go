package dispatcher

import (
	"lineroute/internal/tree"
	"lineroute/pkg/routetypes"
)

// Invocation carries one dispatch through conditions, resolution, and the
// handler. It implements routetypes.Invocation for handlers plus the narrower
// views the resolver and condition packages consume.
type Invocation struct {
	actor   routetypes.Actor
	exec    *tree.Executable
	raw     string
	values  map[string]any
	ordered []any
}

func newInvocation(actor routetypes.Actor, exec *tree.Executable, raw string) *Invocation {
	return &Invocation{
		actor:   actor,
		exec:    exec,
		raw:     raw,
		values:  make(map[string]any, len(exec.Parameters())),
		ordered: make([]any, len(exec.Parameters())),
	}
}

// set records a resolved value under the parameter's name and position.
func (inv *Invocation) set(param *tree.Parameter, value any) {
	inv.values[param.Name()] = value
	inv.ordered[param.Index()] = value
}

// Actor returns the invoking actor.
func (inv *Invocation) Actor() routetypes.Actor { return inv.actor }

// Executable returns the command being executed.
func (inv *Invocation) Executable() *tree.Executable { return inv.exec }

// CommandPath returns the executed command's full path string.
func (inv *Invocation) CommandPath() string { return inv.exec.Path().String() }

// RawInput returns the original input line.
func (inv *Invocation) RawInput() string { return inv.raw }

// Value returns the resolved value for the named parameter, nil when the
// parameter resolved to no value.
func (inv *Invocation) Value(name string) any { return inv.values[name] }

// Values returns the resolved values in parameter declaration order.
func (inv *Invocation) Values() []any {
	out := make([]any, len(inv.ordered))
	copy(out, inv.ordered)
	return out
}

// String returns the named value as a string, "" when absent or untyped.
func (inv *Invocation) String(name string) string {
	if s, ok := inv.values[name].(string); ok {
		return s
	}
	return ""
}

// Int returns the named value as an int, converting from the integer types
// the built-in resolvers produce.
func (inv *Invocation) Int(name string) int {
	switch v := inv.values[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Bool returns the named value as a bool, false when absent.
func (inv *Invocation) Bool(name string) bool {
	if b, ok := inv.values[name].(bool); ok {
		return b
	}
	return false
}
