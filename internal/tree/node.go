package tree

import (
	"time"

	"lineroute/pkg/routetypes"
)

// Node is either an *Executable or a *Category stored in the command tree.
type Node interface {
	// NodePath returns the full path of the node.
	NodePath() Path
}

// Executable is a leaf command: identity, compiled parameter list, permission
// requirement, declared metadata, handler, and a back-reference to its parent
// category (nil for root commands).
type Executable struct {
	id          int
	path        Path
	params      []*Parameter
	permission  string
	cooldown    time.Duration
	description string
	usage       string
	secret      bool
	handler     routetypes.HandlerFunc
	responder   routetypes.ResponseHandler
	parent      *Category
}

// ID returns the numeric registration id, unique per registry.
func (e *Executable) ID() int { return e.id }

// Name returns the final path segment.
func (e *Executable) Name() string { return e.path.Last() }

// NodePath returns the executable's full path.
func (e *Executable) NodePath() Path { return e.path }

// Path returns the executable's full path.
func (e *Executable) Path() Path { return e.path }

// Parameters returns the compiled parameters in positional order. The slice
// is shared; callers must not mutate it.
func (e *Executable) Parameters() []*Parameter { return e.params }

// Permission returns the required permission string, empty for none.
func (e *Executable) Permission() string { return e.permission }

// Cooldown returns the per-actor cooldown duration, zero for none.
func (e *Executable) Cooldown() time.Duration { return e.cooldown }

// Description returns the declared description.
func (e *Executable) Description() string { return e.description }

// Usage returns the declared usage line.
func (e *Executable) Usage() string { return e.usage }

// Secret reports whether the command is hidden from completion.
func (e *Executable) Secret() bool { return e.secret }

// Handler returns the command body.
func (e *Executable) Handler() routetypes.HandlerFunc { return e.handler }

// Responder returns the command's own response handler, or nil when the
// dispatcher default applies.
func (e *Executable) Responder() routetypes.ResponseHandler { return e.responder }

// Category returns the parent category, nil for root commands.
func (e *Executable) Category() *Category { return e.parent }

// Category is an interior tree node grouping subcommands, optionally with a
// default action invoked when no further segment is supplied. A category with
// no children and no default action is pruned by the registry.
type Category struct {
	path          Path
	permission    string
	children      map[string]Node
	defaultAction *Executable
	parent        *Category
}

// NodePath returns the category's full path.
func (c *Category) NodePath() Path { return c.path }

// Path returns the category's full path.
func (c *Category) Path() Path { return c.path }

// Name returns the final path segment.
func (c *Category) Name() string { return c.path.Last() }

// Permission returns the permission checked on every descent through this
// category, empty for none.
func (c *Category) Permission() string { return c.permission }

// Parent returns the parent category, nil for root categories.
func (c *Category) Parent() *Category { return c.parent }

// child looks up a direct child by its (already lower-cased) segment.
// Callers go through the registry, which holds the lock.
func (c *Category) child(segment string) (Node, bool) {
	n, ok := c.children[segment]
	return n, ok
}

func (c *Category) isEmpty() bool {
	return len(c.children) == 0 && c.defaultAction == nil
}
