// Package dispatcher drives a dispatch end to end: tokenize the line, walk
// the command tree, run the condition pipeline, assemble typed parameters
// through the resolver pipeline, invoke the handler, and hand the outcome to
// a response handler or the error router. A single Dispatch call runs
// synchronously on the caller's goroutine; the only background work the
// engine owns is the cooldown janitor.
package dispatcher

import (
	"runtime/debug"

	"github.com/charmbracelet/log"

	"lineroute/internal/condition"
	"lineroute/internal/logger"
	"lineroute/internal/resolver"
	"lineroute/internal/tokenizer"
	"lineroute/internal/tree"
	"lineroute/pkg/routetypes"
)

// Dispatcher owns one command tree, resolver pipeline, condition list, and
// error router. Multiple dispatchers coexist independently; nothing here is
// global state.
type Dispatcher struct {
	config     routetypes.DispatcherConfig
	registry   *tree.Registry
	pipeline   *resolver.Pipeline
	conditions []condition.Condition
	router     *ErrorRouter
	checker    routetypes.PermissionChecker
	responder  routetypes.ResponseHandler
	cooldowns  *condition.CooldownCondition
	log        *log.Logger
}

// New creates a dispatcher with the built-in resolver pipeline and the
// permission and cooldown conditions installed. checker backs both the
// permission condition and category descent checks; a nil checker denies
// every declared permission.
func New(checker routetypes.PermissionChecker, config routetypes.DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		config:    config,
		registry:  tree.NewRegistry(),
		pipeline:  resolver.Default(),
		router:    NewErrorRouter(config.SanitizeStacks),
		checker:   checker,
		cooldowns: condition.NewCooldownCondition(config.ClampRemainder),
		log:       logger.NewStyledLogger("Dispatcher"),
	}
	d.conditions = []condition.Condition{
		condition.NewPermissionCondition(checker),
		d.cooldowns,
	}
	d.responder = routetypes.ResponseHandlerFunc(func(actor routetypes.Actor, commandPath string, value any) {
		d.log.Debug("unhandled response value", "command", commandPath, "actor", actor.ID(), "value", value)
	})
	return d
}

// NewWithDefaults creates a dispatcher with DefaultDispatcherConfig.
func NewWithDefaults(checker routetypes.PermissionChecker) *Dispatcher {
	return New(checker, routetypes.DefaultDispatcherConfig())
}

// Registry exposes the command tree for lookup and listing.
func (d *Dispatcher) Registry() *tree.Registry { return d.registry }

// Pipeline exposes the resolver pipeline so callers can prepend custom
// factories.
func (d *Dispatcher) Pipeline() *resolver.Pipeline { return d.pipeline }

// Router exposes the error router for handler registration.
func (d *Dispatcher) Router() *ErrorRouter { return d.router }

// Config returns the dispatcher's configuration.
func (d *Dispatcher) Config() routetypes.DispatcherConfig { return d.config }

// AddCondition appends a custom condition after the built-ins. Conditions run
// in registration order; call during setup, before dispatching begins.
func (d *Dispatcher) AddCondition(c condition.Condition) {
	d.conditions = append(d.conditions, c)
}

// SetResponder replaces the default response handler.
func (d *Dispatcher) SetResponder(h routetypes.ResponseHandler) {
	d.responder = h
}

// Register compiles and inserts a command spec, verifying that every declared
// parameter has a resolver in the pipeline. On a coverage failure the partial
// registration is rolled back.
func (d *Dispatcher) Register(spec routetypes.CommandSpec) error {
	exec, err := d.registry.Register(spec)
	if err != nil {
		return err
	}
	for _, param := range exec.Parameters() {
		if _, rerr := d.pipeline.ResolverFor(param); rerr != nil {
			if spec.Default {
				d.registry.UnregisterDefault(spec.Path)
			} else {
				d.registry.Unregister(spec.Path)
			}
			return rerr
		}
	}
	d.log.Debug("command registered", "command", exec.Path().String())
	return nil
}

// RegisterCategory attaches a descent permission to a category.
func (d *Dispatcher) RegisterCategory(spec routetypes.CategorySpec) error {
	_, err := d.registry.RegisterCategory(spec)
	return err
}

// Unregister removes the command or subtree at path, pruning emptied
// ancestors. Returns true when anything matched.
func (d *Dispatcher) Unregister(path string) bool {
	return d.registry.Unregister(path)
}

// UnregisterDefault removes only the default action of the category at path.
func (d *Dispatcher) UnregisterDefault(path string) bool {
	return d.registry.UnregisterDefault(path)
}

// Close stops the cooldown janitor. The dispatcher must not be used after
// Close.
func (d *Dispatcher) Close() {
	d.cooldowns.Stop()
}

// Dispatch tokenizes line, routes it through the tree, and executes the
// resolved command on behalf of actor. Every failure is classified, routed
// through the error router exactly once, and returned. A blank line is a
// no-op.
func (d *Dispatcher) Dispatch(actor routetypes.Actor, line string) error {
	stack, err := tokenizer.Tokenize(line)
	if err != nil {
		re, _ := routetypes.AsRouteError(err)
		return d.fail(actor, re)
	}
	if stack.IsEmpty() {
		return nil
	}

	segment, _ := stack.Pop()
	node, ok := d.registry.RootChild(segment)
	if !ok {
		e := routetypes.NewRouteError(routetypes.KindInvalidCommand, "unknown command %q", segment)
		e.Token = segment
		return d.fail(actor, e)
	}

	for {
		switch n := node.(type) {
		case *tree.Executable:
			return d.execute(actor, n, stack, line)
		case *tree.Category:
			if perm := n.Permission(); perm != "" && !d.hasPermission(actor, perm) {
				return d.fail(actor, condition.MissingPermission(perm))
			}
			next, hasNext := stack.Peek()
			if !hasNext {
				if def := d.registry.DefaultActionOf(n); def != nil {
					return d.execute(actor, def, stack, line)
				}
				e := routetypes.NewRouteError(routetypes.KindNoSubcommandSpecified,
					"command %q requires a subcommand", n.Path())
				return d.fail(actor, e)
			}
			if child, found := d.registry.ChildOf(n, next); found {
				_, _ = stack.Pop()
				node = child
				continue
			}
			// An unmatched token becomes the default action's first
			// argument when one exists.
			if def := d.registry.DefaultActionOf(n); def != nil {
				return d.execute(actor, def, stack, line)
			}
			e := routetypes.NewRouteError(routetypes.KindInvalidSubcommand,
				"%q is not a subcommand of %q", next, n.Path())
			e.Token = next
			return d.fail(actor, e)
		default:
			e := routetypes.NewRouteError(routetypes.KindInvalidCommand, "unroutable node at %q", segment)
			return d.fail(actor, e)
		}
	}
}

// execute runs conditions, parameter resolution, the handler, and response
// handling for one resolved executable.
func (d *Dispatcher) execute(actor routetypes.Actor, exec *tree.Executable, stack *tokenizer.ArgumentStack, line string) error {
	inv := newInvocation(actor, exec, line)

	remaining := stack.Tokens()
	for _, c := range d.conditions {
		if err := c.Check(inv, remaining); err != nil {
			return d.fail(actor, classify(err, routetypes.KindValidation))
		}
	}

	if err := d.resolveParameters(inv, stack); err != nil {
		return d.fail(actor, err)
	}

	result, err := d.invoke(inv)
	if err != nil {
		re, _ := routetypes.AsRouteError(err)
		return d.fail(actor, re)
	}

	d.log.Debug("command executed", "command", inv.CommandPath(), "actor", actor.ID())

	if result != nil {
		responder := exec.Responder()
		if responder == nil {
			responder = d.responder
		}
		if responder != nil {
			responder.Respond(actor, inv.CommandPath(), result)
		}
	}
	return nil
}

// invoke runs the handler body, wrapping returned errors and recovered
// panics with KindCommandInvocation so the router can unwrap them.
func (d *Dispatcher) invoke(inv *Invocation) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			e := routetypes.NewRouteError(routetypes.KindCommandInvocation,
				"command %q panicked: %v", inv.CommandPath(), rec)
			if cause, ok := rec.(error); ok {
				e.Cause = cause
			}
			e.Stack = string(debug.Stack())
			result, err = nil, e
		}
	}()

	value, herr := inv.exec.Handler()(inv)
	if herr != nil {
		e := routetypes.NewRouteError(routetypes.KindCommandInvocation,
			"command %q failed: %v", inv.CommandPath(), herr)
		e.Cause = herr
		return nil, e
	}
	return value, nil
}

// fail routes the classified error and returns it.
func (d *Dispatcher) fail(actor routetypes.Actor, err *routetypes.RouteError) error {
	d.router.Route(actor, err)
	return err
}

func (d *Dispatcher) hasPermission(actor routetypes.Actor, permission string) bool {
	return d.checker != nil && d.checker.HasPermission(actor, permission)
}

// classify returns err's RouteError, or wraps an unclassified error with the
// fallback kind.
func classify(err error, fallback routetypes.ErrorKind) *routetypes.RouteError {
	if re, ok := routetypes.AsRouteError(err); ok {
		return re
	}
	e := routetypes.NewRouteError(fallback, "%v", err)
	e.Cause = err
	return e
}
