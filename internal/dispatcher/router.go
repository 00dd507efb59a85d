package dispatcher

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"lineroute/internal/logger"
	"lineroute/pkg/routetypes"
)

// ErrorHandler receives a routed, classified error.
type ErrorHandler interface {
	Handle(actor routetypes.Actor, err *routetypes.RouteError)
}

// ErrorHandlerFunc adapts a function to ErrorHandler.
type ErrorHandlerFunc func(actor routetypes.Actor, err *routetypes.RouteError)

// Handle calls f.
func (f ErrorHandlerFunc) Handle(actor routetypes.Actor, err *routetypes.RouteError) {
	f(actor, err)
}

// ErrorRouter maps error kinds to handlers. Kinds without a registered
// handler fall back to a default handler, so no error is ever silently
// swallowed. Handler-body failures arrive wrapped with KindCommandInvocation;
// the router unwraps one level when the cause is itself classified and
// dispatches on the inner kind.
type ErrorRouter struct {
	mu       sync.RWMutex
	handlers map[routetypes.ErrorKind]ErrorHandler
	fallback ErrorHandler
	sanitize bool
	log      *log.Logger
}

// NewErrorRouter creates a router whose default handler logs the error.
func NewErrorRouter(sanitize bool) *ErrorRouter {
	styled := logger.NewStyledLogger("ErrorRouter")
	r := &ErrorRouter{
		handlers: make(map[routetypes.ErrorKind]ErrorHandler),
		sanitize: sanitize,
		log:      styled,
	}
	r.fallback = ErrorHandlerFunc(func(actor routetypes.Actor, err *routetypes.RouteError) {
		styled.Error("dispatch failed", "kind", err.Kind.String(), "actor", actor.ID(), "error", err.Error())
	})
	return r
}

// Handle registers a handler for one error kind, replacing any previous one.
func (r *ErrorRouter) Handle(kind routetypes.ErrorKind, h ErrorHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = h
}

// SetFallback replaces the default handler.
func (r *ErrorRouter) SetFallback(h ErrorHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

// SetSanitize toggles stack-trace sanitizing.
func (r *ErrorRouter) SetSanitize(sanitize bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sanitize = sanitize
}

// Route delivers err to the handler registered for its (unwrapped) kind, or
// to the fallback.
func (r *ErrorRouter) Route(actor routetypes.Actor, err *routetypes.RouteError) {
	r.mu.RLock()
	sanitize := r.sanitize
	r.mu.RUnlock()

	if sanitize && err.Stack != "" {
		err.Stack = sanitizeStack(err.Stack)
	}

	kind := err.Kind
	target := err
	if err.Kind == routetypes.KindCommandInvocation {
		if inner, ok := err.Cause.(*routetypes.RouteError); ok {
			kind = inner.Kind
			target = inner
		}
	}

	r.mu.RLock()
	h := r.handlers[kind]
	fallback := r.fallback
	r.mu.RUnlock()

	if h != nil {
		h.Handle(actor, target)
		return
	}
	fallback.Handle(actor, target)
}

// sanitizeStack drops runtime and dispatch-scaffolding frames from a
// recovered panic trace, leaving the frames inside the command body.
func sanitizeStack(stack string) string {
	lines := strings.Split(stack, "\n")
	var out []string
	if len(lines) > 0 && strings.HasPrefix(lines[0], "goroutine ") {
		out = append(out, lines[0])
		lines = lines[1:]
	}
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			continue
		}
		noisy := strings.HasPrefix(line, "runtime.") ||
			strings.HasPrefix(line, "runtime/") ||
			strings.HasPrefix(line, "panic(") ||
			strings.HasPrefix(line, "lineroute/internal/dispatcher.")
		if noisy {
			// Skip the frame's source-location line too.
			if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "\t") {
				i++
			}
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
