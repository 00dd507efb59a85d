package testutils

import (
	"sync"

	"lineroute/pkg/routetypes"
)

// Response is one value handed to a CollectingResponder.
type Response struct {
	ActorID     string
	CommandPath string
	Value       any
}

// CollectingResponder records every response it receives.
type CollectingResponder struct {
	mu        sync.Mutex
	responses []Response
}

// NewCollectingResponder creates an empty collector.
func NewCollectingResponder() *CollectingResponder {
	return &CollectingResponder{}
}

// Respond implements routetypes.ResponseHandler.
func (c *CollectingResponder) Respond(actor routetypes.Actor, commandPath string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, Response{
		ActorID:     actor.ID(),
		CommandPath: commandPath,
		Value:       value,
	})
}

// Responses returns a copy of everything collected so far.
func (c *CollectingResponder) Responses() []Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Response(nil), c.responses...)
}

// Last returns the most recent response. ok is false when nothing was
// collected.
func (c *CollectingResponder) Last() (Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.responses) == 0 {
		return Response{}, false
	}
	return c.responses[len(c.responses)-1], true
}

// CollectingErrorHandler records every routed error.
type CollectingErrorHandler struct {
	mu     sync.Mutex
	errors []*routetypes.RouteError
}

// NewCollectingErrorHandler creates an empty collector.
func NewCollectingErrorHandler() *CollectingErrorHandler {
	return &CollectingErrorHandler{}
}

// Handle records the routed error.
func (c *CollectingErrorHandler) Handle(_ routetypes.Actor, err *routetypes.RouteError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
}

// Errors returns a copy of everything collected so far.
func (c *CollectingErrorHandler) Errors() []*routetypes.RouteError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*routetypes.RouteError(nil), c.errors...)
}
