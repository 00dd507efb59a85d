// Package routetypes defines the shared types of the LineRoute engine: the
// actor and collaborator interfaces, command and parameter descriptors, the
// dispatcher configuration, and the classified error representation used
// across parsing, routing, resolution, and dispatch.
package routetypes

// Actor is the opaque party a command is dispatched on behalf of. Its identity
// keys cooldown state and is handed to the permission backend; IsConsole
// distinguishes the hosting process itself from an addressable caller, which
// some context resolvers require.
type Actor interface {
	// ID returns a stable identity string, unique per actor.
	ID() string
	// Name returns a display name for messages and logs.
	Name() string
	// IsConsole reports whether this actor is the hosting console rather
	// than an ordinary caller.
	IsConsole() bool
}

// PermissionChecker is the permission backend collaborator. It is consulted by
// the permission condition and by the completion engine when filtering
// candidates the actor may not see.
type PermissionChecker interface {
	HasPermission(actor Actor, permission string) bool
}

// PermissionCheckerFunc adapts a plain function to the PermissionChecker
// interface.
type PermissionCheckerFunc func(actor Actor, permission string) bool

// HasPermission calls f.
func (f PermissionCheckerFunc) HasPermission(actor Actor, permission string) bool {
	return f(actor, permission)
}

// ResponseHandler decides what to do with a handler's non-nil return value.
// One handler is installed as the dispatcher default; individual commands may
// carry their own.
type ResponseHandler interface {
	Respond(actor Actor, commandPath string, value any)
}

// ResponseHandlerFunc adapts a plain function to the ResponseHandler
// interface.
type ResponseHandlerFunc func(actor Actor, commandPath string, value any)

// Respond calls f.
func (f ResponseHandlerFunc) Respond(actor Actor, commandPath string, value any) {
	f(actor, commandPath, value)
}
