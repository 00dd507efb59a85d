package routetypes

import "time"

// ParamType names the declared type of a command parameter. The resolver
// pipeline selects a resolver by inspecting this value together with the rest
// of the parameter descriptor.
type ParamType string

// Built-in parameter types understood by the default resolver pipeline.
const (
	// TypeString consumes exactly one token verbatim.
	TypeString ParamType = "string"
	// TypeText greedily consumes every remaining token, joined by single
	// spaces. Useful for trailing free-text arguments.
	TypeText ParamType = "text"
	// TypeInt parses a decimal integer, or hexadecimal when prefixed 0x.
	TypeInt ParamType = "int"
	// TypeInt64 parses a 64-bit integer, decimal or 0x-prefixed hex.
	TypeInt64 ParamType = "int64"
	// TypeUint parses an unsigned 64-bit integer, decimal or 0x-prefixed hex.
	TypeUint ParamType = "uint"
	// TypeFloat parses a 64-bit floating point number.
	TypeFloat ParamType = "float"
	// TypeBool matches a token against affirmative/negative word sets,
	// case-insensitively.
	TypeBool ParamType = "bool"
	// TypeEnum matches a token against the parameter's declared enum values.
	TypeEnum ParamType = "enum"
	// TypeUUID parses an RFC 4122 identifier.
	TypeUUID ParamType = "uuid"
	// TypeURL parses an absolute URL.
	TypeURL ParamType = "url"
	// TypeDuration parses a Go duration string such as "1h30m".
	TypeDuration ParamType = "duration"
	// TypeActor resolves to the invoking actor without consuming tokens.
	TypeActor ParamType = "actor"
	// TypeConsole resolves to the invoking actor and fails unless that
	// actor is the console. Consumes no tokens.
	TypeConsole ParamType = "console"
	// TypeCommand resolves to the executing command object without
	// consuming tokens.
	TypeCommand ParamType = "command"
)

// Validator checks a resolved parameter value. Implementations should return
// a *RouteError for classified failures; any other error is wrapped with
// KindValidation by the dispatcher.
type Validator func(value any) error

// SuggestFunc produces completion candidates for a parameter given the
// partially typed token. Returned values are prefix-filtered and sorted by the
// completion engine.
type SuggestFunc func(actor Actor, partial string) []string

// Invocation is the view of a single dispatch handed to command handlers.
// Resolved parameter values are available by name and in declaration order.
type Invocation interface {
	// Actor returns the invoking actor.
	Actor() Actor
	// CommandPath returns the resolved command's full path, e.g. "shop buy".
	CommandPath() string
	// RawInput returns the original input line as typed.
	RawInput() string
	// Value returns the resolved value for the named parameter, or nil if
	// the parameter resolved to no value.
	Value(name string) any
	// Values returns all resolved values in parameter declaration order.
	Values() []any
	// String returns the named value as a string, or "" if absent or not
	// a string.
	String(name string) string
	// Int returns the named value as an int, converting from the integer
	// types the built-in resolvers produce. Returns 0 if absent.
	Int(name string) int
	// Bool returns the named value as a bool, or false if absent.
	Bool(name string) bool
}

// HandlerFunc is a command body. A non-nil returned value is passed to the
// command's response handler; a non-nil error is wrapped with
// KindCommandInvocation before reaching the error router.
type HandlerFunc func(inv Invocation) (any, error)

// ParameterSpec describes one handler input of a command being registered.
type ParameterSpec struct {
	// Name identifies the parameter in errors, lookups, and flag syntax.
	Name string
	// Type selects the resolver. Defaults to TypeString when empty.
	Type ParamType
	// Optional parameters resolve to their defaults, or to nil, when no
	// token is available; validators still run against the nil value.
	// Required parameters raise KindMissingArgument.
	Optional bool
	// Switch marks a presence-only boolean parameter.
	Switch bool
	// Flag marks a named, value-bearing parameter found anywhere in the
	// remaining tokens.
	Flag bool
	// FlagName overrides the token name used for switches and flags.
	// Defaults to Name.
	FlagName string
	// Defaults are tokens resolved through the parameter's own resolver
	// when the parameter is absent from the input. Declaring defaults
	// makes the parameter optional.
	Defaults []string
	// Validators run against the resolved value, in order.
	Validators []Validator
	// EnumValues lists the accepted constants for TypeEnum parameters.
	EnumValues []string
	// EnumFold makes enum matching case-insensitive.
	EnumFold bool
	// Suggest is the completion candidate source for this parameter.
	Suggest SuggestFunc
}

// CommandSpec is the declarative descriptor consumed by registration. It
// enumerates everything the dispatch core needs: no runtime introspection of
// handlers ever happens.
type CommandSpec struct {
	// Path is the whitespace-separated command path, e.g. "shop buy".
	// Segments are lower-cased on registration.
	Path string
	// Default registers this command as the default action of the category
	// at Path instead of as a keyed child.
	Default bool
	// Permission required to execute, empty for none.
	Permission string
	// Cooldown between invocations per actor, zero for none.
	Cooldown time.Duration
	// Description is a short human-readable summary.
	Description string
	// Usage is the human-readable usage line.
	Usage string
	// Secret hides the command from completion.
	Secret bool
	// Parameters in positional order.
	Parameters []ParameterSpec
	// Handler is the command body. Required.
	Handler HandlerFunc
	// Responder overrides the dispatcher's default response handler for
	// this command.
	Responder ResponseHandler
}

// CategorySpec attaches metadata to an interior tree node. Categories come
// into existence implicitly when commands register beneath them; a
// CategorySpec is only needed to set a descent permission.
type CategorySpec struct {
	Path       string
	Permission string
}
