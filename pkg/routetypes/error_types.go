package routetypes

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind is the discriminant of a classified dispatch failure. Every error
// raised by the engine carries exactly one kind; the error router dispatches
// on it.
type ErrorKind int

// The error taxonomy. Each kind names the stage and condition that raised it.
const (
	// KindArgumentParse: the tokenizer hit a grammar violation such as an
	// unterminated quote or a dangling escape.
	KindArgumentParse ErrorKind = iota
	// KindInvalidCommand: the first path segment matched nothing.
	KindInvalidCommand
	// KindInvalidSubcommand: a token was present at a category level but
	// matched no child, and the category has no default action.
	KindInvalidSubcommand
	// KindNoSubcommandSpecified: input ended at a category with no default
	// action.
	KindNoSubcommandSpecified
	// KindMissingArgument: a required parameter had no token to consume.
	KindMissingArgument
	// KindTooManyArguments: tokens remained after resolution in strict mode.
	KindTooManyArguments
	// KindInvalidNumber: a numeric resolver could not parse its token.
	KindInvalidNumber
	// KindInvalidBoolean: a token matched neither word set of the boolean
	// resolver.
	KindInvalidBoolean
	// KindInvalidEnum: a token matched none of a parameter's enum values.
	KindInvalidEnum
	// KindInvalidUUID: a token was not a valid RFC 4122 identifier.
	KindInvalidUUID
	// KindInvalidURL: a token was not a valid absolute URL.
	KindInvalidURL
	// KindNumberNotInRange: a range validator rejected an in-type value.
	KindNumberNotInRange
	// KindValidation: a custom validator rejected a value with an
	// unclassified error.
	KindValidation
	// KindInsufficientPermission: the permission condition vetoed dispatch.
	KindInsufficientPermission
	// KindCooldown: the cooldown condition vetoed dispatch; Remaining
	// carries the time left.
	KindCooldown
	// KindThrottled: the throttle condition vetoed dispatch.
	KindThrottled
	// KindActorMismatch: a context resolver required an actor subtype the
	// invoking actor is not (e.g. console-only).
	KindActorMismatch
	// KindCommandInvocation wraps any error raised inside the handler body
	// itself, preserving the cause for unwrapping.
	KindCommandInvocation
)

// String returns the kind's canonical name.
func (k ErrorKind) String() string {
	switch k {
	case KindArgumentParse:
		return "argument_parse"
	case KindInvalidCommand:
		return "invalid_command"
	case KindInvalidSubcommand:
		return "invalid_subcommand"
	case KindNoSubcommandSpecified:
		return "no_subcommand_specified"
	case KindMissingArgument:
		return "missing_argument"
	case KindTooManyArguments:
		return "too_many_arguments"
	case KindInvalidNumber:
		return "invalid_number"
	case KindInvalidBoolean:
		return "invalid_boolean"
	case KindInvalidEnum:
		return "invalid_enum"
	case KindInvalidUUID:
		return "invalid_uuid"
	case KindInvalidURL:
		return "invalid_url"
	case KindNumberNotInRange:
		return "number_not_in_range"
	case KindValidation:
		return "validation"
	case KindInsufficientPermission:
		return "insufficient_permission"
	case KindCooldown:
		return "cooldown"
	case KindThrottled:
		return "throttled"
	case KindActorMismatch:
		return "actor_mismatch"
	case KindCommandInvocation:
		return "command_invocation"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// RouteError is the single error representation of the engine. Kind is the
// discriminant; the remaining fields are structured context sufficient for a
// collaborator to render a localized message without parsing the message
// string. Fields irrelevant to a given kind are zero.
type RouteError struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Message is a human-readable description.
	Message string
	// Token is the offending input token, if any.
	Token string
	// Parameter is the name of the offending parameter, if any.
	Parameter string
	// Permission is the permission string that was required, for
	// KindInsufficientPermission.
	Permission string
	// Remaining is the time left, for KindCooldown and KindThrottled.
	Remaining time.Duration
	// Value is the rejected value, for validator failures.
	Value string
	// Min and Max are the violated inclusive bounds, for
	// KindNumberNotInRange.
	Min float64
	Max float64
	// Buffer and Index locate a grammar violation, for KindArgumentParse.
	Buffer string
	Index  int
	// Stack is the (possibly sanitized) stack trace of a recovered handler
	// panic, for KindCommandInvocation.
	Stack string
	// Cause is the wrapped underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return e.Kind.String()
}

// Unwrap returns the wrapped cause, making RouteError compatible with
// errors.Is and errors.As.
func (e *RouteError) Unwrap() error {
	return e.Cause
}

// NewRouteError creates a RouteError with the given kind and formatted
// message.
func NewRouteError(kind ErrorKind, format string, args ...any) *RouteError {
	return &RouteError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsRouteError extracts a *RouteError from err's chain. Returns nil and false
// when err carries no classified error.
func AsRouteError(err error) (*RouteError, bool) {
	var re *RouteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
