// Package resolver converts raw tokens, or invocation context, into the typed
// values command handlers receive. Resolvers are produced by factories held in
// a priority-ordered pipeline; for each parameter the first factory that does
// not decline wins, keeping resolution order auditable.
package resolver

import (
	"fmt"
	"sync"

	"lineroute/internal/tokenizer"
	"lineroute/internal/tree"
	"lineroute/pkg/routetypes"
)

// Invocation is the read-only view of the current dispatch a resolver may
// consult.
type Invocation interface {
	// Actor returns the invoking actor.
	Actor() routetypes.Actor
	// Executable returns the command being executed.
	Executable() *tree.Executable
	// RawInput returns the original input line.
	RawInput() string
}

// Resolver is either a ContextResolver or a ValueResolver. The dispatcher
// type-switches on the concrete kind.
type Resolver any

// ContextResolver derives a value from the invocation context and consumes no
// tokens. Context-resolved parameters never fail due to missing input.
type ContextResolver interface {
	ResolveContext(inv Invocation, param *tree.Parameter) (any, error)
}

// ValueResolver consumes one or more tokens from the stack and produces a
// typed value.
type ValueResolver interface {
	ResolveValue(inv Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error)
}

// ContextResolverFunc adapts a function to ContextResolver.
type ContextResolverFunc func(inv Invocation, param *tree.Parameter) (any, error)

// ResolveContext calls f.
func (f ContextResolverFunc) ResolveContext(inv Invocation, param *tree.Parameter) (any, error) {
	return f(inv, param)
}

// ValueResolverFunc adapts a function to ValueResolver.
type ValueResolverFunc func(inv Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error)

// ResolveValue calls f.
func (f ValueResolverFunc) ResolveValue(inv Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error) {
	return f(inv, param, stack)
}

// Factory inspects a parameter and either declines by returning nil or
// returns a resolver for it.
type Factory interface {
	ResolverFor(param *tree.Parameter) Resolver
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(param *tree.Parameter) Resolver

// ResolverFor calls f.
func (f FactoryFunc) ResolverFor(param *tree.Parameter) Resolver {
	return f(param)
}

// Pipeline is the ordered factory list consulted per parameter. Factories
// prepended later take priority over the built-ins.
type Pipeline struct {
	mu        sync.RWMutex
	factories []Factory
}

// NewPipeline creates a pipeline with the given factories, consulted in
// order.
func NewPipeline(factories ...Factory) *Pipeline {
	return &Pipeline{factories: factories}
}

// Default returns the pipeline of built-in resolvers. Context resolvers come
// first, then the typed token parsers, with the plain string resolver as the
// final entry.
func Default() *Pipeline {
	return NewPipeline(
		ActorFactory(),
		CommandFactory(),
		EnumFactory(),
		NumberFactory(),
		BoolFactory(),
		UUIDFactory(),
		URLFactory(),
		DurationFactory(),
		TextFactory(),
		StringFactory(),
	)
}

// Prepend inserts factories ahead of all existing entries, giving them
// priority.
func (p *Pipeline) Prepend(factories ...Factory) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.factories = append(append([]Factory{}, factories...), p.factories...)
}

// Append adds factories after all existing entries.
func (p *Pipeline) Append(factories ...Factory) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.factories = append(p.factories, factories...)
}

// ResolverFor returns the first non-declining factory's resolver for param.
// A parameter no factory accepts is a registration-time programming error,
// reported as a plain error rather than a classified dispatch failure.
func (p *Pipeline) ResolverFor(param *tree.Parameter) (Resolver, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, f := range p.factories {
		if r := f.ResolverFor(param); r != nil {
			return r, nil
		}
	}
	return nil, fmt.Errorf("no resolver for parameter %q of type %q", param.Name(), param.Type())
}
