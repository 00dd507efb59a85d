package resolver

import (
	"lineroute/internal/tree"
	"lineroute/pkg/routetypes"
)

// ActorFactory resolves TypeActor and TypeConsole parameters from the
// invocation context without consuming tokens. TypeConsole additionally
// requires the invoking actor to be the console.
func ActorFactory() Factory {
	return FactoryFunc(func(param *tree.Parameter) Resolver {
		switch param.Type() {
		case routetypes.TypeActor:
			return ContextResolverFunc(func(inv Invocation, _ *tree.Parameter) (any, error) {
				return inv.Actor(), nil
			})
		case routetypes.TypeConsole:
			return ContextResolverFunc(func(inv Invocation, param *tree.Parameter) (any, error) {
				actor := inv.Actor()
				if !actor.IsConsole() {
					e := routetypes.NewRouteError(routetypes.KindActorMismatch,
						"command %q may only be run from the console", inv.Executable().Path())
					e.Parameter = param.Name()
					return nil, e
				}
				return actor, nil
			})
		default:
			return nil
		}
	})
}

// CommandFactory resolves TypeCommand parameters to the executing command
// object, consuming no tokens.
func CommandFactory() Factory {
	return FactoryFunc(func(param *tree.Parameter) Resolver {
		if param.Type() != routetypes.TypeCommand {
			return nil
		}
		return ContextResolverFunc(func(inv Invocation, _ *tree.Parameter) (any, error) {
			return inv.Executable(), nil
		})
	})
}
