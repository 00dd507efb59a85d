package dispatcher

import (
	"strings"

	"lineroute/internal/resolver"
	"lineroute/internal/tokenizer"
	"lineroute/internal/tree"
	"lineroute/pkg/routetypes"
)

// resolveParameters fills the invocation with one typed value per declared
// parameter. Switches and flags resolve first, removing their tokens from
// anywhere in the stack, so positional resolution below sees only ordinal
// tokens. Positional parameters then resolve left to right, context-derived
// ones before token-consuming ones within the same declaration order.
func (d *Dispatcher) resolveParameters(inv *Invocation, stack *tokenizer.ArgumentStack) *routetypes.RouteError {
	params := inv.exec.Parameters()

	for _, param := range params {
		switch {
		case param.IsSwitch():
			if err := d.resolveSwitch(inv, param, stack); err != nil {
				return err
			}
		case param.IsFlag():
			if err := d.resolveFlag(inv, param, stack); err != nil {
				return err
			}
		}
	}

	for _, param := range params {
		if param.IsSwitch() || param.IsFlag() {
			continue
		}
		res, rerr := d.pipeline.ResolverFor(param)
		if rerr != nil {
			// Caught at Register; a pipeline mutated afterwards can
			// still surface it here.
			e := routetypes.NewRouteError(routetypes.KindArgumentParse, "%v", rerr)
			e.Parameter = param.Name()
			return e
		}
		ctx, ok := res.(resolver.ContextResolver)
		if !ok {
			continue
		}
		value, err := ctx.ResolveContext(inv, param)
		if err != nil {
			return classifyParam(err, param)
		}
		inv.set(param, value)
		if err := runValidators(param, value); err != nil {
			return err
		}
	}

	for _, param := range params {
		if param.IsSwitch() || param.IsFlag() {
			continue
		}
		res, _ := d.pipeline.ResolverFor(param)
		val, ok := res.(resolver.ValueResolver)
		if !ok {
			continue
		}
		if stack.IsEmpty() {
			if defaults := param.Defaults(); len(defaults) > 0 {
				stack.PushFront(defaults...)
			} else if param.Optional() {
				// Absence is still a value as far as validators go.
				inv.set(param, nil)
				if err := runValidators(param, nil); err != nil {
					return err
				}
				continue
			} else {
				e := routetypes.NewRouteError(routetypes.KindMissingArgument,
					"missing argument %q", param.Name())
				e.Parameter = param.Name()
				return e
			}
		}
		value, err := val.ResolveValue(inv, param, stack)
		if err != nil {
			return classifyParam(err, param)
		}
		inv.set(param, value)
		if err := runValidators(param, value); err != nil {
			return err
		}
	}

	if d.config.StrictArgs && !stack.IsEmpty() {
		leftover := stack.Tokens()
		e := routetypes.NewRouteError(routetypes.KindTooManyArguments,
			"unexpected arguments: %s", strings.Join(leftover, " "))
		e.Token = leftover[0]
		return e
	}
	return nil
}

// resolveSwitch resolves a boolean switch parameter. Presence of the named
// token anywhere in the stack means true; absence falls back to the declared
// default, or false.
func (d *Dispatcher) resolveSwitch(inv *Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) *routetypes.RouteError {
	value := false
	if idx := d.findNamedToken(stack, param.FlagName()); idx >= 0 {
		stack.Remove(idx)
		value = true
	} else if defaults := param.Defaults(); len(defaults) > 0 {
		if b, ok := resolver.ParseBoolToken(defaults[0]); ok {
			value = b
		}
	}
	inv.set(param, value)
	return runValidators(param, value)
}

// resolveFlag resolves a named flag and its value token. The value's raw
// source span goes back through the tokenizer, so a flag value may itself be
// quoted or escaped.
func (d *Dispatcher) resolveFlag(inv *Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) *routetypes.RouteError {
	res, rerr := d.pipeline.ResolverFor(param)
	if rerr != nil {
		e := routetypes.NewRouteError(routetypes.KindArgumentParse, "%v", rerr)
		e.Parameter = param.Name()
		return e
	}

	idx := d.findNamedToken(stack, param.FlagName())
	var valueStack *tokenizer.ArgumentStack
	if idx >= 0 {
		raw, ok := stack.Raw(idx + 1)
		if !ok {
			e := routetypes.NewRouteError(routetypes.KindMissingArgument,
				"flag %q requires a value", param.FlagName())
			e.Parameter = param.Name()
			return e
		}
		stack.Remove(idx + 1)
		stack.Remove(idx)
		vs, err := flagValueStack(raw)
		if err != nil {
			return classifyParam(err, param)
		}
		valueStack = vs
	} else if defaults := param.Defaults(); len(defaults) > 0 {
		valueStack = tokenizer.NewArgumentStack(defaults...)
	} else if param.Optional() {
		inv.set(param, nil)
		return runValidators(param, nil)
	} else {
		e := routetypes.NewRouteError(routetypes.KindMissingArgument,
			"missing flag %q", param.FlagName())
		e.Parameter = param.Name()
		return e
	}

	var value any
	var err error
	switch r := res.(type) {
	case resolver.ValueResolver:
		value, err = r.ResolveValue(inv, param, valueStack)
	case resolver.ContextResolver:
		value, err = r.ResolveContext(inv, param)
	}
	if err != nil {
		return classifyParam(err, param)
	}
	inv.set(param, value)
	return runValidators(param, value)
}

// findNamedToken returns the index of the token naming the given switch or
// flag, accepting both the configured prefix and a doubled prefix, or -1.
func (d *Dispatcher) findNamedToken(stack *tokenizer.ArgumentStack, name string) int {
	prefix := d.config.FlagPrefix
	single := prefix + name
	double := prefix + prefix + name
	for i := 0; i < stack.Len(); i++ {
		tok, _ := stack.Get(i)
		if strings.EqualFold(tok, single) || strings.EqualFold(tok, double) {
			return i
		}
	}
	return -1
}

// flagValueStack re-tokenizes a flag value's raw source span. A span that was
// a single plain token at the outer parse yields the same token again; a
// quoted span unquotes here instead of at the outer parse.
func flagValueStack(raw string) (*tokenizer.ArgumentStack, error) {
	return tokenizer.Tokenize(raw)
}

// runValidators applies the parameter's validators to a resolved value,
// classifying plain errors as validation failures.
func runValidators(param *tree.Parameter, value any) *routetypes.RouteError {
	for _, v := range param.Validators() {
		if err := v(value); err != nil {
			e := classifyParam(err, param)
			return e
		}
	}
	return nil
}

// classifyParam returns err's classified form, tagging it with the parameter
// name when the producer left it blank.
func classifyParam(err error, param *tree.Parameter) *routetypes.RouteError {
	var e *routetypes.RouteError
	if re, ok := routetypes.AsRouteError(err); ok {
		e = re
	} else {
		e = routetypes.NewRouteError(routetypes.KindValidation, "%v", err)
		e.Cause = err
	}
	if e.Parameter == "" {
		e.Parameter = param.Name()
	}
	return e
}
