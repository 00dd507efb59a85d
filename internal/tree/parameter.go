package tree

import (
	"fmt"

	"lineroute/pkg/routetypes"
)

// Parameter is the compiled form of a routetypes.ParameterSpec: one handler
// input with its positional index and a back-reference to the executable that
// owns it.
type Parameter struct {
	name       string
	typ        routetypes.ParamType
	index      int
	optional   bool
	isSwitch   bool
	isFlag     bool
	flagName   string
	defaults   []string
	validators []routetypes.Validator
	enumValues []string
	enumFold   bool
	suggest    routetypes.SuggestFunc
	owner      *Executable
}

func compileParameter(spec routetypes.ParameterSpec, index int, owner *Executable) (*Parameter, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("parameter %d of %q has no name", index, owner.path)
	}
	if spec.Switch && spec.Flag {
		return nil, fmt.Errorf("parameter %q of %q cannot be both switch and flag", spec.Name, owner.path)
	}
	typ := spec.Type
	if typ == "" {
		typ = routetypes.TypeString
	}
	if spec.Switch {
		// A switch is by definition boolean; the declared type is
		// ignored in favor of presence semantics.
		typ = routetypes.TypeBool
	}
	if typ == routetypes.TypeEnum && len(spec.EnumValues) == 0 {
		return nil, fmt.Errorf("enum parameter %q of %q declares no values", spec.Name, owner.path)
	}
	flagName := spec.FlagName
	if flagName == "" {
		flagName = spec.Name
	}
	return &Parameter{
		name:       spec.Name,
		typ:        typ,
		index:      index,
		optional:   spec.Optional || spec.Switch || len(spec.Defaults) > 0,
		isSwitch:   spec.Switch,
		isFlag:     spec.Flag,
		flagName:   flagName,
		defaults:   append([]string(nil), spec.Defaults...),
		validators: append([]routetypes.Validator(nil), spec.Validators...),
		enumValues: append([]string(nil), spec.EnumValues...),
		enumFold:   spec.EnumFold,
		suggest:    spec.Suggest,
		owner:      owner,
	}, nil
}

// Name returns the parameter name.
func (p *Parameter) Name() string { return p.name }

// Type returns the declared parameter type.
func (p *Parameter) Type() routetypes.ParamType { return p.typ }

// Index returns the positional index within the owning command.
func (p *Parameter) Index() int { return p.index }

// Optional reports whether the parameter may resolve without a token.
// Switches and parameters carrying defaults are always optional.
func (p *Parameter) Optional() bool { return p.optional }

// IsSwitch reports whether the parameter is a presence-only boolean.
func (p *Parameter) IsSwitch() bool { return p.isSwitch }

// IsFlag reports whether the parameter is a named, value-bearing flag.
func (p *Parameter) IsFlag() bool { return p.isFlag }

// FlagName returns the name matched after the flag prefix.
func (p *Parameter) FlagName() string { return p.flagName }

// Defaults returns the declared default tokens, possibly empty.
func (p *Parameter) Defaults() []string {
	return append([]string(nil), p.defaults...)
}

// Validators returns the attached validators in declaration order.
func (p *Parameter) Validators() []routetypes.Validator { return p.validators }

// EnumValues returns the accepted constants for enum parameters.
func (p *Parameter) EnumValues() []string {
	return append([]string(nil), p.enumValues...)
}

// EnumFold reports whether enum matching is case-insensitive.
func (p *Parameter) EnumFold() bool { return p.enumFold }

// Suggest returns the completion candidate source, or nil.
func (p *Parameter) Suggest() routetypes.SuggestFunc { return p.suggest }

// Owner returns the executable this parameter belongs to.
func (p *Parameter) Owner() *Executable { return p.owner }
