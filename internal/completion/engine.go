// Package completion produces tab-completion candidates over the same
// command tree the dispatcher routes through. Candidates are prefix-filtered
// case-insensitively, permission-filtered for the asking actor, and returned
// lexicographically sorted. Malformed input suppresses suggestions instead of
// surfacing an error; completion is advisory, dispatch is where input gets
// judged.
package completion

import (
	"sort"
	"strings"
	"unicode"

	"lineroute/internal/tokenizer"
	"lineroute/internal/tree"
	"lineroute/pkg/routetypes"
)

// Engine answers completion queries against one registry.
type Engine struct {
	registry   *tree.Registry
	checker    routetypes.PermissionChecker
	flagPrefix string
}

// New creates an engine over registry. checker gates which commands an actor
// sees; a nil checker hides everything that declares a permission.
func New(registry *tree.Registry, checker routetypes.PermissionChecker, flagPrefix string) *Engine {
	return &Engine{registry: registry, checker: checker, flagPrefix: flagPrefix}
}

// Complete returns the sorted candidate continuations of line for actor. The
// trailing token is treated as partially typed unless line ends in
// whitespace, in which case completion starts a fresh token.
func (e *Engine) Complete(actor routetypes.Actor, line string) []string {
	stack, err := tokenizer.Tokenize(line)
	if err != nil {
		return nil
	}

	tokens := stack.Tokens()
	partial := ""
	if len(tokens) > 0 && !endsInSpace(line) {
		partial = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}

	if len(tokens) == 0 {
		return e.filterRoots(actor, partial)
	}

	node, ok := e.registry.RootChild(tokens[0])
	if !ok {
		return nil
	}
	consumed := 1

	for {
		switch n := node.(type) {
		case *tree.Executable:
			return e.completeParameters(actor, n, tokens[consumed:], partial)
		case *tree.Category:
			if !e.visible(actor, n.Permission()) {
				return nil
			}
			if consumed == len(tokens) {
				return e.filterChildren(actor, n, partial)
			}
			child, found := e.registry.ChildOf(n, tokens[consumed])
			if !found {
				if def := e.registry.DefaultActionOf(n); def != nil {
					return e.completeParameters(actor, def, tokens[consumed:], partial)
				}
				return nil
			}
			node = child
			consumed++
		default:
			return nil
		}
	}
}

// filterRoots suggests top-level names matching partial.
func (e *Engine) filterRoots(actor routetypes.Actor, partial string) []string {
	var out []string
	for _, name := range e.registry.RootNames() {
		node, ok := e.registry.RootChild(name)
		if !ok || !e.suggestable(actor, node) {
			continue
		}
		if hasFold(name, partial) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// filterChildren suggests the category's child names matching partial.
func (e *Engine) filterChildren(actor routetypes.Actor, cat *tree.Category, partial string) []string {
	var out []string
	for _, name := range e.registry.ChildNames(cat) {
		child, ok := e.registry.ChildOf(cat, name)
		if !ok || !e.suggestable(actor, child) {
			continue
		}
		if hasFold(name, partial) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// completeParameters suggests values for the terminal command: flag and
// switch names when the partial starts with the flag prefix, otherwise the
// next positional parameter's registered suggestion source.
func (e *Engine) completeParameters(actor routetypes.Actor, exec *tree.Executable, args []string, partial string) []string {
	if !e.suggestable(actor, exec) {
		return nil
	}

	if strings.HasPrefix(partial, e.flagPrefix) {
		return e.filterFlagNames(exec, args, partial)
	}

	param := nextPositional(exec, args, e.flagPrefix)
	if param == nil {
		return nil
	}

	var candidates []string
	switch {
	case param.Suggest() != nil:
		candidates = param.Suggest()(actor, partial)
	case param.Type() == routetypes.TypeEnum:
		candidates = param.EnumValues()
	default:
		return nil
	}

	var out []string
	for _, c := range candidates {
		if hasFold(c, partial) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// filterFlagNames suggests the command's unused switch and flag names,
// spelled with the prefix the user already typed.
func (e *Engine) filterFlagNames(exec *tree.Executable, args []string, partial string) []string {
	spelled := e.flagPrefix
	if strings.HasPrefix(partial, e.flagPrefix+e.flagPrefix) {
		spelled = e.flagPrefix + e.flagPrefix
	}

	var out []string
	for _, param := range exec.Parameters() {
		if !param.IsSwitch() && !param.IsFlag() {
			continue
		}
		if namedTokenPresent(args, e.flagPrefix, param.FlagName()) {
			continue
		}
		candidate := spelled + param.FlagName()
		if hasFold(candidate, partial) {
			out = append(out, candidate)
		}
	}
	sort.Strings(out)
	return out
}

// nextPositional returns the positional parameter the next ordinal token
// would bind to, skipping tokens already claimed by switches and flags.
func nextPositional(exec *tree.Executable, args []string, prefix string) *tree.Parameter {
	ordinals := 0
	skipNext := false
	for _, tok := range args {
		if skipNext {
			skipNext = false
			continue
		}
		if param := namedParameter(exec, prefix, tok); param != nil {
			skipNext = param.IsFlag()
			continue
		}
		ordinals++
	}

	seen := 0
	for _, param := range exec.Parameters() {
		if param.IsSwitch() || param.IsFlag() || isContextType(param.Type()) {
			continue
		}
		if seen == ordinals {
			return param
		}
		seen++
	}
	return nil
}

// namedParameter returns the switch or flag parameter the token names, or
// nil.
func namedParameter(exec *tree.Executable, prefix, token string) *tree.Parameter {
	for _, param := range exec.Parameters() {
		if !param.IsSwitch() && !param.IsFlag() {
			continue
		}
		single := prefix + param.FlagName()
		double := prefix + prefix + param.FlagName()
		if strings.EqualFold(token, single) || strings.EqualFold(token, double) {
			return param
		}
	}
	return nil
}

func namedTokenPresent(args []string, prefix, name string) bool {
	single := prefix + name
	double := prefix + prefix + name
	for _, tok := range args {
		if strings.EqualFold(tok, single) || strings.EqualFold(tok, double) {
			return true
		}
	}
	return false
}

func isContextType(t routetypes.ParamType) bool {
	switch t {
	case routetypes.TypeActor, routetypes.TypeConsole, routetypes.TypeCommand:
		return true
	}
	return false
}

// suggestable reports whether actor may see node in completion output.
// Secret executables are never suggested; categories are visible when their
// descent permission passes.
func (e *Engine) suggestable(actor routetypes.Actor, node tree.Node) bool {
	switch n := node.(type) {
	case *tree.Executable:
		return !n.Secret() && e.visible(actor, n.Permission())
	case *tree.Category:
		return e.visible(actor, n.Permission())
	}
	return false
}

func (e *Engine) visible(actor routetypes.Actor, permission string) bool {
	if permission == "" {
		return true
	}
	return e.checker != nil && e.checker.HasPermission(actor, permission)
}

// hasFold reports whether candidate starts with partial under simple case
// folding, comparing whole runes so multi-byte names match cleanly.
func hasFold(candidate, partial string) bool {
	cr := []rune(candidate)
	pr := []rune(partial)
	if len(pr) > len(cr) {
		return false
	}
	return strings.EqualFold(string(cr[:len(pr)]), partial)
}

func endsInSpace(line string) bool {
	runes := []rune(line)
	return len(runes) > 0 && unicode.IsSpace(runes[len(runes)-1])
}
