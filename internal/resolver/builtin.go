package resolver

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"lineroute/internal/tokenizer"
	"lineroute/internal/tree"
	"lineroute/pkg/routetypes"
)

// Word sets the boolean resolver matches tokens against, case-insensitively.
var (
	affirmativeWords = []string{"true", "yes", "on", "1", "y"}
	negativeWords    = []string{"false", "no", "off", "0", "n"}
)

// ParseBoolToken matches token against the affirmative and negative word
// sets. ok is false when the token belongs to neither.
func ParseBoolToken(token string) (value bool, ok bool) {
	folded := strings.ToLower(token)
	for _, w := range affirmativeWords {
		if folded == w {
			return true, true
		}
	}
	for _, w := range negativeWords {
		if folded == w {
			return false, true
		}
	}
	return false, false
}

// NumberFactory resolves the integer and floating point types. Integers
// accept decimal, or hexadecimal when prefixed 0x.
func NumberFactory() Factory {
	return FactoryFunc(func(param *tree.Parameter) Resolver {
		switch param.Type() {
		case routetypes.TypeInt:
			return ValueResolverFunc(func(_ Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error) {
				tok, err := popToken(param, stack)
				if err != nil {
					return nil, err
				}
				n, perr := parseSigned(tok, strconv.IntSize)
				if perr != nil {
					return nil, invalidNumber(param, tok)
				}
				return int(n), nil
			})
		case routetypes.TypeInt64:
			return ValueResolverFunc(func(_ Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error) {
				tok, err := popToken(param, stack)
				if err != nil {
					return nil, err
				}
				n, perr := parseSigned(tok, 64)
				if perr != nil {
					return nil, invalidNumber(param, tok)
				}
				return n, nil
			})
		case routetypes.TypeUint:
			return ValueResolverFunc(func(_ Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error) {
				tok, err := popToken(param, stack)
				if err != nil {
					return nil, err
				}
				n, perr := parseUnsigned(tok, 64)
				if perr != nil {
					return nil, invalidNumber(param, tok)
				}
				return n, nil
			})
		case routetypes.TypeFloat:
			return ValueResolverFunc(func(_ Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error) {
				tok, err := popToken(param, stack)
				if err != nil {
					return nil, err
				}
				n, perr := strconv.ParseFloat(tok, 64)
				if perr != nil {
					return nil, invalidNumber(param, tok)
				}
				return n, nil
			})
		default:
			return nil
		}
	})
}

// BoolFactory resolves TypeBool tokens through the affirmative/negative word
// sets.
func BoolFactory() Factory {
	return FactoryFunc(func(param *tree.Parameter) Resolver {
		if param.Type() != routetypes.TypeBool {
			return nil
		}
		return ValueResolverFunc(func(_ Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error) {
			tok, err := popToken(param, stack)
			if err != nil {
				return nil, err
			}
			v, ok := ParseBoolToken(tok)
			if !ok {
				e := routetypes.NewRouteError(routetypes.KindInvalidBoolean, "%q is not a boolean", tok)
				e.Token = tok
				e.Parameter = param.Name()
				return nil, e
			}
			return v, nil
		})
	})
}

// EnumFactory resolves TypeEnum tokens by exact match against the declared
// constants, case-insensitively when the parameter folds case.
func EnumFactory() Factory {
	return FactoryFunc(func(param *tree.Parameter) Resolver {
		if param.Type() != routetypes.TypeEnum {
			return nil
		}
		return ValueResolverFunc(func(_ Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error) {
			tok, err := popToken(param, stack)
			if err != nil {
				return nil, err
			}
			for _, candidate := range param.EnumValues() {
				if tok == candidate || (param.EnumFold() && strings.EqualFold(tok, candidate)) {
					return candidate, nil
				}
			}
			e := routetypes.NewRouteError(routetypes.KindInvalidEnum,
				"%q is not one of: %s", tok, strings.Join(param.EnumValues(), ", "))
			e.Token = tok
			e.Parameter = param.Name()
			return nil, e
		})
	})
}

// UUIDFactory resolves TypeUUID tokens as RFC 4122 identifiers.
func UUIDFactory() Factory {
	return FactoryFunc(func(param *tree.Parameter) Resolver {
		if param.Type() != routetypes.TypeUUID {
			return nil
		}
		return ValueResolverFunc(func(_ Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error) {
			tok, err := popToken(param, stack)
			if err != nil {
				return nil, err
			}
			id, perr := uuid.Parse(tok)
			if perr != nil {
				e := routetypes.NewRouteError(routetypes.KindInvalidUUID, "%q is not a valid UUID", tok)
				e.Token = tok
				e.Parameter = param.Name()
				e.Cause = perr
				return nil, e
			}
			return id, nil
		})
	})
}

// URLFactory resolves TypeURL tokens as absolute URLs.
func URLFactory() Factory {
	return FactoryFunc(func(param *tree.Parameter) Resolver {
		if param.Type() != routetypes.TypeURL {
			return nil
		}
		return ValueResolverFunc(func(_ Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error) {
			tok, err := popToken(param, stack)
			if err != nil {
				return nil, err
			}
			u, perr := url.ParseRequestURI(tok)
			if perr != nil || u.Scheme == "" || u.Host == "" {
				e := routetypes.NewRouteError(routetypes.KindInvalidURL, "%q is not a valid URL", tok)
				e.Token = tok
				e.Parameter = param.Name()
				if perr != nil {
					e.Cause = perr
				}
				return nil, e
			}
			return u, nil
		})
	})
}

// DurationFactory resolves TypeDuration tokens with time.ParseDuration.
func DurationFactory() Factory {
	return FactoryFunc(func(param *tree.Parameter) Resolver {
		if param.Type() != routetypes.TypeDuration {
			return nil
		}
		return ValueResolverFunc(func(_ Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error) {
			tok, err := popToken(param, stack)
			if err != nil {
				return nil, err
			}
			d, perr := time.ParseDuration(tok)
			if perr != nil {
				e := routetypes.NewRouteError(routetypes.KindInvalidNumber, "%q is not a duration", tok)
				e.Token = tok
				e.Parameter = param.Name()
				e.Cause = perr
				return nil, e
			}
			return d, nil
		})
	})
}

// TextFactory resolves TypeText by greedily consuming every remaining token,
// joined with single spaces.
func TextFactory() Factory {
	return FactoryFunc(func(param *tree.Parameter) Resolver {
		if param.Type() != routetypes.TypeText {
			return nil
		}
		return ValueResolverFunc(func(_ Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error) {
			if stack.IsEmpty() {
				return nil, missingArgument(param)
			}
			text := stack.Join(" ")
			for !stack.IsEmpty() {
				_, _ = stack.Pop()
			}
			return text, nil
		})
	})
}

// StringFactory resolves TypeString by consuming exactly one token verbatim.
func StringFactory() Factory {
	return FactoryFunc(func(param *tree.Parameter) Resolver {
		if param.Type() != routetypes.TypeString {
			return nil
		}
		return ValueResolverFunc(func(_ Invocation, param *tree.Parameter, stack *tokenizer.ArgumentStack) (any, error) {
			return popToken(param, stack)
		})
	})
}

// popToken guards against resolving past the end of the stack; the dispatcher
// normally checks emptiness before resolution, so hitting this inside a
// resolver means the parameter genuinely had nothing to consume.
func popToken(param *tree.Parameter, stack *tokenizer.ArgumentStack) (string, error) {
	tok, ok := stack.Pop()
	if !ok {
		return "", missingArgument(param)
	}
	return tok, nil
}

func missingArgument(param *tree.Parameter) *routetypes.RouteError {
	e := routetypes.NewRouteError(routetypes.KindMissingArgument, "missing required argument %q", param.Name())
	e.Parameter = param.Name()
	return e
}

func invalidNumber(param *tree.Parameter, token string) *routetypes.RouteError {
	e := routetypes.NewRouteError(routetypes.KindInvalidNumber, "%q is not a number", token)
	e.Token = token
	e.Parameter = param.Name()
	return e
}

// parseSigned parses decimal, or hexadecimal when prefixed 0x. Other strconv
// base-0 forms (octal, binary, digit separators) are deliberately not
// accepted.
func parseSigned(token string, bits int) (int64, error) {
	sign := ""
	body := token
	if strings.HasPrefix(body, "-") || strings.HasPrefix(body, "+") {
		sign = body[:1]
		body = body[1:]
	}
	if rest, ok := hexBody(body); ok {
		// Sign stays attached so the most negative value parses.
		return strconv.ParseInt(sign+rest, 16, bits)
	}
	return strconv.ParseInt(token, 10, bits)
}

// parseUnsigned parses decimal, or hexadecimal when prefixed 0x.
func parseUnsigned(token string, bits int) (uint64, error) {
	if rest, ok := hexBody(token); ok {
		return strconv.ParseUint(rest, 16, bits)
	}
	return strconv.ParseUint(token, 10, bits)
}

func hexBody(token string) (string, bool) {
	if strings.HasPrefix(token, "0x") || strings.HasPrefix(token, "0X") {
		return token[2:], true
	}
	return "", false
}
