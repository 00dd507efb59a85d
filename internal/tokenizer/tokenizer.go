// Package tokenizer turns raw input lines into argument stacks. The grammar:
// runs of non-whitespace are unquoted tokens; a token beginning with ' or "
// consumes verbatim characters (including whitespace) until the matching
// closing quote; a backslash escapes exactly the next character, inside or
// outside quotes. Whitespace between tokens is skipped and never tokenized.
package tokenizer

import (
	"strings"
	"unicode"

	"lineroute/pkg/routetypes"
)

// Tokenize splits line into an ArgumentStack. Empty input yields an empty
// stack, never an error. Reaching end-of-input inside an open quote or after a
// trailing backslash raises KindArgumentParse carrying the buffer and the
// offending index.
func Tokenize(line string) (*ArgumentStack, error) {
	var tokens, raw []string
	runes := []rune(line)
	i := 0
	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		start := i
		var tok string
		var err error
		if runes[i] == '\'' || runes[i] == '"' {
			tok, i, err = readQuoted(runes, i)
		} else {
			tok, i, err = readBare(runes, i)
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		raw = append(raw, string(runes[start:i]))
	}
	return newStackWithRaw(tokens, raw), nil
}

// readQuoted consumes a quoted token starting at the opening quote. Returns
// the token body and the index just past the closing quote.
func readQuoted(runes []rune, start int) (string, int, error) {
	quote := runes[start]
	var b strings.Builder
	i := start + 1
	for i < len(runes) {
		switch runes[i] {
		case quote:
			return b.String(), i + 1, nil
		case '\\':
			if i+1 >= len(runes) {
				return "", 0, parseError(runes, i, "escape character at end of input")
			}
			b.WriteRune(runes[i+1])
			i += 2
		default:
			b.WriteRune(runes[i])
			i++
		}
	}
	return "", 0, parseError(runes, len(runes)-1, "unterminated %c-quoted token", quote)
}

// readBare consumes an unquoted token. Quote characters inside a bare token
// are taken literally; only a leading quote opens a quoted token.
func readBare(runes []rune, start int) (string, int, error) {
	var b strings.Builder
	i := start
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		if runes[i] == '\\' {
			if i+1 >= len(runes) {
				return "", 0, parseError(runes, i, "escape character at end of input")
			}
			b.WriteRune(runes[i+1])
			i += 2
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String(), i, nil
}

func parseError(runes []rune, index int, format string, args ...any) *routetypes.RouteError {
	e := routetypes.NewRouteError(routetypes.KindArgumentParse, format, args...)
	e.Buffer = string(runes)
	e.Index = index
	return e
}
