package tokenizer

import "strings"

// ArgumentStack is an ordered, mutable view over the tokens of one dispatch,
// consumed left to right by resolvers. Popping past the end is a programming
// error; call sites guard with IsEmpty or the returned ok flag rather than
// relying on silent truncation. An ArgumentStack is created per dispatch and
// is not safe for concurrent use.
//
// Alongside each unquoted token the stack keeps the raw source span it was
// read from, quotes and escapes included, so flag handling can re-tokenize a
// value exactly as it appeared in the input.
type ArgumentStack struct {
	tokens []string
	raw    []string
}

// NewArgumentStack builds a stack over the given tokens. Each token doubles
// as its own raw span.
func NewArgumentStack(tokens ...string) *ArgumentStack {
	s := &ArgumentStack{
		tokens: make([]string, len(tokens)),
		raw:    make([]string, len(tokens)),
	}
	copy(s.tokens, tokens)
	copy(s.raw, tokens)
	return s
}

// newStackWithRaw builds a stack whose tokens carry distinct raw source
// spans. len(raw) must equal len(tokens).
func newStackWithRaw(tokens, raw []string) *ArgumentStack {
	return &ArgumentStack{tokens: tokens, raw: raw}
}

// Len returns the number of unconsumed tokens.
func (s *ArgumentStack) Len() int {
	return len(s.tokens)
}

// IsEmpty reports whether no tokens remain.
func (s *ArgumentStack) IsEmpty() bool {
	return len(s.tokens) == 0
}

// Pop removes and returns the front token. ok is false when the stack is
// empty.
func (s *ArgumentStack) Pop() (token string, ok bool) {
	if len(s.tokens) == 0 {
		return "", false
	}
	token = s.tokens[0]
	s.tokens = s.tokens[1:]
	s.raw = s.raw[1:]
	return token, true
}

// Peek returns the front token without consuming it. ok is false when the
// stack is empty.
func (s *ArgumentStack) Peek() (token string, ok bool) {
	if len(s.tokens) == 0 {
		return "", false
	}
	return s.tokens[0], true
}

// Remove deletes the token at index i. Returns false when i is out of range.
func (s *ArgumentStack) Remove(i int) bool {
	if i < 0 || i >= len(s.tokens) {
		return false
	}
	s.tokens = append(s.tokens[:i], s.tokens[i+1:]...)
	s.raw = append(s.raw[:i], s.raw[i+1:]...)
	return true
}

// RemoveValue deletes the first token equal to value. Returns false when no
// token matched.
func (s *ArgumentStack) RemoveValue(value string) bool {
	for i, tok := range s.tokens {
		if tok == value {
			return s.Remove(i)
		}
	}
	return false
}

// Index returns the position of the first token equal to value, or -1.
func (s *ArgumentStack) Index(value string) int {
	for i, tok := range s.tokens {
		if tok == value {
			return i
		}
	}
	return -1
}

// Get returns the token at index i. ok is false when i is out of range.
func (s *ArgumentStack) Get(i int) (token string, ok bool) {
	if i < 0 || i >= len(s.tokens) {
		return "", false
	}
	return s.tokens[i], true
}

// Raw returns the raw source span of the token at index i, as it appeared in
// the input before unquoting. ok is false when i is out of range.
func (s *ArgumentStack) Raw(i int) (span string, ok bool) {
	if i < 0 || i >= len(s.raw) {
		return "", false
	}
	return s.raw[i], true
}

// PushFront inserts tokens at the front of the stack, preserving their order.
// Used to feed declared defaults through a parameter's own resolution.
func (s *ArgumentStack) PushFront(tokens ...string) {
	s.tokens = append(append([]string{}, tokens...), s.tokens...)
	s.raw = append(append([]string{}, tokens...), s.raw...)
}

// Append adds tokens at the back of the stack.
func (s *ArgumentStack) Append(tokens ...string) {
	s.tokens = append(s.tokens, tokens...)
	s.raw = append(s.raw, tokens...)
}

// Tokens returns a copy of the unconsumed tokens.
func (s *ArgumentStack) Tokens() []string {
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Join concatenates the unconsumed tokens with sep without consuming them.
func (s *ArgumentStack) Join(sep string) string {
	return strings.Join(s.tokens, sep)
}
