package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineroute/pkg/routetypes"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "plain tokens",
			input:    "shop buy diamond 5",
			expected: []string{"shop", "buy", "diamond", "5"},
		},
		{
			name:     "double quoted token keeps whitespace",
			input:    `foo "bar baz" qux`,
			expected: []string{"foo", "bar baz", "qux"},
		},
		{
			name:     "single quoted token",
			input:    `say 'hello there'`,
			expected: []string{"say", "hello there"},
		},
		{
			name:     "escaped space outside quotes",
			input:    `foo "bar baz" qux\ quux`,
			expected: []string{"foo", "bar baz", "qux quux"},
		},
		{
			name:     "escaped quote inside quotes",
			input:    `msg "she said \"hi\""`,
			expected: []string{"msg", `she said "hi"`},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			input:    "   \t  ",
			expected: nil,
		},
		{
			name:     "quoted empty token",
			input:    `""`,
			expected: []string{""},
		},
		{
			name:     "runs of whitespace between tokens",
			input:    "a  \t b   c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "quote inside bare token is literal",
			input:    `don't stop`,
			expected: []string{"don't", "stop"},
		},
		{
			name:     "escaped backslash",
			input:    `path C:\\temp`,
			expected: []string{"path", `C:\temp`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack, err := Tokenize(tt.input)
			require.NoError(t, err)
			if len(tt.expected) == 0 {
				assert.True(t, stack.IsEmpty())
				return
			}
			assert.Equal(t, tt.expected, stack.Tokens())
		})
	}
}

func TestTokenize_RawSpans(t *testing.T) {
	stack, err := Tokenize(`send -message "say \"hi\"" 5`)
	require.NoError(t, err)
	assert.Equal(t, []string{"send", "-message", `say "hi"`, "5"}, stack.Tokens())

	raw, ok := stack.Raw(2)
	require.True(t, ok)
	assert.Equal(t, `"say \"hi\""`, raw)

	raw, ok = stack.Raw(3)
	require.True(t, ok)
	assert.Equal(t, "5", raw)

	_, ok = stack.Raw(4)
	assert.False(t, ok)

	// Spans track their tokens through removal.
	stack.Remove(0)
	raw, ok = stack.Raw(1)
	require.True(t, ok)
	assert.Equal(t, `"say \"hi\""`, raw)
}

func TestTokenize_UnterminatedQuote(t *testing.T) {
	stack, err := Tokenize(`"abc`)
	require.Error(t, err)
	assert.Nil(t, stack)

	re, ok := routetypes.AsRouteError(err)
	require.True(t, ok)
	assert.Equal(t, routetypes.KindArgumentParse, re.Kind)
	assert.Equal(t, `"abc`, re.Buffer)
	assert.Equal(t, 3, re.Index)
}

func TestTokenize_DanglingEscape(t *testing.T) {
	for _, input := range []string{`foo\`, `"foo\`} {
		_, err := Tokenize(input)
		require.Error(t, err, "input %q", input)
		re, ok := routetypes.AsRouteError(err)
		require.True(t, ok)
		assert.Equal(t, routetypes.KindArgumentParse, re.Kind)
		assert.Equal(t, input, re.Buffer)
	}
}

func TestTokenize_UnterminatedSingleQuote(t *testing.T) {
	_, err := Tokenize(`say 'oops`)
	require.Error(t, err)
	re, ok := routetypes.AsRouteError(err)
	require.True(t, ok)
	assert.Equal(t, routetypes.KindArgumentParse, re.Kind)
}
