package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineroute/internal/testutils"
	"lineroute/internal/tokenizer"
	"lineroute/pkg/routetypes"
)

func TestFindNamedToken(t *testing.T) {
	d := newTestDispatcher(t, testutils.NewAllowAllChecker())

	tests := []struct {
		name   string
		tokens []string
		flag   string
		want   int
	}{
		{"single prefix", []string{"a", "-silent", "b"}, "silent", 1},
		{"doubled prefix", []string{"--silent"}, "silent", 0},
		{"case folded", []string{"-SILENT"}, "silent", 0},
		{"absent", []string{"silent"}, "silent", -1},
		{"empty stack", nil, "silent", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack := tokenizer.NewArgumentStack(tt.tokens...)
			assert.Equal(t, tt.want, d.findNamedToken(stack, tt.flag))
		})
	}
}

func TestFlagValueStack(t *testing.T) {
	t.Run("plain span yields the same token", func(t *testing.T) {
		stack, err := flagValueStack("5")
		require.NoError(t, err)
		assert.Equal(t, []string{"5"}, stack.Tokens())
	})

	t.Run("quoted span unquotes here", func(t *testing.T) {
		stack, err := flagValueStack(`"hi there"`)
		require.NoError(t, err)
		assert.Equal(t, []string{"hi there"}, stack.Tokens())
	})

	t.Run("escapes inside the span survive", func(t *testing.T) {
		stack, err := flagValueStack(`"say \"hi\""`)
		require.NoError(t, err)
		assert.Equal(t, []string{`say "hi"`}, stack.Tokens())
	})

	t.Run("malformed quoting fails", func(t *testing.T) {
		_, err := flagValueStack(`"unterminated`)
		requireKind(t, err, routetypes.KindArgumentParse)
	})
}

func TestFlagValueKeepsEmbeddedQuotes(t *testing.T) {
	d := newTestDispatcher(t, testutils.NewAllowAllChecker())

	var message string
	require.NoError(t, d.Register(routetypes.CommandSpec{
		Path: "send",
		Parameters: []routetypes.ParameterSpec{
			{Name: "message", Type: routetypes.TypeString, Flag: true},
		},
		Handler: func(inv routetypes.Invocation) (any, error) {
			message = inv.String("message")
			return nil, nil
		},
	}))

	actor := testutils.NewMockActor("alice")

	require.NoError(t, d.Dispatch(actor, `send -message "say \"hi\""`))
	assert.Equal(t, `say "hi"`, message)

	require.NoError(t, d.Dispatch(actor, `send --message "hi there"`))
	assert.Equal(t, "hi there", message)

	require.NoError(t, d.Dispatch(actor, `send -message plain`))
	assert.Equal(t, "plain", message)
}

func TestSwitchRemovalPrecedesOrdinals(t *testing.T) {
	d := newTestDispatcher(t, testutils.NewAllowAllChecker())

	var force bool
	var target, mode string
	require.NoError(t, d.Register(routetypes.CommandSpec{
		Path: "deploy",
		Parameters: []routetypes.ParameterSpec{
			{Name: "target", Type: routetypes.TypeString},
			{Name: "force", Switch: true},
			{Name: "mode", Type: routetypes.TypeString, Defaults: []string{"rolling"}},
		},
		Handler: func(inv routetypes.Invocation) (any, error) {
			target = inv.String("target")
			force = inv.Bool("force")
			mode = inv.String("mode")
			return nil, nil
		},
	}))

	actor := testutils.NewMockActor("alice")

	// The switch sits between the ordinals and must not shift them.
	require.NoError(t, d.Dispatch(actor, "deploy prod --force canary"))
	assert.Equal(t, "prod", target)
	assert.True(t, force)
	assert.Equal(t, "canary", mode)

	require.NoError(t, d.Dispatch(actor, "deploy prod"))
	assert.False(t, force)
	assert.Equal(t, "rolling", mode)
}

func TestSwitchDefaultValue(t *testing.T) {
	d := newTestDispatcher(t, testutils.NewAllowAllChecker())

	var verbose bool
	require.NoError(t, d.Register(routetypes.CommandSpec{
		Path: "report",
		Parameters: []routetypes.ParameterSpec{
			{Name: "verbose", Switch: true, Defaults: []string{"yes"}},
		},
		Handler: func(inv routetypes.Invocation) (any, error) {
			verbose = inv.Bool("verbose")
			return nil, nil
		},
	}))

	actor := testutils.NewMockActor("alice")
	require.NoError(t, d.Dispatch(actor, "report"))
	assert.True(t, verbose)
}

func TestFlagWithTypedValue(t *testing.T) {
	d := newTestDispatcher(t, testutils.NewAllowAllChecker())

	var retries int
	require.NoError(t, d.Register(routetypes.CommandSpec{
		Path: "fetch",
		Parameters: []routetypes.ParameterSpec{
			{Name: "retries", Type: routetypes.TypeInt, Flag: true, FlagName: "r", Defaults: []string{"3"}},
		},
		Handler: func(inv routetypes.Invocation) (any, error) {
			retries = inv.Int("retries")
			return nil, nil
		},
	}))

	actor := testutils.NewMockActor("alice")

	require.NoError(t, d.Dispatch(actor, "fetch -r 5"))
	assert.Equal(t, 5, retries)

	require.NoError(t, d.Dispatch(actor, "fetch"))
	assert.Equal(t, 3, retries)

	re := requireKind(t, d.Dispatch(actor, "fetch -r soon"), routetypes.KindInvalidNumber)
	assert.Equal(t, "soon", re.Token)
}

func TestOptionalFlagResolvesNil(t *testing.T) {
	d := newTestDispatcher(t, testutils.NewAllowAllChecker())

	sentinel := "untouched"
	require.NoError(t, d.Register(routetypes.CommandSpec{
		Path: "tag",
		Parameters: []routetypes.ParameterSpec{
			{Name: "label", Type: routetypes.TypeString, Flag: true, Optional: true},
		},
		Handler: func(inv routetypes.Invocation) (any, error) {
			if inv.Value("label") == nil {
				sentinel = "nil"
			} else {
				sentinel = inv.String("label")
			}
			return nil, nil
		},
	}))

	actor := testutils.NewMockActor("alice")
	require.NoError(t, d.Dispatch(actor, "tag"))
	assert.Equal(t, "nil", sentinel)

	require.NoError(t, d.Dispatch(actor, "tag --label stable"))
	assert.Equal(t, "stable", sentinel)
}

func TestValidatorsSeeAbsentOptionals(t *testing.T) {
	d := newTestDispatcher(t, testutils.NewAllowAllChecker())

	var seen []any
	record := func(value any) error {
		seen = append(seen, value)
		return nil
	}

	require.NoError(t, d.Register(routetypes.CommandSpec{
		Path: "audit",
		Parameters: []routetypes.ParameterSpec{
			{Name: "scope", Type: routetypes.TypeString, Optional: true, Validators: []routetypes.Validator{record}},
			{Name: "depth", Type: routetypes.TypeInt, Flag: true, Optional: true, Validators: []routetypes.Validator{record}},
		},
		Handler: func(routetypes.Invocation) (any, error) { return nil, nil },
	}))

	actor := testutils.NewMockActor("alice")

	require.NoError(t, d.Dispatch(actor, "audit"))
	assert.Equal(t, []any{nil, nil}, seen, "validators run against both absent optionals")

	seen = nil
	require.NoError(t, d.Dispatch(actor, "audit all -depth 3"))
	assert.Equal(t, []any{3, "all"}, seen)
}

func TestRangeAcceptsAbsentOptional(t *testing.T) {
	d := newTestDispatcher(t, testutils.NewAllowAllChecker())

	var limit any = "untouched"
	require.NoError(t, d.Register(routetypes.CommandSpec{
		Path: "scan",
		Parameters: []routetypes.ParameterSpec{
			{Name: "limit", Type: routetypes.TypeInt, Optional: true,
				Validators: []routetypes.Validator{routetypes.Range(1, 100)}},
		},
		Handler: func(inv routetypes.Invocation) (any, error) {
			limit = inv.Value("limit")
			return nil, nil
		},
	}))

	actor := testutils.NewMockActor("alice")

	require.NoError(t, d.Dispatch(actor, "scan"))
	assert.Nil(t, limit)

	requireKind(t, d.Dispatch(actor, "scan 500"), routetypes.KindNumberNotInRange)
}
