package specfile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineroute/pkg/routetypes"
)

const sampleManifest = `
categories:
  - path: admin
    permission: server.admin
commands:
  - path: shop buy
    handler: shop.buy
    cooldown: 5s
    description: Buy an item from the shop.
    parameters:
      - name: item
      - name: quantity
        type: int
        min: 1
        max: 64
        defaults: ["1"]
  - path: shop
    default: true
    handler: shop.browse
    parameters:
      - name: query
        optional: true
  - path: admin mute
    handler: admin.mute
    permission: server.mute
    secret: true
    parameters:
      - name: target
      - name: duration
        type: duration
        flag: true
        flag_name: for
        optional: true
      - name: silent
        switch: true
`

func nopHandler(routetypes.Invocation) (any, error) { return nil, nil }

func handlerTable() map[string]routetypes.HandlerFunc {
	return map[string]routetypes.HandlerFunc{
		"shop.buy":    nopHandler,
		"shop.browse": nopHandler,
		"admin.mute":  nopHandler,
	}
}

func TestParseAndCompile(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)
	require.Len(t, m.Commands, 3)
	require.Len(t, m.Categories, 1)

	commands, categories, err := m.Compile(handlerTable())
	require.NoError(t, err)
	require.Len(t, commands, 3)
	require.Len(t, categories, 1)

	assert.Equal(t, "admin", categories[0].Path)
	assert.Equal(t, "server.admin", categories[0].Permission)

	buy := commands[0]
	assert.Equal(t, "shop buy", buy.Path)
	assert.Equal(t, 5*time.Second, buy.Cooldown)
	require.Len(t, buy.Parameters, 2)
	assert.Equal(t, routetypes.TypeString, buy.Parameters[0].Type)
	assert.Equal(t, routetypes.TypeInt, buy.Parameters[1].Type)
	require.Len(t, buy.Parameters[1].Validators, 1)
	assert.NoError(t, buy.Parameters[1].Validators[0](32))
	err = buy.Parameters[1].Validators[0](65)
	re, ok := routetypes.AsRouteError(err)
	require.True(t, ok)
	assert.Equal(t, routetypes.KindNumberNotInRange, re.Kind)

	browse := commands[1]
	assert.True(t, browse.Default)
	assert.True(t, browse.Parameters[0].Optional)

	mute := commands[2]
	assert.True(t, mute.Secret)
	assert.Equal(t, "server.mute", mute.Permission)
	assert.Equal(t, routetypes.TypeDuration, mute.Parameters[1].Type)
	assert.True(t, mute.Parameters[1].Flag)
	assert.Equal(t, "for", mute.Parameters[1].FlagName)
	assert.True(t, mute.Parameters[2].Switch)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		contains string
	}{
		{
			"unknown handler",
			"commands:\n  - path: lost\n    handler: no.such",
			"unknown handler",
		},
		{
			"missing handler",
			"commands:\n  - path: lost",
			"declares no handler",
		},
		{
			"bad cooldown",
			"commands:\n  - path: lost\n    handler: shop.buy\n    cooldown: yearly",
			"invalid cooldown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.manifest))
			require.NoError(t, err)
			_, _, err = m.Compile(handlerTable())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("commands: [unclosed"))
	require.Error(t, err)
}

func TestHalfOpenRange(t *testing.T) {
	m, err := Parse([]byte("commands:\n  - path: pay\n    handler: shop.buy\n    parameters:\n      - name: amount\n        type: int\n        min: 1"))
	require.NoError(t, err)
	commands, _, err := m.Compile(handlerTable())
	require.NoError(t, err)

	v := commands[0].Parameters[0].Validators[0]
	assert.NoError(t, v(1000000))
	require.Error(t, v(0))
}
