package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineroute/pkg/routetypes"
)

func noopHandler(_ routetypes.Invocation) (any, error) {
	return nil, nil
}

func spec(path string) routetypes.CommandSpec {
	return routetypes.CommandSpec{Path: path, Handler: noopHandler}
}

func defaultSpec(path string) routetypes.CommandSpec {
	return routetypes.CommandSpec{Path: path, Default: true, Handler: noopHandler}
}

func mustPath(t *testing.T, raw string) Path {
	t.Helper()
	p, err := NewPath(raw)
	require.NoError(t, err)
	return p
}

func TestRegistry_RegisterRootExecutable(t *testing.T) {
	registry := NewRegistry()

	exec, err := registry.Register(spec("ping"))
	require.NoError(t, err)
	assert.Equal(t, "ping", exec.Name())
	assert.Nil(t, exec.Category())
	assert.Equal(t, 1, exec.ID())

	node, ok := registry.RootChild("PING")
	require.True(t, ok)
	assert.Same(t, exec, node)
}

func TestRegistry_RegisterNestedCreatesCategories(t *testing.T) {
	registry := NewRegistry()

	exec, err := registry.Register(spec("shop buy bulk"))
	require.NoError(t, err)

	node, ok := registry.Lookup(mustPath(t, "shop"))
	require.True(t, ok)
	shop, ok := node.(*Category)
	require.True(t, ok)

	node, ok = registry.Lookup(mustPath(t, "shop buy"))
	require.True(t, ok)
	buy, ok := node.(*Category)
	require.True(t, ok)
	assert.Same(t, shop, buy.Parent())

	assert.Same(t, buy, exec.Category())
}

func TestRegistry_RegisterDefaultAction(t *testing.T) {
	registry := NewRegistry()

	def, err := registry.Register(defaultSpec("shop"))
	require.NoError(t, err)

	_, err = registry.Register(spec("shop buy"))
	require.NoError(t, err)

	node, ok := registry.Lookup(mustPath(t, "shop"))
	require.True(t, ok)
	shop, ok := node.(*Category)
	require.True(t, ok)

	assert.Same(t, def, registry.DefaultActionOf(shop))
	assert.Same(t, shop, def.Category())

	// Second default on the same category is a conflict.
	_, err = registry.Register(defaultSpec("shop"))
	assert.Error(t, err)
}

func TestRegistry_Conflicts(t *testing.T) {
	tests := []struct {
		name  string
		setup []routetypes.CommandSpec
		last  routetypes.CommandSpec
	}{
		{
			name:  "duplicate executable path",
			setup: []routetypes.CommandSpec{spec("shop buy")},
			last:  spec("shop buy"),
		},
		{
			name:  "executable over category",
			setup: []routetypes.CommandSpec{spec("shop buy")},
			last:  spec("shop"),
		},
		{
			name:  "category over executable",
			setup: []routetypes.CommandSpec{spec("shop")},
			last:  spec("shop buy"),
		},
		{
			name: "missing handler",
			last: routetypes.CommandSpec{Path: "shop"},
		},
		{
			name: "empty path",
			last: routetypes.CommandSpec{Path: "", Handler: noopHandler},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			for _, s := range tt.setup {
				_, err := registry.Register(s)
				require.NoError(t, err)
			}
			_, err := registry.Register(tt.last)
			assert.Error(t, err)
		})
	}
}

func TestRegistry_RegisterCategoryPermission(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Register(spec("admin reload"))
	require.NoError(t, err)

	cat, err := registry.RegisterCategory(routetypes.CategorySpec{Path: "admin", Permission: "core.admin"})
	require.NoError(t, err)
	assert.Equal(t, "core.admin", cat.Permission())
}

func TestRegistry_UnregisterLeafKeepsSiblings(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Register(spec("shop buy"))
	require.NoError(t, err)
	_, err = registry.Register(spec("shop sell"))
	require.NoError(t, err)

	assert.True(t, registry.Unregister("shop buy"))

	_, ok := registry.Lookup(mustPath(t, "shop buy"))
	assert.False(t, ok)
	_, ok = registry.Lookup(mustPath(t, "shop sell"))
	assert.True(t, ok)
	_, ok = registry.Lookup(mustPath(t, "shop"))
	assert.True(t, ok)
}

func TestRegistry_UnregisterLastLeafPrunesCategory(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Register(spec("shop buy bulk"))
	require.NoError(t, err)

	assert.True(t, registry.Unregister("shop buy bulk"))

	for _, raw := range []string{"shop buy", "shop"} {
		_, ok := registry.Lookup(mustPath(t, raw))
		assert.False(t, ok, "category %q should be pruned", raw)
	}
	_, ok := registry.RootChild("shop")
	assert.False(t, ok)
}

func TestRegistry_UnregisterSubtree(t *testing.T) {
	registry := NewRegistry()
	for _, raw := range []string{"shop buy bulk", "shop buy single", "shop sell"} {
		_, err := registry.Register(spec(raw))
		require.NoError(t, err)
	}

	assert.True(t, registry.Unregister("shop buy"))

	for _, raw := range []string{"shop buy", "shop buy bulk", "shop buy single"} {
		_, ok := registry.Lookup(mustPath(t, raw))
		assert.False(t, ok, "%q should be gone", raw)
	}
	_, ok := registry.Lookup(mustPath(t, "shop sell"))
	assert.True(t, ok)
}

func TestRegistry_UnregisterNothingMatched(t *testing.T) {
	registry := NewRegistry()
	assert.False(t, registry.Unregister("ghost"))
	assert.False(t, registry.Unregister(""))
}

func TestRegistry_UnregisterDefault(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Register(defaultSpec("shop"))
	require.NoError(t, err)
	_, err = registry.Register(spec("shop buy"))
	require.NoError(t, err)

	assert.True(t, registry.UnregisterDefault("shop"))
	assert.False(t, registry.UnregisterDefault("shop"))

	node, ok := registry.Lookup(mustPath(t, "shop"))
	require.True(t, ok)
	shop := node.(*Category)
	assert.Nil(t, registry.DefaultActionOf(shop))

	// Category still has the buy child, so it survives.
	_, ok = registry.Lookup(mustPath(t, "shop buy"))
	assert.True(t, ok)
}

func TestRegistry_UnregisterDefaultPrunesEmptyCategory(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Register(defaultSpec("shop"))
	require.NoError(t, err)

	assert.True(t, registry.UnregisterDefault("shop"))

	_, ok := registry.Lookup(mustPath(t, "shop"))
	assert.False(t, ok)
}

func TestRegistry_ExecutablesSortedWithDefaults(t *testing.T) {
	registry := NewRegistry()
	for _, s := range []routetypes.CommandSpec{spec("zeta"), defaultSpec("shop"), spec("shop buy")} {
		_, err := registry.Register(s)
		require.NoError(t, err)
	}

	var paths []string
	for _, exec := range registry.Executables() {
		paths = append(paths, exec.Path().String())
	}
	assert.Equal(t, []string{"shop", "shop buy", "zeta"}, paths)
}

func TestRegistry_IDsAreUnique(t *testing.T) {
	registry := NewRegistry()
	a, err := registry.Register(spec("alpha"))
	require.NoError(t, err)
	b, err := registry.Register(spec("beta"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestCompileParameter_Rules(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Register(routetypes.CommandSpec{
		Path:    "bad",
		Handler: noopHandler,
		Parameters: []routetypes.ParameterSpec{
			{Name: "x", Switch: true, Flag: true},
		},
	})
	assert.Error(t, err)

	_, err = registry.Register(routetypes.CommandSpec{
		Path:    "bad2",
		Handler: noopHandler,
		Parameters: []routetypes.ParameterSpec{
			{Name: "mode", Type: routetypes.TypeEnum},
		},
	})
	assert.Error(t, err)

	exec, err := registry.Register(routetypes.CommandSpec{
		Path:    "good",
		Handler: noopHandler,
		Parameters: []routetypes.ParameterSpec{
			{Name: "silent", Switch: true},
			{Name: "message"},
		},
	})
	require.NoError(t, err)

	silent := exec.Parameters()[0]
	assert.Equal(t, routetypes.TypeBool, silent.Type())
	assert.True(t, silent.Optional())
	assert.Equal(t, "silent", silent.FlagName())

	message := exec.Parameters()[1]
	assert.Equal(t, routetypes.TypeString, message.Type())
	assert.Equal(t, 1, message.Index())
	assert.False(t, message.Optional())
	assert.Same(t, exec, message.Owner())
}

func TestCompileParameter_DefaultsImplyOptional(t *testing.T) {
	registry := NewRegistry()

	exec, err := registry.Register(routetypes.CommandSpec{
		Path:    "roll",
		Handler: noopHandler,
		Parameters: []routetypes.ParameterSpec{
			{Name: "sides", Type: routetypes.TypeInt, Defaults: []string{"20"}},
		},
	})
	require.NoError(t, err)

	sides := exec.Parameters()[0]
	assert.True(t, sides.Optional())
	assert.Equal(t, []string{"20"}, sides.Defaults())
}
