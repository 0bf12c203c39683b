package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ligature/internal/registry"
)

func TestDefaultRegistrySeedsArithmeticAndBuiltinFunctions(t *testing.T) {
	reg := registry.New()

	for _, name := range []string{"+", "-", "*", "/", "%", "concat", "gen_id", "math/sin", "math/cos", "string/split"} {
		_, ok := reg.Lookup(name)
		require.True(t, ok, "expected %s to be registered", name)
	}

	_, ok := reg.Lookup("nonexistent")
	require.False(t, ok)
}

func TestStringSplitIsMultiOutput(t *testing.T) {
	reg := registry.New()
	info, ok := reg.Lookup("string/split")
	require.True(t, ok)
	require.True(t, info.IsMulti)
	require.Equal(t, []string{"token", "index"}, info.Outputs)
}

func TestGetIndexFindsParamsAndOutputs(t *testing.T) {
	reg := registry.New()
	info, ok := reg.Lookup("+")
	require.True(t, ok)

	idx, isOutput, ok := info.GetIndex("a")
	require.True(t, ok)
	require.False(t, isOutput)
	require.Equal(t, 0, idx)

	idx, isOutput, ok = info.GetIndex("result")
	require.True(t, ok)
	require.True(t, isOutput)
	require.Equal(t, 0, idx)

	_, _, ok = info.GetIndex("missing")
	require.False(t, ok)
}

func TestRegisterOverridesBuiltin(t *testing.T) {
	reg := registry.New()
	reg.Register("+", registry.Info{Params: []string{"x", "y", "z"}, Outputs: []string{"sum"}})

	info := reg.MustLookup("+")
	require.Equal(t, []string{"x", "y", "z"}, info.Params)
}

func TestIsComparisonAndArithmeticOp(t *testing.T) {
	require.True(t, registry.IsComparisonOp("=="))
	require.True(t, registry.IsComparisonOp("contains"))
	require.False(t, registry.IsComparisonOp("+"))

	require.True(t, registry.IsArithmeticOp("+"))
	require.False(t, registry.IsArithmeticOp("=="))
}

func TestMustLookupPanicsOnUnknown(t *testing.T) {
	reg := registry.New()
	require.Panics(t, func() { reg.MustLookup("nope") })
}
