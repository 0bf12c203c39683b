package interner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ligature/internal/interner"
)

func TestAbsentIsHandleZero(t *testing.T) {
	in := interner.New()
	s, n, isNum, ok := in.Resolve(interner.Absent)
	require.True(t, ok)
	require.Empty(t, s)
	require.Zero(t, n)
	require.False(t, isNum)
}

func TestStringInterningDeduplicates(t *testing.T) {
	in := interner.New()
	a := in.String("hello")
	b := in.String("hello")
	c := in.String("world")
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)

	s, _, isNum, ok := in.Resolve(a)
	require.True(t, ok)
	require.False(t, isNum)
	require.Equal(t, "hello", s)
}

func TestNumberInterningDeduplicates(t *testing.T) {
	in := interner.New()
	a := in.Number(3.5)
	b := in.Number(3.5)
	c := in.Number(7)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)

	_, n, isNum, ok := in.Resolve(a)
	require.True(t, ok)
	require.True(t, isNum)
	require.Equal(t, 3.5, n)
}

func TestStringAndNumberHandlesDoNotCollide(t *testing.T) {
	in := interner.New()
	s := in.String("7")
	n := in.Number(7)
	require.NotEqual(t, s, n)
}

func TestResolveUnknownHandle(t *testing.T) {
	in := interner.New()
	_, _, _, ok := in.Resolve(999)
	require.False(t, ok)
}
