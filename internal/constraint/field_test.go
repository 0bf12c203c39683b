package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ligature/internal/constraint"
)

func TestRegField(t *testing.T) {
	f := constraint.Reg(3)
	require.True(t, f.IsRegister)
	require.Equal(t, 3, f.Register)
	require.Equal(t, []int{3}, f.Registers())
	require.Equal(t, "reg3", f.String())
}

func TestValField(t *testing.T) {
	f := constraint.Val(42)
	require.False(t, f.IsRegister)
	require.Equal(t, uint32(42), f.Value)
	require.Empty(t, f.Registers())
	require.Equal(t, "val42", f.String())
}
