package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	require.Equal(t, 1, FindIndex([]int{4, 5, 5}, 5), "First match should win")
	require.Equal(t, -1, FindIndex([]int{4, 5}, 6))
	require.Equal(t, -1, FindIndex(nil, 6))
}

func TestWithout(t *testing.T) {
	t.Run("copying instead of modifying the input", func(t *testing.T) {
		in := []int{0, 1, 2, 3}

		out := Without(in, 2)

		require.Equal(t, []int{0, 1, 3}, out)
		require.Equal(t, []int{0, 1, 2, 3}, in)
	})

	t.Run("returning the input when the item is absent", func(t *testing.T) {
		in := []int{0, 1}

		require.Same(t, &in[0], &Without(in, 7)[0])
	})
}
