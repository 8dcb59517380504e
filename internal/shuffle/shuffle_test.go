package shuffle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceIsPermutation(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	in := []string{"a", "b", "c", "d", "e", "a"}

	for i := 0; i < 50; i++ {
		out := Slice(rnd, in)
		require.Len(t, out, len(in))
		require.ElementsMatch(t, in, out)
	}
}

func TestSliceDoesNotMutateInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	snapshot := append([]int(nil), in...)

	for i := 0; i < 20; i++ {
		_ = Slice(rnd, in)
	}
	require.Equal(t, snapshot, in)
}

func TestSliceSmallInputs(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))

	require.Empty(t, Slice(rnd, []int{}))
	require.Equal(t, []int{42}, Slice(rnd, []int{42}))
}

func TestPickWithoutReplacement(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	in := make([]int, 30)
	for i := range in {
		in[i] = i
	}

	out := Pick(rnd, in, 10)
	require.Len(t, out, 10)

	seen := make(map[int]bool, len(out))
	for _, v := range out {
		require.False(t, seen[v], "element %d picked twice", v)
		seen[v] = true
	}
}

func TestPickShortInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	in := []string{"x", "y", "z"}

	out := Pick(rnd, in, 10)
	require.Len(t, out, 3)
	require.ElementsMatch(t, in, out)

	require.Empty(t, Pick(rnd, in, 0))
	require.Empty(t, Pick(rnd, []string{}, 10))
}
