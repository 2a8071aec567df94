package ranking

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartialSortDescendingMatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	scores := make(map[int]int)
	arr := make([]int, 200)
	for i := range arr {
		arr[i] = i
		scores[i] = rng.Intn(50)
	}
	greater := func(a, b int) bool {
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		return a > b
	}

	want := append([]int(nil), arr...)
	sort.Slice(want, func(i, j int) bool { return greater(want[i], want[j]) })

	for _, k := range []int{0, 1, 5, 50, 200, 500} {
		got := append([]int(nil), arr...)
		partialSortDescending(got, k, greater)
		limit := k
		if limit > len(want) {
			limit = len(want)
		}
		require.Equal(t, want[:limit], got[:limit], "k=%d", k)
	}
}

func TestPartialSortDescendingEmptyAndSingle(t *testing.T) {
	greater := func(a, b int) bool { return a > b }

	empty := []int{}
	partialSortDescending(empty, 3, greater)
	require.Empty(t, empty)

	single := []int{42}
	partialSortDescending(single, 1, greater)
	require.Equal(t, []int{42}, single)
}
