package merger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/searcher/ranker"
)

func TestMergeTruncatesToLimit(t *testing.T) {
	shardResults := [][]ranker.ScoredDoc{
		{{DocID: "a", Score: 5}, {DocID: "b", Score: 3}},
		{{DocID: "c", Score: 9}, {DocID: "d", Score: 1}},
	}
	got := Merge(shardResults, 2)
	require.Equal(t, []ranker.ScoredDoc{{DocID: "c", Score: 9}, {DocID: "a", Score: 5}}, got)
}

func TestMergeDefaultsLimitWhenNonPositive(t *testing.T) {
	shardResults := [][]ranker.ScoredDoc{{{DocID: "a", Score: 1}}}
	got := Merge(shardResults, 0)
	require.Len(t, got, 1)
}

type fakeStream struct {
	items []fakeItem
	pos   int
}

type fakeItem struct {
	score float64
	key   string
}

func (s *fakeStream) Next() bool {
	if s.pos >= len(s.items) {
		return false
	}
	s.pos++
	return true
}

func (s *fakeStream) Score() float64 { return s.items[s.pos-1].score }
func (s *fakeStream) DocKey() string { return s.items[s.pos-1].key }

func TestMergeSortedInterleavesByScore(t *testing.T) {
	shard0 := &fakeStream{items: []fakeItem{{9, "a"}, {4, "b"}}}
	shard1 := &fakeStream{items: []fakeItem{{7, "c"}, {1, "d"}}}

	got := MergeSorted([]ScoredStream{shard0, shard1}, 3)
	require.Equal(t, []ranker.ScoredDoc{
		{DocID: "a", Score: 9},
		{DocID: "c", Score: 7},
		{DocID: "b", Score: 4},
	}, got)
}

func TestMergeSortedTieBreaksByKeyDescending(t *testing.T) {
	shard0 := &fakeStream{items: []fakeItem{{5, "x"}}}
	shard1 := &fakeStream{items: []fakeItem{{5, "y"}}}

	got := MergeSorted([]ScoredStream{shard0, shard1}, 2)
	require.Equal(t, "y", got[0].DocID)
	require.Equal(t, "x", got[1].DocID)
}

func TestMergeSortedHandlesEmptyStreams(t *testing.T) {
	got := MergeSorted(nil, 5)
	require.Empty(t, got)
}
