package ranking

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func keys(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "d" + itoa(i)
	}
	return out
}

// itoa avoids pulling in strconv just for test fixture names.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

type want struct {
	docID int
	key   string
	score uint16
}

func collect[S Score](it *Iterator[S]) []struct {
	DocID int
	Key   string
	Score S
} {
	var out []struct {
		DocID int
		Key   string
		Score S
	}
	for it.Next() {
		id, key, score := it.Result()
		out = append(out, struct {
			DocID int
			Key   string
			Score S
		}{id, key, score})
	}
	return out
}

func requireResults(t *testing.T, it *Iterator[uint16], wants []want) {
	t.Helper()
	got := collect(it)
	require.Len(t, got, len(wants))
	for i, w := range wants {
		require.Equal(t, w.docID, got[i].DocID, "position %d docID", i)
		require.Equal(t, w.key, got[i].Key, "position %d key", i)
		require.Equal(t, w.score, got[i].Score, "position %d score", i)
	}
}

func TestS1Basic(t *testing.T) {
	e, err := New[uint16](keys(10), 10, 3, nil)
	require.NoError(t, err)
	e.AddRSV(3, 5)
	e.AddRSV(7, 2)
	e.AddRSV(1, 9)
	requireResults(t, e.Begin(), []want{
		{1, "d1", 9}, {3, "d3", 5}, {7, "d7", 2},
	})
}

func TestS2Accumulation(t *testing.T) {
	e, err := New[uint16](keys(10), 10, 3, nil)
	require.NoError(t, err)
	e.AddRSV(3, 5)
	e.AddRSV(3, 4)
	e.AddRSV(7, 2)
	requireResults(t, e.Begin(), []want{
		{3, "d3", 9}, {7, "d7", 2},
	})
}

func TestS3Eviction(t *testing.T) {
	e, err := New[uint16](keys(10), 10, 2, nil)
	require.NoError(t, err)
	e.AddRSV(0, 1)
	e.AddRSV(1, 2)
	e.AddRSV(2, 3)
	e.AddRSV(3, 4)
	requireResults(t, e.Begin(), []want{
		{3, "d3", 4}, {2, "d2", 3},
	})
}

func TestS4TieBreak(t *testing.T) {
	e, err := New[uint16](keys(10), 10, 2, nil)
	require.NoError(t, err)
	e.AddRSV(2, 5)
	e.AddRSV(4, 5)
	e.AddRSV(1, 5)
	requireResults(t, e.Begin(), []want{
		{4, "d4", 5}, {2, "d2", 5},
	})
}

func TestS5RewindReuse(t *testing.T) {
	e, err := New[uint16](keys(10), 10, 3, nil)
	require.NoError(t, err)
	e.AddRSV(3, 5)
	e.AddRSV(7, 2)
	e.AddRSV(1, 9)
	e.Begin()

	e.Rewind()
	e.AddRSV(8, 1)
	requireResults(t, e.Begin(), []want{
		{8, "d8", 1},
	})
}

func TestS6HeapTransition(t *testing.T) {
	e, err := New[uint16](keys(10), 10, 3, nil)
	require.NoError(t, err)

	e.AddRSV(0, 1)
	require.False(t, e.heap.full())
	e.AddRSV(1, 2)
	require.False(t, e.heap.full())
	e.AddRSV(2, 3)
	require.True(t, e.heap.full(), "heap should populate exactly on the third insertion")
	rootBefore := e.heap.root()
	require.Equal(t, 0, rootBefore, "weakest of the first three should be the root")

	e.AddRSV(3, 4)
	require.True(t, e.heap.full())
	require.NotEqual(t, rootBefore, e.heap.root(), "fourth insertion should replace the root")
}

func TestRewindIsIdempotent(t *testing.T) {
	e, err := New[uint16](keys(5), 5, 2, nil)
	require.NoError(t, err)
	e.AddRSV(1, 3)
	e.Rewind()
	firstDirty := append([]bool(nil), e.table.dirty...)
	e.Rewind()
	require.Equal(t, firstDirty, e.table.dirty)
	require.Equal(t, 0, e.heap.length)
}

func TestLazyClearCoverage(t *testing.T) {
	e, err := New[uint16](keys(100), 100, 5, nil)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		e.AddRSV(i, uint16(i+1))
	}
	e.Rewind()
	for i := 0; i < 100; i++ {
		old := e.table.add(i, 0)
		require.Zero(t, old, "doc %d should read zero immediately after rewind", i)
		e.Rewind()
	}
}

func TestBoundedSize(t *testing.T) {
	e, err := New[uint16](keys(50), 50, 4, nil)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		e.AddRSV(rng.Intn(50), uint16(rng.Intn(20)+1))
	}
	got := collect(e.Begin())
	require.LessOrEqual(t, len(got), 4)
}

func TestOrderIndependence(t *testing.T) {
	documents := 200
	type pair struct {
		doc   int
		score uint16
	}
	rng := rand.New(rand.NewSource(42))
	pairs := make([]pair, 0, 400)
	for i := 0; i < 400; i++ {
		pairs = append(pairs, pair{doc: rng.Intn(documents), score: uint16(rng.Intn(50) + 1)})
	}

	run := func(order []pair) []want {
		e, err := New[uint16](keys(documents), documents, 10, nil)
		require.NoError(t, err)
		for _, p := range order {
			e.AddRSV(p.doc, p.score)
		}
		got := collect(e.Begin())
		out := make([]want, len(got))
		for i, g := range got {
			out[i] = want{g.DocID, g.Key, g.Score}
		}
		return out
	}

	baseline := run(pairs)

	shuffled := append([]pair(nil), pairs...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	reordered := run(shuffled)

	require.Equal(t, baseline, reordered)
}

func TestCorrectnessAgainstBruteForce(t *testing.T) {
	documents := 300
	topK := 15
	rng := rand.New(rand.NewSource(7))
	totals := make([]int, documents)

	e, err := New[uint16](keys(documents), documents, topK, nil)
	require.NoError(t, err)

	for i := 0; i < 3000; i++ {
		doc := rng.Intn(documents)
		score := rng.Intn(40) + 1
		totals[doc] += score
		e.AddRSV(doc, uint16(score))
	}

	type scored struct {
		doc   int
		score int
	}
	bruteForce := make([]scored, 0, documents)
	for d, s := range totals {
		if s > 0 {
			bruteForce = append(bruteForce, scored{d, s})
		}
	}
	sort.Slice(bruteForce, func(i, j int) bool {
		if bruteForce[i].score != bruteForce[j].score {
			return bruteForce[i].score > bruteForce[j].score
		}
		return bruteForce[i].doc > bruteForce[j].doc
	})
	if len(bruteForce) > topK {
		bruteForce = bruteForce[:topK]
	}

	got := collect(e.Begin())
	require.Len(t, got, len(bruteForce))
	for i, w := range bruteForce {
		require.Equal(t, w.doc, got[i].DocID, "position %d", i)
		require.Equal(t, uint16(w.score), got[i].Score, "position %d", i)
	}
}

func TestTieBreakDeterminism(t *testing.T) {
	e, err := New[uint16](keys(20), 20, 20, nil)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		e.AddRSV(i, 7)
	}
	got := collect(e.Begin())
	require.Len(t, got, 20)
	for i := 0; i < len(got)-1; i++ {
		require.Greater(t, got[i].DocID, got[i+1].DocID)
	}
}

func TestHeapInvariantRootIsMinimum(t *testing.T) {
	e, err := New[uint16](keys(100), 100, 8, nil)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 400; i++ {
		e.AddRSV(rng.Intn(100), uint16(rng.Intn(30)+1))
		if e.heap.full() {
			rootScore := e.table.get(e.heap.root())
			for j := 0; j < e.heap.length; j++ {
				require.LessOrEqual(t, rootScore, e.table.get(e.heap.docIDs[j]))
			}
		}
	}
}

func TestSaturatingAddIsOrderIndependent(t *testing.T) {
	e1, err := New[uint16](keys(1), 1, 1, nil)
	require.NoError(t, err)
	e2, err := New[uint16](keys(1), 1, 1, nil)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		e1.AddRSV(0, 1000)
	}
	e2.AddRSV(0, 65535)
	e2.AddRSV(0, 65535)

	got1 := collect(e1.Begin())
	got2 := collect(e2.Begin())
	require.Equal(t, got1[0].Score, got2[0].Score)
	require.Equal(t, uint16(65535), got1[0].Score)
}

func TestConstructionRejectsInvalidParams(t *testing.T) {
	_, err := New[uint16](keys(10), 0, 1, nil)
	require.Error(t, err)

	_, err = New[uint16](keys(10), 10, 0, nil)
	require.Error(t, err)

	_, err = New[uint16](keys(10), 10, 11, nil)
	require.Error(t, err)
}

func TestBeginIsIdempotent(t *testing.T) {
	e, err := New[uint16](keys(10), 10, 3, nil)
	require.NoError(t, err)
	e.AddRSV(3, 5)
	e.AddRSV(7, 2)
	e.AddRSV(1, 9)

	first := collect(e.Begin())
	second := collect(e.Begin())
	require.Equal(t, first, second)
}
