package ranking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestHeap(t *testing.T, documents, topK int, initial map[int]uint16) *minHeap[uint16] {
	t.Helper()
	tbl := newTable[uint16](documents)
	for doc, score := range initial {
		tbl.add(doc, score)
	}
	return newMinHeap[uint16](topK, tbl)
}

func TestMakeHeapRootIsMinimum(t *testing.T) {
	scores := map[int]uint16{0: 9, 1: 3, 2: 7, 3: 5}
	h := newTestHeap(t, 10, 4, scores)
	for doc := range scores {
		h.append(doc)
	}
	h.makeHeap()
	require.Equal(t, 1, h.root())
}

func TestPromoteSinksIncreasedScore(t *testing.T) {
	scores := map[int]uint16{0: 1, 1: 2, 2: 3}
	h := newTestHeap(t, 10, 3, scores)
	for doc := range scores {
		h.append(doc)
	}
	h.makeHeap()
	require.Equal(t, 0, h.root())

	h.table.add(0, 10)
	h.promote(0)
	require.NotEqual(t, 0, h.root())
	rootScore := h.table.get(h.root())
	for i := 0; i < h.length; i++ {
		require.LessOrEqual(t, rootScore, h.table.get(h.docIDs[i]))
	}
}

func TestReplaceRootRestoresHeapProperty(t *testing.T) {
	scores := map[int]uint16{0: 1, 1: 2, 2: 3}
	h := newTestHeap(t, 10, 3, scores)
	for doc := range scores {
		h.append(doc)
	}
	h.makeHeap()
	require.Equal(t, 0, h.root())

	h.table.add(5, 20)
	h.replaceRoot(5)
	require.NotEqual(t, 0, h.root())
	for i := 0; i < h.length; i++ {
		require.NotEqual(t, 0, h.docIDs[i])
	}
	rootScore := h.table.get(h.root())
	for i := 0; i < h.length; i++ {
		require.LessOrEqual(t, rootScore, h.table.get(h.docIDs[i]))
	}
}
