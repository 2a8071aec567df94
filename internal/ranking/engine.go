package ranking

import (
	"fmt"

	apperrors "github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/pkg/errors"
)

// state is the lifecycle of one Engine between rewinds: Ready, then
// Accumulating once AddRSV is called, then Finalised once Begin sorts the
// tracked set.
type state int

const (
	stateReady state = iota
	stateAccumulating
	stateFinalised
)

// Engine is the accumulator-and-heap top-k ranking engine. One instance is
// constructed per shard/worker and reused across many queries: Rewind
// between queries is O(H), not O(documents).
//
// Engine is not safe for concurrent use; callers running multiple shards in
// parallel must give each shard its own Engine (see internal/rankservice).
type Engine[S Score] struct {
	primaryKeys []string
	documents   int
	topK        int

	arena *Arena
	table *table[S]
	heap  *minHeap[S]
	state state

	metrics Recorder
}

// Recorder receives optional telemetry from the hot path. Passing nil to
// New disables all instrumentation with no branching cost beyond a nil
// check. HeapPromotion is reported both when an in-heap entry is promoted
// and when the heap's root is replaced.
type Recorder interface {
	AddRSV()
	StripTouch()
	HeapPromotion()
}

// New constructs a ranking Engine for a shard with the given document count
// and primary-key table. topK must be in [1, documents]. metrics may be nil.
func New[S Score](primaryKeys []string, documents int, topK int, metrics Recorder) (*Engine[S], error) {
	if documents <= 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidRankingParams, 400, "documents must be positive, got %d", documents)
	}
	if topK <= 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidRankingParams, 400, "topK must be positive, got %d", topK)
	}
	if topK > documents {
		return nil, apperrors.Newf(apperrors.ErrInvalidRankingParams, 400, "topK (%d) cannot exceed documents (%d)", topK, documents)
	}
	if len(primaryKeys) < documents {
		return nil, apperrors.Newf(apperrors.ErrInvalidRankingParams, 400, "primaryKeys has %d entries, need at least documents (%d)", len(primaryKeys), documents)
	}

	t := newTable[S](documents)
	t.metrics = metrics
	h := newMinHeap[S](topK, t)

	arenaBytes := t.byteSize() + topK*wordSize
	arena := NewArena(arenaBytes)
	if _, ok := arena.Malloc(arenaBytes, 1); !ok {
		return nil, fmt.Errorf("ranking: reserving %d bytes of working memory: %w", arenaBytes, apperrors.ErrInvalidRankingParams)
	}

	return &Engine[S]{
		primaryKeys: primaryKeys,
		documents:   documents,
		topK:        topK,
		arena:       arena,
		table:       t,
		heap:        h,
		state:       stateReady,
		metrics:     metrics,
	}, nil
}

// Rewind returns the engine to its Ready state: the tracked set is emptied
// and every strip's dirty flag is cleared, in O(H) time. It does not touch
// the accumulator cells themselves - they are lazily re-zeroed, strip by
// strip, the next time each is touched.
func (e *Engine[S]) Rewind() {
	e.heap.reset()
	e.table.clearAll()
	e.state = stateReady
}

// AddRSV adds score to docID's accumulator and maintains the bounded top-k
// set. docID must be in [0, documents) and score should be positive; both
// are the caller's responsibility (typically a posting-list decoder) and are
// not bounds-checked on the hot path.
func (e *Engine[S]) AddRSV(docID int, score S) {
	e.state = stateAccumulating
	if e.metrics != nil {
		e.metrics.AddRSV()
	}

	wasInHeap := e.heap.full() && !e.heap.less(docID, e.heap.root())
	old := e.table.add(docID, score)

	switch {
	case !e.heap.full():
		if old == 0 {
			e.heap.append(docID)
			if e.heap.full() {
				e.heap.makeHeap()
			}
		}
	case wasInHeap:
		if e.metrics != nil {
			e.metrics.HeapPromotion()
		}
		e.heap.promote(docID)
	default:
		if e.heap.less(e.heap.root(), docID) {
			if e.metrics != nil {
				e.metrics.HeapPromotion()
			}
			e.heap.replaceRoot(docID)
		}
	}
}

// Begin partially sorts the tracked set into descending order and returns
// an iterator over it. Begin is idempotent: calling it again (without an
// intervening AddRSV or Rewind) re-sorts the same prefix and yields the
// same result.
func (e *Engine[S]) Begin() *Iterator[S] {
	n := e.heap.length
	k := e.topK
	if n < k {
		k = n
	}
	greater := func(a, b int) bool { return e.heap.less(b, a) }
	partialSortDescending(e.heap.docIDs[:n], k, greater)
	e.state = stateFinalised
	return &Iterator[S]{engine: e, end: k}
}

// Iterator yields the finalised top-k set in descending score order, tied
// by strictly descending doc id. It is forward-only and invalidated by the
// next call to AddRSV or Rewind on the engine that produced it.
type Iterator[S Score] struct {
	engine *Engine[S]
	pos    int
	end    int
}

// Next reports whether there is another result, advancing past it. Call
// Result to read the current element before calling Next again.
func (it *Iterator[S]) Next() bool {
	if it.pos >= it.end {
		return false
	}
	it.pos++
	return true
}

// End reports the sentinel position: min(L, top_k).
func (it *Iterator[S]) End() int {
	return it.end
}

// Result returns the current triple: internal doc id, its external primary
// key, and its final accumulated score.
func (it *Iterator[S]) Result() (docID int, key string, score S) {
	docID = it.engine.heap.docIDs[it.pos-1]
	return docID, it.engine.primaryKeys[docID], it.engine.table.get(docID)
}

// wordSize is the per-entry footprint of the heap's index array, used only
// to size the construction-time arena reservation (see byteSize).
const wordSize = 8
