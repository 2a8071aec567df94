package merger

import (
	"container/heap"

	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/searcher/ranker"
)

func Merge(shardResults [][]ranker.ScoredDoc, limit int) []ranker.ScoredDoc {
	if limit <= 0 {
		limit = 10
	}
	h := &scoredDocHeap{}
	heap.Init(h)
	for _, results := range shardResults {
		for _, doc := range results {
			heap.Push(h, doc)
			if h.Len() > limit {
				heap.Pop(h)
			}
		}
	}
	result := make([]ranker.ScoredDoc, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(ranker.ScoredDoc)
	}
	return result
}

type scoredDocHeap []ranker.ScoredDoc

func (h scoredDocHeap) Len() int { return len(h) }

func (h scoredDocHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].DocID > h[j].DocID
}

func (h scoredDocHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *scoredDocHeap) Push(x interface{}) {
	*h = append(*h, x.(ranker.ScoredDoc))
}

func (h *scoredDocHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ScoredStream is one already-sorted (descending) source of scored
// documents, such as a ranking.Iterator wrapped by the caller. MergeSorted
// pulls from N of these with a k-way merge instead of the push-then-trim
// approach Merge uses for unsorted shard slices; it never holds more than
// one pending element per stream.
type ScoredStream interface {
	Next() bool
	Score() float64
	DocKey() string
}

// MergeSorted k-way merges streams, which must each yield results in
// descending score order (ties broken by the stream itself), into a single
// descending slice truncated to limit. Grounded on the same container/heap
// idiom as Merge, but the heap here holds one head element per stream
// rather than every candidate document.
func MergeSorted(streams []ScoredStream, limit int) []ranker.ScoredDoc {
	if limit <= 0 {
		limit = 10
	}
	h := &streamHeap{}
	heap.Init(h)
	for _, s := range streams {
		if s.Next() {
			heap.Push(h, streamHead{stream: s, score: s.Score(), key: s.DocKey()})
		}
	}

	result := make([]ranker.ScoredDoc, 0, limit)
	for h.Len() > 0 && len(result) < limit {
		head := heap.Pop(h).(streamHead)
		result = append(result, ranker.ScoredDoc{DocID: head.key, Score: head.score})
		if head.stream.Next() {
			heap.Push(h, streamHead{stream: head.stream, score: head.stream.Score(), key: head.stream.DocKey()})
		}
	}
	return result
}

type streamHead struct {
	stream ScoredStream
	score  float64
	key    string
}

// streamHeap is a max-heap on (score, key) so MergeSorted always pops the
// globally largest pending head next.
type streamHeap []streamHead

func (h streamHeap) Len() int { return len(h) }

func (h streamHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score > h[j].score
	}
	return h[i].key > h[j].key
}

func (h streamHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *streamHeap) Push(x interface{}) {
	*h = append(*h, x.(streamHead))
}

func (h *streamHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
