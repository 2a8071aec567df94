package ranking

// minHeap is the bounded min-heap over accumulator doc ids that backs the
// engine's top-k tracking. It stores doc ids directly rather than pointers
// into the accumulator array, since a doc id already recovers both its
// accumulator cell and its tie-break key in O(1).
//
// docIDs[0:length] holds a binary min-heap under less() once length reaches
// capacity; root is index 0, children of i are 2i+1 and 2i+2.
type minHeap[S Score] struct {
	docIDs   []int
	table    *table[S]
	length   int
	capacity int
}

func newMinHeap[S Score](capacity int, t *table[S]) *minHeap[S] {
	return &minHeap[S]{
		docIDs:   make([]int, capacity),
		table:    t,
		capacity: capacity,
	}
}

// less orders the min-heap: lower score ranks first; equal scores break the
// tie by doc id, with the LOWER doc id ranking first (so that, symmetrically,
// higher doc id wins ties in the final descending output).
func (h *minHeap[S]) less(a, b int) bool {
	sa, sb := h.table.get(a), h.table.get(b)
	if sa != sb {
		return sa < sb
	}
	return a < b
}

func (h *minHeap[S]) lessAt(i, j int) bool {
	return h.less(h.docIDs[i], h.docIDs[j])
}

func (h *minHeap[S]) swap(i, j int) {
	h.docIDs[i], h.docIDs[j] = h.docIDs[j], h.docIDs[i]
}

// reset empties the heap without reallocating its backing array.
func (h *minHeap[S]) reset() {
	h.length = 0
}

// append adds docID as the next (length+1)-th element without maintaining
// the heap property; used while the tracked set is still below capacity.
// The caller is responsible for calling makeHeap once length reaches
// capacity.
func (h *minHeap[S]) append(docID int) {
	h.docIDs[h.length] = docID
	h.length++
}

// full reports whether the tracked set has reached its capacity.
func (h *minHeap[S]) full() bool {
	return h.length == h.capacity
}

// root returns the current minimum-scoring tracked doc id. Only valid when
// full() is true.
func (h *minHeap[S]) root() int {
	return h.docIDs[0]
}

// makeHeap heapifies docIDs[0:length] bottom-up in O(length).
func (h *minHeap[S]) makeHeap() {
	for i := h.length/2 - 1; i >= 0; i-- {
		h.siftDown(i)
	}
}

// promote sifts the doc id known to already be tracked down from its
// current slot, after its score has increased (so it can only move toward
// the leaves, never toward the root). The slot is found by a linear scan;
// at the small top_k values this engine targets, a scan beats maintaining
// a secondary doc-id-to-slot index (see DESIGN.md).
func (h *minHeap[S]) promote(docID int) {
	for i := 0; i < h.length; i++ {
		if h.docIDs[i] == docID {
			h.siftDown(i)
			return
		}
	}
}

// replaceRoot replaces the current minimum with docID and restores the heap
// property by sifting down from the root. The caller must have already
// verified that docID outranks the current root under less().
func (h *minHeap[S]) replaceRoot(docID int) {
	h.docIDs[0] = docID
	h.siftDown(0)
}

func (h *minHeap[S]) siftDown(i int) {
	for {
		left := 2*i + 1
		if left >= h.length {
			return
		}
		smallest := left
		if right := left + 1; right < h.length && h.lessAt(right, left) {
			smallest = right
		}
		if !h.lessAt(smallest, i) {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}
