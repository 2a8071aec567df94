// Package ranking implements the accumulator-and-heap top-k ranking engine
// that sits in the innermost loop of query evaluation: per-document partial
// scores are summed as posting lists are walked, and a bounded min-heap keeps
// the strongest top_k documents available for a final descending sort.
package ranking

import "unsafe"

// Score is the accumulator cell type. It is generic over any unsigned integer
// wide enough to hold the sum of partial scores a query can produce; JASS-style
// impact-ordered indexes commonly use 16 bits, but wider collections need more.
type Score interface {
	~uint16 | ~uint32 | ~uint64
}

// saturatingAdd adds delta to old, clamping at the type's maximum instead of
// wrapping. This keeps AddRSV's result independent of call order even when a
// query's accumulated impact would otherwise overflow the chosen width.
func saturatingAdd[S Score](old, delta S) S {
	sum := old + delta
	if sum < old {
		return ^S(0)
	}
	return sum
}

// sizeOf returns the size in bytes of a Score value, used only to size the
// construction-time arena reservation.
func sizeOf[S Score](v S) int {
	return int(unsafe.Sizeof(v))
}
