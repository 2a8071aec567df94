package ranking

// partialSortDescending reorders arr in place so that arr[0:min(k,len(arr))]
// holds the k strongest elements under greater, sorted descending, using a
// quickselect partition to find the k-th element followed by an insertion
// sort of the now-isolated prefix. arr[k:] is left in unspecified order.
//
// greater(a, b) must report whether a strictly outranks b in the desired
// descending order (i.e. a should sort before b).
func partialSortDescending(arr []int, k int, greater func(a, b int) bool) {
	n := len(arr)
	if k > n {
		k = n
	}
	if k <= 0 {
		return
	}
	quickselect(arr, 0, n-1, k-1, greater)
	insertionSortDescending(arr[:k], greater)
}

// quickselect partitions arr[lo:hi+1] so that arr[target] holds the element
// that would occupy that position in a full descending sort, with every
// stronger element to its left.
func quickselect(arr []int, lo, hi, target int, greater func(a, b int) bool) {
	for lo < hi {
		p := partition(arr, lo, hi, greater)
		switch {
		case p == target:
			return
		case p < target:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
}

// partition is a Lomuto partition using arr[hi] as pivot: elements that
// outrank the pivot under greater are moved to the left, matching a
// descending quickselect.
func partition(arr []int, lo, hi int, greater func(a, b int) bool) int {
	pivot := arr[hi]
	i := lo
	for j := lo; j < hi; j++ {
		if greater(arr[j], pivot) {
			arr[i], arr[j] = arr[j], arr[i]
			i++
		}
	}
	arr[i], arr[hi] = arr[hi], arr[i]
	return i
}

// insertionSortDescending sorts a small slice in place; quickselect's
// partition already did the heavy lifting, so this only needs to be correct
// on the (small, top_k-sized) prefix it's handed.
func insertionSortDescending(arr []int, greater func(a, b int) bool) {
	for i := 1; i < len(arr); i++ {
		v := arr[i]
		j := i - 1
		for j >= 0 && greater(v, arr[j]) {
			arr[j+1] = arr[j]
			j--
		}
		arr[j+1] = v
	}
}
