package rankservice

// iteratorStream adapts one shard's finalised ranking.Iterator into the
// merger.ScoredStream interface so merger.MergeSorted can k-way merge
// across shards without knowing anything about the ranking engine's score
// width or doc-id scheme.
type iteratorStream struct {
	sr    *shardRank
	key   string
	score uint32
}

func newIteratorStream(sr *shardRank) *iteratorStream {
	return &iteratorStream{sr: sr}
}

func (s *iteratorStream) Next() bool {
	if !s.sr.iter.Next() {
		return false
	}
	_, s.key, s.score = s.sr.iter.Result()
	return true
}

func (s *iteratorStream) Score() float64 {
	return float64(s.score) / impactScale
}

func (s *iteratorStream) DocKey() string {
	return s.key
}
