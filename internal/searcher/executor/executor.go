package executor

import (
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/searcher/ranker"
)

// SearchResult is the shape both the brute-force ShardedExecutor and
// internal/rankservice.Service return, so internal/searcher/handler and
// internal/searcher/cache work unchanged against either.
//
// HeapTransitions is only ever nonzero from rankservice.Service: it is the
// number of times, across all shards, a query's accumulator-and-heap engine
// promoted an in-heap entry or replaced its root. ShardedExecutor has no
// heap to report on and always leaves it zero.
type SearchResult struct {
	Query           string             `json:"query"`
	TotalHits       int                `json:"total_hits"`
	Results         []ranker.ScoredDoc `json:"results"`
	TermStats       map[string]int     `json:"term_stats"`
	HeapTransitions int                `json:"heap_transitions,omitempty"`
}

func intersectPostings(postingsPerTerm map[string]index.PostingList) map[string]struct{} {
	if len(postingsPerTerm) == 0 {
		return make(map[string]struct{})
	}
	var shortestTerm string
	shortestLen := int(^uint(0) >> 1)
	for term, postings := range postingsPerTerm {
		if len(postings) < shortestLen {
			shortestLen = len(postings)
			shortestTerm = term
		}
	}
	candidates := make(map[string]struct{})
	for _, p := range postingsPerTerm[shortestTerm] {
		candidates[p.DocID] = struct{}{}
	}
	for term, postings := range postingsPerTerm {
		if term == shortestTerm {
			continue
		}
		docSet := make(map[string]struct{}, len(postings))
		for _, p := range postings {
			docSet[p.DocID] = struct{}{}
		}
		for docID := range candidates {
			if _, exists := docSet[docID]; !exists {
				delete(candidates, docID)
			}
		}
	}
	return candidates
}

func unionPostings(postingsPerTerm map[string]index.PostingList) map[string]struct{} {
	result := make(map[string]struct{})
	for _, postings := range postingsPerTerm {
		for _, p := range postings {
			result[p.DocID] = struct{}{}
		}
	}
	return result
}
