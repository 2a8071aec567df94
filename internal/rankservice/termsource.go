package rankservice

import (
	"math"

	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/indexer"
)

// BM25 parameters, ported from internal/searcher/ranker so the two scorers
// agree on results for queries small enough to run through either path.
const (
	k1 = 1.2
	b  = 0.75
)

// impactScale converts a floating-point BM25 contribution into the fixed
// -point uint32 domain the ranking engine accumulates in. 1<<12 keeps three
// decimal digits of precision for impacts in the 0-1000 range without
// risking uint32 overflow across a realistically sized posting list.
const impactScale = 1 << 12

// impact is one (internal doc id, fixed-point score contribution) pair
// yielded while a term's posting list is traversed.
type impact struct {
	docID int
	score uint32
}

// termImpacts resolves term against the shard engine, interning every doc id
// it touches into reg, and returns its BM25 contributions in fixed point.
func termImpacts(engine *indexer.Engine, reg *registry, term string, totalDocs int64, avgDocLength float64) ([]impact, error) {
	postings, err := engine.Search(term)
	if err != nil {
		return nil, err
	}
	if len(postings) == 0 {
		return nil, nil
	}
	idf := computeIDF(totalDocs, int64(len(postings)))
	out := make([]impact, 0, len(postings))
	for _, p := range postings {
		tfNorm := computeTFNorm(float64(p.Frequency), float64(engine.GetDocLength(p.DocID)), avgDocLength)
		out = append(out, impact{
			docID: reg.intern(p.DocID),
			score: scaleImpact(idf * tfNorm),
		})
	}
	return out, nil
}

// excludedDocIDs interns and returns the set of internal doc ids matched by
// any of the plan's NOT terms, for a single shard.
func excludedDocIDs(engine *indexer.Engine, reg *registry, terms []string) (map[int]struct{}, error) {
	excluded := make(map[int]struct{})
	for _, term := range terms {
		postings, err := engine.Search(term)
		if err != nil {
			return nil, err
		}
		for _, p := range postings {
			excluded[reg.intern(p.DocID)] = struct{}{}
		}
	}
	return excluded, nil
}

func scaleImpact(score float64) uint32 {
	scaled := math.Round(score * impactScale)
	if scaled <= 0 {
		return 0
	}
	if scaled >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(scaled)
}

func computeIDF(totalDocs int64, docFreq int64) float64 {
	numerator := float64(totalDocs) - float64(docFreq)
	denominator := float64(docFreq) + 0.5
	return math.Log(numerator/denominator + 1)
}

func computeTFNorm(termFreq, docLength, avgDocLength float64) float64 {
	if avgDocLength == 0 {
		return 0
	}
	lengthRatio := docLength / avgDocLength
	denominator := termFreq + k1*(1-b+b*lengthRatio)
	return (termFreq * (k1 + 1)) / denominator
}

// candidateSet applies the query's AND/OR semantics over the per-term
// posting lists already resolved for one shard, in terms of internal doc
// ids, mirroring executor.intersectPostings/unionPostings.
func candidateSet(perTerm map[string][]impact, conjunctive bool) map[int]struct{} {
	if len(perTerm) == 0 {
		return map[int]struct{}{}
	}
	if !conjunctive {
		union := make(map[int]struct{})
		for _, impacts := range perTerm {
			for _, im := range impacts {
				union[im.docID] = struct{}{}
			}
		}
		return union
	}
	var shortestTerm string
	shortestLen := int(^uint(0) >> 1)
	for term, impacts := range perTerm {
		if len(impacts) < shortestLen {
			shortestLen = len(impacts)
			shortestTerm = term
		}
	}
	candidates := make(map[int]struct{}, shortestLen)
	for _, im := range perTerm[shortestTerm] {
		candidates[im.docID] = struct{}{}
	}
	for term, impacts := range perTerm {
		if term == shortestTerm {
			continue
		}
		present := make(map[int]struct{}, len(impacts))
		for _, im := range impacts {
			present[im.docID] = struct{}{}
		}
		for docID := range candidates {
			if _, ok := present[docID]; !ok {
				delete(candidates, docID)
			}
		}
	}
	return candidates
}
