package rankservice

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/ranking"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/pkg/resilience"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/pkg/tracing"
)

// shardRank is one shard's contribution to a query: its finalised ranking
// engine iterator plus the registry needed to translate internal doc ids
// back into the shard's native string DocIDs.
type shardRank struct {
	shardID         int
	reg             *registry
	iter            *ranking.Iterator[uint32]
	termStats       map[string]int
	hits            int
	heapTransitions int
}

// fanOut resolves plan against every shard concurrently and returns one
// finalised shardRank per shard that matched at least one document. It
// replaces the hand-rolled sync.WaitGroup fan-out in
// executor.ShardedExecutor.fanOut with golang.org/x/sync/errgroup, so a
// failure on one shard cancels the rest instead of the group silently
// continuing until wg.Wait returns.
//
// Each shard call is run through its own pkg/resilience.CircuitBreaker and,
// when svc.shardTimeout is set, a pkg/resilience.WithTimeout deadline. svc's
// numWorkers field caps how many shards are ranked concurrently; zero or
// negative means unlimited, one goroutine per shard.
func fanOut(ctx context.Context, svc *Service, plan *parser.QueryPlan, limit int) ([]shardRank, error) {
	shardIDs := make([]int, 0, len(svc.engines))
	for id := range svc.engines {
		shardIDs = append(shardIDs, id)
	}
	results := make([]*shardRank, len(shardIDs))

	g, gctx := errgroup.WithContext(ctx)
	if svc.numWorkers > 0 {
		g.SetLimit(svc.numWorkers)
	}
	for i, shardID := range shardIDs {
		i, shardID := i, shardID
		engine := svc.engines[shardID]
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			sr, err := rankShardGuarded(gctx, svc, shardID, engine, plan, limit)
			if err != nil {
				return fmt.Errorf("shard %d: %w", shardID, err)
			}
			results[i] = sr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]shardRank, 0, len(results))
	for _, sr := range results {
		if sr != nil {
			out = append(out, *sr)
		}
	}
	return out, nil
}

// rankShardGuarded wraps rankShard with the per-shard circuit breaker,
// optional deadline, and (when tracing is on) a child span recording the
// shard's candidate count and document hits.
func rankShardGuarded(ctx context.Context, svc *Service, shardID int, engine *indexer.Engine, plan *parser.QueryPlan, limit int) (*shardRank, error) {
	var span *tracing.Span
	if svc.tracingOn {
		_, span = tracing.StartChildSpan(ctx, fmt.Sprintf("rankservice.shard.%d", shardID))
		defer span.End()
	}

	var sr *shardRank
	name := fmt.Sprintf("rank-shard-%d", shardID)
	breaker := svc.breakerFor(shardID)
	attempt := func() error {
		return breaker.Execute(func() error {
			rank := func(ctx context.Context) error {
				r, err := rankShard(shardID, engine, plan, limit, svc.registryCapacity, svc.metrics)
				sr = r
				return err
			}
			if svc.shardTimeout > 0 {
				return resilience.WithTimeout(ctx, svc.shardTimeout, name, rank)
			}
			return rank(ctx)
		})
	}

	var err error
	if svc.shardTimeout > 0 {
		err = resilience.Retry(ctx, name, resilience.RetryConfig{MaxAttempts: 2}, attempt)
	} else {
		err = attempt()
	}
	if err != nil {
		return nil, err
	}
	if span != nil && sr != nil {
		span.SetAttr("hits", sr.hits)
		span.SetAttr("heap_transitions", sr.heapTransitions)
	}
	return sr, nil
}

// rankShard runs one shard's share of the query through a dedicated
// ranking.Engine and returns its finalised iterator, or nil if the shard
// matched no candidate documents.
func rankShard(shardID int, engine *indexer.Engine, plan *parser.QueryPlan, limit int, registryCapacity int, metrics ranking.Recorder) (*shardRank, error) {
	qr := &queryRecorder{next: metrics}
	reg := newRegistry(registryCapacity)
	totalDocs := engine.GetTotalDocs()
	avgDocLen := engine.GetAvgDocLength()

	perTerm := make(map[string][]impact, len(plan.Terms))
	termStats := make(map[string]int, len(plan.Terms))
	for _, term := range plan.Terms {
		impacts, err := termImpacts(engine, reg, term, totalDocs, avgDocLen)
		if err != nil {
			return nil, fmt.Errorf("searching term %q: %w", term, err)
		}
		if len(impacts) > 0 {
			perTerm[term] = impacts
			termStats[term] = len(impacts)
		}
	}

	excluded, err := excludedDocIDs(engine, reg, plan.ExcludeTerms)
	if err != nil {
		return nil, fmt.Errorf("resolving exclude terms: %w", err)
	}

	candidates := candidateSet(perTerm, plan.Type == parser.QueryAND)
	for docID := range excluded {
		delete(candidates, docID)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	documents := reg.len()
	topK := limit
	if topK <= 0 || topK > documents {
		topK = documents
	}

	eng, err := ranking.New[uint32](reg.keys, documents, topK, qr)
	if err != nil {
		return nil, fmt.Errorf("constructing ranking engine: %w", err)
	}
	for _, impacts := range perTerm {
		for _, im := range impacts {
			if _, ok := candidates[im.docID]; ok {
				eng.AddRSV(im.docID, im.score)
			}
		}
	}

	return &shardRank{
		shardID:         shardID,
		reg:             reg,
		iter:            eng.Begin(),
		termStats:       termStats,
		hits:            len(candidates),
		heapTransitions: qr.heapTransitions,
	}, nil
}
