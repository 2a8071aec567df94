package rankservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/ranking"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/searcher/merger"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/pkg/resilience"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/pkg/tracing"
)

// Service executes queries by running one internal/ranking engine per shard
// and merging their sorted top-k iterators, in place of the brute-force
// full-sort internal/searcher/ranker.Rank + merger.Merge path that
// executor.ShardedExecutor drives. Its Execute method has the exact shape
// executor.SearchExecutor already exposes, so internal/searcher/handler
// takes either implementation unchanged.
type Service struct {
	engines          map[int]*indexer.Engine
	metrics          ranking.Recorder
	numWorkers       int
	registryCapacity int
	logger           *slog.Logger

	shardTimeout time.Duration
	breakers     sync.Map // shardID -> *resilience.CircuitBreaker
	tracingOn    bool
}

// NewService builds a Service over the given shard engines. metrics may be
// nil, in which case engine observations are discarded. Shards are ranked
// with unlimited concurrency and no registry capacity hint; use
// NewServiceWithConfig to apply RankingConfig.
func NewService(engines map[int]*indexer.Engine, metrics ranking.Recorder) *Service {
	return NewServiceWithConfig(engines, metrics, 0, 0)
}

// NewServiceWithConfig builds a Service with RankingConfig's numWorkers fan
// -out cap and documents registry-capacity hint applied to every query.
func NewServiceWithConfig(engines map[int]*indexer.Engine, metrics ranking.Recorder, numWorkers, registryCapacity int) *Service {
	return &Service{
		engines:          engines,
		metrics:          metrics,
		numWorkers:       numWorkers,
		registryCapacity: registryCapacity,
		logger:           slog.Default().With("component", "rank-service"),
	}
}

// WithShardTimeout bounds every per-shard rank call with
// pkg/resilience.WithTimeout, backed by a per-shard pkg/resilience.CircuitBreaker
// so a shard stuck behind a slow segment merge trips open instead of
// stalling every subsequent query against it; a timed-out call is retried
// once via pkg/resilience.Retry. timeout <= 0 disables the deadline and the
// retry; the per-shard circuit breaker applies either way.
func (s *Service) WithShardTimeout(timeout time.Duration) *Service {
	s.shardTimeout = timeout
	return s
}

// WithTracing turns on per-query pkg/tracing spans: a root span for the
// call to Execute and one child span per shard fanned out to.
func (s *Service) WithTracing(enabled bool) *Service {
	s.tracingOn = enabled
	return s
}

func (s *Service) breakerFor(shardID int) *resilience.CircuitBreaker {
	if cb, ok := s.breakers.Load(shardID); ok {
		return cb.(*resilience.CircuitBreaker)
	}
	cb, _ := s.breakers.LoadOrStore(shardID,
		resilience.NewCircuitBreaker(fmt.Sprintf("rank-shard-%d", shardID), resilience.CircuitBreakerConfig{}))
	return cb.(*resilience.CircuitBreaker)
}

// Execute runs the already-parsed plan against every shard concurrently, then
// merges each shard's finalised top-k iterator into a single global top-k
// result capped at limit.
func (s *Service) Execute(ctx context.Context, plan *parser.QueryPlan, limit int) (*executor.SearchResult, error) {
	if len(plan.Terms) == 0 {
		return &executor.SearchResult{
			Query:   plan.RawQuery,
			Results: []ranker.ScoredDoc{},
		}, nil
	}

	var span *tracing.Span
	if s.tracingOn {
		ctx, span = tracing.StartSpan(ctx, "rankservice.Execute", plan.RawQuery)
		span.SetAttr("query", plan.RawQuery)
		span.SetAttr("terms", len(plan.Terms))
		span.SetAttr("limit", limit)
		defer func() {
			span.End()
			span.Log()
		}()
	}

	shards, err := fanOut(ctx, s, plan, limit)
	if err != nil {
		return nil, fmt.Errorf("shard fan-out: %w", err)
	}

	streams := make([]merger.ScoredStream, 0, len(shards))
	termStats := make(map[string]int)
	totalHits := 0
	heapTransitions := 0
	for i := range shards {
		streams = append(streams, newIteratorStream(&shards[i]))
		for term, count := range shards[i].termStats {
			termStats[term] += count
		}
		totalHits += shards[i].hits
		heapTransitions += shards[i].heapTransitions
	}

	merged := merger.MergeSorted(streams, limit)
	if span != nil {
		span.SetAttr("shards_queried", len(shards))
		span.SetAttr("global_candidates", totalHits)
	}
	s.logger.Info("ranked query executed",
		"query", plan.RawQuery,
		"shards_queried", len(shards),
		"global_candidates", totalHits,
		"results", len(merged),
		"terms_matched", len(termStats),
		"heap_transitions", heapTransitions,
	)
	return &executor.SearchResult{
		Query:           plan.RawQuery,
		TotalHits:       totalHits,
		Results:         merged,
		TermStats:       termStats,
		HeapTransitions: heapTransitions,
	}, nil
}
