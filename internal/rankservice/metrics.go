package rankservice

import (
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/ranking"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/pkg/metrics"
)

// metricsRecorder adapts pkg/metrics's Prometheus collectors to the
// ranking.Recorder interface, so internal/ranking itself has no Prometheus
// import and stays usable as a standalone library.
type metricsRecorder struct {
	m *metrics.Metrics
}

// NewRecorder returns a ranking.Recorder backed by m. Passing a nil
// *metrics.Metrics is not supported; callers that don't want telemetry
// should pass ranking.NopRecorder{} instead.
func NewRecorder(m *metrics.Metrics) *metricsRecorder {
	return &metricsRecorder{m: m}
}

func (r *metricsRecorder) AddRSV() {
	r.m.RankingAddRSVTotal.Inc()
}

func (r *metricsRecorder) StripTouch() {
	r.m.RankingStripTouchesTotal.Inc()
}

func (r *metricsRecorder) HeapPromotion() {
	r.m.RankingHeapPromotionsTotal.Inc()
}

// queryRecorder wraps another ranking.Recorder (typically a *metricsRecorder,
// or nil) and additionally tallies heap transitions for a single query's
// shard, so Service.Execute can report terms_matched/heap_transitions-style
// query-shape telemetry to internal/analytics without the Prometheus
// counters losing per-query granularity.
type queryRecorder struct {
	next            ranking.Recorder
	heapTransitions int
}

func (r *queryRecorder) AddRSV() {
	if r.next != nil {
		r.next.AddRSV()
	}
}

func (r *queryRecorder) StripTouch() {
	if r.next != nil {
		r.next.StripTouch()
	}
}

func (r *queryRecorder) HeapPromotion() {
	r.heapTransitions++
	if r.next != nil {
		r.next.HeapPromotion()
	}
}
