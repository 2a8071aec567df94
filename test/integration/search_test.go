// Package integration contains tests that verify the interaction between
// multiple ranking-path components with real handler wiring: the HTTP
// search handler, the sharded rankservice.Service, and an on-disk
// indexer.Engine per shard.
//
// Run with:
//
//	go test -v -tags=integration ./test/integration/...
package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/rankservice"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/pkg/config"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newSearchServer builds a two-shard index, wires it through a real
// rankservice.Service and internal/searcher/handler.Handler (no cache, no
// analytics collector), and exposes it over httptest.
func newSearchServer(t *testing.T) *httptest.Server {
	t.Helper()

	shard0, err := indexer.NewEngine(config.IndexerConfig{DataDir: t.TempDir(), SegmentMaxSize: 1 << 30})
	if err != nil {
		t.Fatalf("creating shard 0: %v", err)
	}
	shard1, err := indexer.NewEngine(config.IndexerConfig{DataDir: t.TempDir(), SegmentMaxSize: 1 << 30})
	if err != nil {
		t.Fatalf("creating shard 1: %v", err)
	}

	docs := []struct {
		engine *indexer.Engine
		id     string
		body   string
	}{
		{shard0, "d1", "go concurrency patterns"},
		{shard0, "d2", "go go go concurrency scheduling"},
		{shard1, "d3", "python tutorial basics"},
	}
	for _, d := range docs {
		if err := d.engine.IndexDocument(d.id, "", d.body); err != nil {
			t.Fatalf("indexing %s: %v", d.id, err)
		}
	}

	svc := rankservice.NewService(map[int]*indexer.Engine{0: shard0, 1: shard1}, nil)
	h := handler.New(svc, nil, nil, 10, 50)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("GET /health", h.Health)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	srv := newSearchServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", body["status"])
	}
}

func TestSearchMergesAcrossShards(t *testing.T) {
	srv := newSearchServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/search?q=go+concurrency")
	if err != nil {
		t.Fatalf("search request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result executor.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(result.Results) == 0 {
		t.Fatal("expected at least one result")
	}
	if result.Results[0].DocID != "d2" {
		t.Errorf("expected d2 (repeats 'go' term most) to rank first, got %s", result.Results[0].DocID)
	}
}

func TestSearchRejectsMissingQuery(t *testing.T) {
	srv := newSearchServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/search")
	if err != nil {
		t.Fatalf("search request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing q param, got %d", resp.StatusCode)
	}
}

func TestSearchRespectsLimitParam(t *testing.T) {
	srv := newSearchServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/search?q=go&limit=1")
	if err != nil {
		t.Fatalf("search request failed: %v", err)
	}
	defer resp.Body.Close()

	var result executor.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(result.Results) != 1 {
		t.Errorf("expected exactly 1 result with limit=1, got %d", len(result.Results))
	}
}

func TestCacheStatsReportsDisabledWithoutCache(t *testing.T) {
	srv := newSearchServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/cache/stats")
	if err != nil {
		t.Fatalf("cache stats request failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "disabled" {
		t.Errorf("expected status=disabled with no cache wired, got %q", body["status"])
	}
}
