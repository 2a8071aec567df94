// Command ranker is a minimal stdin/stdout front end for the top-k ranking
// engine: one query per line, TREC-style run output on stdout. It exists
// alongside cmd/searcher's HTTP service as a hand-testable entry point that
// talks to internal/rankservice.Service directly.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/indexer/shard"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/rankservice"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Distributed-Search-Analytics-Platform/pkg/postgres"
)

const numShards = 8

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	runName := flag.String("run-name", "ranker", "run name tag printed in the TREC output's last column")
	auditFlag := flag.Bool("audit", false, "persist every run's output to Postgres via pkg/postgres.RankingAuditStore")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	router, err := shard.NewRouter(cfg.Indexer, numShards)
	if err != nil {
		slog.Error("failed to create shard router", "error", err)
		os.Exit(1)
	}
	defer router.Close()

	m := metrics.New()
	svc := rankservice.NewServiceWithConfig(router.GetAllEngines(), rankservice.NewRecorder(m),
		cfg.Ranking.NumWorkers, cfg.Ranking.Documents).
		WithShardTimeout(cfg.Ranking.ShardTimeout).
		WithTracing(cfg.Tracing.Enabled)

	var audit *postgres.RankingAuditStore
	if *auditFlag {
		db, err := postgres.New(cfg.Postgres)
		if err != nil {
			slog.Error("audit requested but postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		audit = postgres.NewRankingAuditStore(db)
	}

	ctx := context.Background()
	if err := run(ctx, svc, audit, *runName, cfg.Ranking.TopK, os.Stdin, os.Stdout); err != nil {
		slog.Error("ranker run failed", "error", err)
		os.Exit(1)
	}
}

// run executes one query per line of in, printing TREC-format output to out
// and, if audit is non-nil, persisting every result row.
func run(ctx context.Context, svc *rankservice.Service, audit *postgres.RankingAuditStore, runName string, limit int, in io.Reader, out io.Writer) error {
	writer := bufio.NewWriter(out)

	var auditRows []postgres.RankingAuditRow
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		queryID := "0"
		fields := strings.Fields(line)
		if len(fields) > 0 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				queryID = fields[0]
				line = strings.Join(fields[1:], " ")
			}
		}

		plan := parser.Parse(line)
		result, err := svc.Execute(ctx, plan, limit)
		if err != nil {
			slog.Error("query failed", "query_id", queryID, "error", err)
			continue
		}

		for i, doc := range result.Results {
			fmt.Fprintf(writer, "%s Q0 %s %d %.4f %s\n", queryID, doc.DocID, i+1, doc.Score, runName)
			if audit != nil {
				auditRows = append(auditRows, postgres.RankingAuditRow{
					QueryID: queryID,
					DocKey:  doc.DocID,
					Rank:    i + 1,
					Score:   doc.Score,
					RunName: runName,
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading queries: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	if audit != nil && len(auditRows) > 0 {
		if err := audit.SaveRun(ctx, auditRows); err != nil {
			return fmt.Errorf("saving audit run: %w", err)
		}
	}
	return nil
}
