package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// RankingAuditRow is one TREC-style run line: a query's rank-th result.
type RankingAuditRow struct {
	QueryID string
	DocKey  string
	Rank    int
	Score   float64
	RunName string
}

// RankingAuditStore persists ranking CLI run output for offline evaluation.
//
// It requires a `ranking_audit` table:
//
//	CREATE TABLE ranking_audit (
//	    id          BIGSERIAL PRIMARY KEY,
//	    query_id    TEXT NOT NULL,
//	    doc_key     TEXT NOT NULL,
//	    rank        INT NOT NULL,
//	    score       DOUBLE PRECISION NOT NULL,
//	    run_name    TEXT NOT NULL,
//	    recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type RankingAuditStore struct {
	db     *Client
	logger *slog.Logger
}

// NewRankingAuditStore creates a new ranking-audit persistence store.
func NewRankingAuditStore(db *Client) *RankingAuditStore {
	return &RankingAuditStore{
		db:     db,
		logger: slog.Default().With("component", "ranking-audit-store"),
	}
}

// SaveRun persists every row of one batch run in a single transaction, the
// same atomicity the CLI's batch mode needs between query_id boundaries.
func (s *RankingAuditStore) SaveRun(ctx context.Context, rows []RankingAuditRow) error {
	if len(rows) == 0 {
		return nil
	}
	recordedAt := time.Now().UTC()
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		for _, row := range rows {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO ranking_audit (query_id, doc_key, rank, score, run_name, recorded_at)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				row.QueryID, row.DocKey, row.Rank, row.Score, row.RunName, recordedAt,
			)
			if err != nil {
				return fmt.Errorf("inserting audit row for query %q: %w", row.QueryID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving ranking audit run: %w", err)
	}
	s.logger.Info("ranking audit run saved", "rows", len(rows))
	return nil
}

// ListRun returns every audit row for a given run, ordered by query and rank.
func (s *RankingAuditStore) ListRun(ctx context.Context, runName string) ([]RankingAuditRow, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT query_id, doc_key, rank, score, run_name FROM ranking_audit
		 WHERE run_name = $1 ORDER BY query_id, rank`,
		runName,
	)
	if err != nil {
		return nil, fmt.Errorf("listing ranking audit run %q: %w", runName, err)
	}
	defer rows.Close()

	var out []RankingAuditRow
	for rows.Next() {
		var row RankingAuditRow
		if err := rows.Scan(&row.QueryID, &row.DocKey, &row.Rank, &row.Score, &row.RunName); err != nil {
			return nil, fmt.Errorf("scanning ranking audit row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
