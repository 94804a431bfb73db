package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"geothermal_cycles/internal/models"
)

type SummarySQLite struct {
	db *sql.DB
}

func NewSummarySQLite(db *sql.DB) *SummarySQLite {
	return &SummarySQLite{db: db}
}

var _ SummaryRepo = (*SummarySQLite)(nil)

const (
	summaryRowID = 1

	upsertSummarySQL = `
		INSERT INTO run_summary (id, total, failed, by_kind, last_run_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total=excluded.total,
			failed=excluded.failed,
			by_kind=excluded.by_kind,
			last_run_id=excluded.last_run_id,
			updated_at=excluded.updated_at
	`

	selectSummarySQL = `
		SELECT total, failed, by_kind, last_run_id, updated_at
		FROM run_summary WHERE id=?
	`
)

// marshalKinds converts the failure counters to a JSON string.
func marshalKinds(kinds map[string]int) (string, error) {
	if len(kinds) == 0 {
		return "", nil
	}
	b, err := json.Marshal(kinds)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalKinds parses a JSON string into failure counters.
func unmarshalKinds(s string) (map[string]int, error) {
	if s == "" {
		return nil, nil
	}
	var kinds map[string]int
	if err := json.Unmarshal([]byte(s), &kinds); err != nil {
		return nil, err
	}
	return kinds, nil
}

// Save updates or inserts the run_summary row (id always 1).
func (r *SummarySQLite) Save(ctx context.Context, s models.RunSummary) error {
	kinds, err := marshalKinds(s.ByKind)
	if err != nil {
		return err
	}

	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err = r.db.ExecContext(ctx, upsertSummarySQL,
		summaryRowID,
		s.Total,
		s.Failed,
		kinds,
		s.LastRunID,
		ts,
	)
	return err
}

// Load fetches the summary row. A fresh database yields a zero summary.
func (r *SummarySQLite) Load(ctx context.Context) (models.RunSummary, error) {
	row := r.db.QueryRowContext(ctx, selectSummarySQL, summaryRowID)

	var (
		s       models.RunSummary
		kinds   sql.NullString
		lastRun sql.NullString
	)
	if err := row.Scan(&s.Total, &s.Failed, &kinds, &lastRun, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RunSummary{}, nil
		}
		return models.RunSummary{}, err
	}

	byKind, err := unmarshalKinds(kinds.String)
	if err != nil {
		return models.RunSummary{}, err
	}
	s.ByKind = byKind
	s.LastRunID = lastRun.String
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
