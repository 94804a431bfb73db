package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"geothermal_cycles/internal/models"

	"github.com/google/uuid"
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite { return &RunSQLite{db: db} }

var _ RunRepo = (*RunSQLite)(nil)

const (
	insertRunSQL = `
		INSERT INTO solve_runs (id, created_at, mode, status, error_kind, error,
			mass_ratio, min_delta_t, duty, ua, area, request, profile)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRunColumns = `SELECT id, created_at, mode, status, error_kind, error, mass_ratio, min_delta_t, duty, ua, area, request, profile FROM solve_runs`

	// SQLite TIMESTAMP format
	timestampLayout = "2006-01-02 15:04:05"
)

// Append inserts a solve record. Empty ID and zero CreatedAt are filled in
// and the stored values are returned.
func (r *RunSQLite) Append(ctx context.Context, rec models.SolveRecord) (models.SolveRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	} else {
		rec.CreatedAt = rec.CreatedAt.UTC()
	}
	rec.Status = strings.ToLower(strings.TrimSpace(rec.Status))

	_, err := r.db.ExecContext(ctx, insertRunSQL,
		rec.ID,
		rec.CreatedAt.Format(timestampLayout),
		rec.Mode,
		rec.Status,
		nullString(rec.ErrorKind),
		nullString(rec.Error),
		rec.MassRatio,
		rec.MinDeltaT,
		rec.Duty,
		rec.UA,
		rec.Area,
		nullString(string(rec.Request)),
		nullString(string(rec.Profile)),
	)
	if err != nil {
		return models.SolveRecord{}, fmt.Errorf("insert solve run %s: %w", rec.ID, err)
	}
	return rec, nil
}

// List returns records filtered by [from, to] (inclusive) and/or status,
// ordered ASC. Profiles are not loaded.
func (r *RunSQLite) List(ctx context.Context, from, to time.Time, status string) ([]models.SolveRecord, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, from.UTC().Format(timestampLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, to.UTC().Format(timestampLayout))
	}
	if status = strings.ToLower(strings.TrimSpace(status)); status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
	}

	q := selectRunColumns
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.SolveRecord, 0, 64)
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		rec.Profile = nil
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one record with its profile. Returns (nil, nil) if not found.
func (r *RunSQLite) Get(ctx context.Context, id string) (*models.SolveRecord, error) {
	row := r.db.QueryRowContext(ctx, selectRunColumns+" WHERE id = ?", id)
	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select solve run %s: %w", id, err)
	}
	return &rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (models.SolveRecord, error) {
	var (
		rec                          models.SolveRecord
		kind, msg, request, profile  sql.NullString
		ratio, minDT, duty, ua, area sql.NullFloat64
	)
	if err := s.Scan(
		&rec.ID,
		&rec.CreatedAt,
		&rec.Mode,
		&rec.Status,
		&kind,
		&msg,
		&ratio,
		&minDT,
		&duty,
		&ua,
		&area,
		&request,
		&profile,
	); err != nil {
		return models.SolveRecord{}, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.ErrorKind = kind.String
	rec.Error = msg.String
	rec.MassRatio = floatPtr(ratio)
	rec.MinDeltaT = floatPtr(minDT)
	rec.Duty = floatPtr(duty)
	rec.UA = floatPtr(ua)
	rec.Area = floatPtr(area)
	if request.Valid && request.String != "" {
		rec.Request = []byte(request.String)
	}
	if profile.Valid && profile.String != "" {
		rec.Profile = []byte(profile.String)
	}
	return rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
