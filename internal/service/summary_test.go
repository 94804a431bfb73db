package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"geothermal_cycles/internal/models"
)

func TestSummaryService_GetSummary(t *testing.T) {
	t.Parallel()

	t.Run("fresh database is stamped now", func(t *testing.T) {
		svc := NewSummaryService(&fakeSummaryRepo{})
		fixed := time.Date(2026, 10, 1, 12, 0, 0, 0, fixedZone("UTC+1", 3600))
		svc.now = func() time.Time { return fixed }

		got, err := svc.GetSummary(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Total != 0 || !got.UpdatedAt.Equal(fixed) || got.UpdatedAt.Location() != time.UTC {
			t.Fatalf("unexpected summary: %+v", got)
		}
	})

	t.Run("propagates repository error", func(t *testing.T) {
		svc := NewSummaryService(&fakeSummaryRepo{loadErr: errors.New("db down")})
		if _, err := svc.GetSummary(context.Background()); err == nil {
			t.Fatalf("expected error, got nil")
		}
	})
}

func TestSummaryService_RecordCountsFailuresByKind(t *testing.T) {
	t.Parallel()

	repo := &fakeSummaryRepo{}
	svc := NewSummaryService(repo)

	recs := []models.SolveRecord{
		{ID: "a", Status: models.StatusOK},
		{ID: "b", Status: models.StatusFailed, ErrorKind: "pinch_infeasible"},
		{ID: "c", Status: models.StatusFailed, ErrorKind: "pinch_infeasible"},
		{ID: "d", Status: models.StatusFailed, ErrorKind: "temperature_crossing"},
	}
	var last models.RunSummary
	for _, r := range recs {
		var err error
		if last, err = svc.Record(context.Background(), r); err != nil {
			t.Fatalf("Record(%s): %v", r.ID, err)
		}
	}
	if last.Total != 4 || last.Failed != 3 || last.LastRunID != "d" {
		t.Fatalf("unexpected summary: %+v", last)
	}
	if last.ByKind["pinch_infeasible"] != 2 || last.ByKind["temperature_crossing"] != 1 {
		t.Fatalf("unexpected kinds: %v", last.ByKind)
	}
	if repo.saves != 4 || repo.row.Total != 4 {
		t.Fatalf("not persisted: saves=%d row=%+v", repo.saves, repo.row)
	}
}

func TestSummaryService_RecordSaveError(t *testing.T) {
	t.Parallel()

	svc := NewSummaryService(&fakeSummaryRepo{saveErr: errors.New("locked")})
	if _, err := svc.Record(context.Background(), models.SolveRecord{ID: "x"}); err == nil {
		t.Fatalf("expected save error")
	}
}
