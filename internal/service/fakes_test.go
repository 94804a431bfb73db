package service

import (
	"context"
	"sync"
	"time"

	"geothermal_cycles/internal/models"
)

// fakeRunRepo is an in-memory repository.RunRepo.
type fakeRunRepo struct {
	mu sync.Mutex

	// captured inputs
	gotFrom   time.Time
	gotTo     time.Time
	gotStatus string
	gotID     string
	appended  []models.SolveRecord

	// configured outputs
	runs      []models.SolveRecord
	get       *models.SolveRecord
	err       error
	appendErr error

	calls int
}

func (f *fakeRunRepo) Append(_ context.Context, rec models.SolveRecord) (models.SolveRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return models.SolveRecord{}, f.appendErr
	}
	f.appended = append(f.appended, rec)
	return rec, nil
}

func (f *fakeRunRepo) List(_ context.Context, from, to time.Time, status string) ([]models.SolveRecord, error) {
	f.calls++
	f.gotFrom = from
	f.gotTo = to
	f.gotStatus = status
	return f.runs, f.err
}

func (f *fakeRunRepo) Get(_ context.Context, id string) (*models.SolveRecord, error) {
	f.calls++
	f.gotID = id
	return f.get, f.err
}

// fakeSummaryRepo keeps the single summary row in memory.
type fakeSummaryRepo struct {
	row     models.RunSummary
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeSummaryRepo) Load(context.Context) (models.RunSummary, error) {
	if f.loadErr != nil {
		return models.RunSummary{}, f.loadErr
	}
	out := f.row
	if f.row.ByKind != nil {
		out.ByKind = make(map[string]int, len(f.row.ByKind))
		for k, v := range f.row.ByKind {
			out.ByKind[k] = v
		}
	}
	return out, nil
}

func (f *fakeSummaryRepo) Save(_ context.Context, s models.RunSummary) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.row = s
	return nil
}

func fixedZone(name string, offsetSec int) *time.Location {
	return time.FixedZone(name, offsetSec)
}

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}
