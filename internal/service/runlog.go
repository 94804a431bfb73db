package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"geothermal_cycles/internal/models"
	"geothermal_cycles/internal/repository"
)

type RunLogService struct {
	runRepo repository.RunRepo
}

func NewRunLogService(runRepo repository.RunRepo) *RunLogService {
	return &RunLogService{runRepo: runRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errInvalidStatus    = errors.New("invalid status: must be ok or failed")
)

// ErrRunNotFound is returned by GetRun for unknown ids.
var ErrRunNotFound = errors.New("run not found")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeStatus trims spaces and lowercases the status filter.
func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeAndValidateFilter prepares query parameters and validates them.
func normalizeAndValidateFilter(f RunFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	status := normalizeStatus(f.Status)
	switch status {
	case "", models.StatusOK, models.StatusFailed:
	default:
		return time.Time{}, time.Time{}, "", errInvalidStatus
	}
	return from, to, status, nil
}

func (s *RunLogService) ListRuns(ctx context.Context, f RunFilter) ([]models.SolveRecord, error) {
	from, to, status, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.runRepo.List(ctx, from, to, status)
}

func (s *RunLogService) GetRun(ctx context.Context, id string) (models.SolveRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.SolveRecord{}, ErrRunNotFound
	}
	rec, err := s.runRepo.Get(ctx, id)
	if err != nil {
		return models.SolveRecord{}, err
	}
	if rec == nil {
		return models.SolveRecord{}, ErrRunNotFound
	}
	return *rec, nil
}
