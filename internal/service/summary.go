package service

import (
	"context"
	"sync"
	"time"

	"geothermal_cycles/internal/models"
	"geothermal_cycles/internal/repository"
)

// SummaryService maintains the aggregate over all solves.
type SummaryService struct {
	mu          sync.Mutex
	summaryRepo repository.SummaryRepo
	now         func() time.Time
}

func NewSummaryService(summaryRepo repository.SummaryRepo) *SummaryService {
	return &SummaryService{summaryRepo: summaryRepo, now: time.Now}
}

// GetSummary returns the persisted aggregate. A fresh database yields a
// zero summary stamped with the current time.
func (s *SummaryService) GetSummary(ctx context.Context) (models.RunSummary, error) {
	sum, err := s.summaryRepo.Load(ctx)
	if err != nil {
		return models.RunSummary{}, err
	}
	if sum.UpdatedAt.IsZero() {
		sum.UpdatedAt = s.now().UTC()
	}
	return sum, nil
}

// Record counts rec into the aggregate and returns the new value.
func (s *SummaryService) Record(ctx context.Context, rec models.SolveRecord) (models.RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum, err := s.summaryRepo.Load(ctx)
	if err != nil {
		return models.RunSummary{}, err
	}
	sum.Total++
	if rec.Status == models.StatusFailed {
		sum.Failed++
		if sum.ByKind == nil {
			sum.ByKind = make(map[string]int)
		}
		sum.ByKind[rec.ErrorKind]++
	}
	sum.LastRunID = rec.ID
	sum.UpdatedAt = s.now().UTC()

	if err := s.summaryRepo.Save(ctx, sum); err != nil {
		return models.RunSummary{}, err
	}
	return sum, nil
}
