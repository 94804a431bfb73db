package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"geothermal_cycles/internal/exchanger"
	"geothermal_cycles/internal/logger"
	"geothermal_cycles/internal/models"
	"geothermal_cycles/internal/repository"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

type summaryRecorder interface {
	Record(ctx context.Context, rec models.SolveRecord) (models.RunSummary, error)
}

type publisher interface {
	Publish(rec models.SolveRecord)
}

// ExchangerService runs one fresh HeatExchanger per request and keeps a
// record of every solve that got past request parsing.
type ExchangerService struct {
	base    exchanger.Config
	utable  *exchanger.UTable
	fluids  FluidLookup
	runs    repository.RunRepo
	summary summaryRecorder
	feed    publisher
	log     *logger.Logger
	now     func() time.Time
	encode  func(v any) ([]byte, error)
}

func NewExchangerService(
	base exchanger.Config,
	utable *exchanger.UTable,
	fluids FluidLookup,
	runs repository.RunRepo,
	summary summaryRecorder,
	feed publisher,
	log *logger.Logger,
) *ExchangerService {
	return &ExchangerService{
		base:    base,
		utable:  utable,
		fluids:  fluids,
		runs:    runs,
		summary: summary,
		feed:    feed,
		log:     logger.OrNop(log),
		now:     time.Now,
		encode:  json.Marshal,
	}
}

// Solve evaluates req, persists the outcome and publishes it to the feed.
//
// Requests that cannot be parsed fail with ErrInvalidRequest and leave no
// record. Exchanger failures are persisted as failed records; the record is
// returned together with the exchanger error. A solved exchanger whose
// results cannot be encoded is stored as failed with kind "internal".
func (s *ExchangerService) Solve(ctx context.Context, req SolveRequest) (models.SolveRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.SolveRecord{}, err
	}
	cfg, err := req.Config(s.base)
	if err != nil {
		return models.SolveRecord{}, err
	}
	b, err := req.Boundary(s.fluids)
	if err != nil {
		return models.SolveRecord{}, err
	}
	hx, err := exchanger.New(cfg, exchanger.WithLogger(s.log.SugaredLogger), exchanger.WithUTable(s.utable))
	if err != nil {
		return models.SolveRecord{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return models.SolveRecord{}, fmt.Errorf("encode request: %w", err)
	}

	rec := models.SolveRecord{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Mode:      exchanger.ResolveMode(b).String(),
		Request:   reqJSON,
	}

	started := time.Now()
	solveErr := hx.SetInputs(b)
	if solveErr == nil {
		_, solveErr = hx.Calc()
	}
	if solveErr == nil {
		solveErr = s.fillResults(&rec, hx)
	}
	if solveErr != nil {
		rec.Status = models.StatusFailed
		rec.ErrorKind = exchanger.Kind(solveErr)
		rec.Error = solveErr.Error()
		s.log.Infow("solve_failed", "id", rec.ID, "mode", rec.Mode, "kind", rec.ErrorKind, "err", solveErr)
	} else {
		st := hx.Stats()
		s.log.Infow("solve_ok",
			"id", rec.ID,
			"mode", rec.Mode,
			"mass_ratio", hx.MassRatio(),
			"min_delta_t", hx.MinDeltaT(),
			"duty", humanize.SIWithDigits(valueOr(rec.Duty), 3, "W"),
			"area", humanize.FormatFloat("#,###.##", valueOr(rec.Area))+" m²",
			"engine_calls", st.EngineCalls,
			"iterations", st.Iterations+st.PolishIterations,
			"elapsed", time.Since(started),
		)
	}

	stored, err := s.runs.Append(ctx, rec)
	if err != nil {
		return models.SolveRecord{}, fmt.Errorf("persist solve run: %w", err)
	}
	if s.summary != nil {
		if _, err := s.summary.Record(ctx, stored); err != nil {
			s.log.Errorw("summary_update_failed", "id", stored.ID, "err", err)
		}
	}
	if s.feed != nil {
		pub := stored
		pub.Profile = nil
		s.feed.Publish(pub)
	}
	return stored, solveErr
}

// fillResults copies the scalar results and the encoded profile into rec.
// rec is left untouched when the profile cannot be encoded.
func (s *ExchangerService) fillResults(rec *models.SolveRecord, hx *exchanger.HeatExchanger) error {
	prof := hx.Profile()
	ua, area := prof.UA, prof.Area

	// JSON cannot carry +Inf.
	if math.IsInf(prof.UA, 0) {
		prof.UA = 0
	}
	if math.IsInf(prof.Area, 0) {
		prof.Area = 0
	}
	b, err := s.encode(prof)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	rec.Status = models.StatusOK
	rec.MassRatio = finite(hx.MassRatio())
	rec.MinDeltaT = finite(hx.MinDeltaT())
	rec.Duty = finite(prof.Duty)
	rec.UA = finite(ua)
	rec.Area = finite(area)
	rec.Profile = b
	return nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func valueOr(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
