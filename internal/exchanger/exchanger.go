// Package exchanger solves a pinch-constrained counter-current heat exchanger
// for whichever boundary conditions are not supplied.
//
// Profiles run from the cold-in/hot-out end (index 0) to the hot-in/cold-out
// end (index N-1). MassRatio is cold mass rate over hot mass rate.
package exchanger

import (
	"math"

	"go.uber.org/zap"

	"geothermal_cycles/internal/thermo"
)

// Outcome holds copies of the four terminal streams after a solve. Mass
// rates are consistent with the solved ratio.
type Outcome struct {
	InletHot   *thermo.Stream
	OutletHot  *thermo.Stream
	InletCold  *thermo.Stream
	OutletCold *thermo.Stream
}

// Stats describes the work done by the last Calc.
type Stats struct {
	Mode              Mode
	EngineCalls       int
	SurfaceNodes      int
	Evaluations       int
	ExactEvaluations  int
	Iterations        int
	PolishIterations  int
	SignChanges       int
	ConvergedFraction float64
}

// HeatExchanger is one physical exchanger. Not safe for concurrent use.
type HeatExchanger struct {
	cfg    Config
	log    *zap.SugaredLogger
	utable *UTable

	inputs Boundary
	mode   Mode
	ready  bool

	massRatio float64
	minDeltaT float64
	profile   *SolutionProfile
	stats     Stats
}

// Option customises a HeatExchanger.
type Option func(*HeatExchanger)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(hx *HeatExchanger) {
		if l != nil {
			hx.log = l
		}
	}
}

// WithUTable sets the U-value table used for UA and area. A nil table skips
// the area calculation.
func WithUTable(t *UTable) Option {
	return func(hx *HeatExchanger) { hx.utable = t }
}

// New builds an exchanger. Zero tuning fields in cfg take their defaults.
func New(cfg Config, opts ...Option) (*HeatExchanger, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hx := &HeatExchanger{
		cfg:       cfg,
		log:       zap.NewNop().Sugar(),
		utable:    DefaultUTable(),
		massRatio: math.NaN(),
		minDeltaT: math.NaN(),
	}
	for _, o := range opts {
		o(hx)
	}
	return hx, nil
}

// Config returns the exchanger parameters.
func (hx *HeatExchanger) Config() Config { return hx.cfg }

// SetInputs validates and stores a copy of the boundary set.
func (hx *HeatExchanger) SetInputs(b Boundary) error {
	if err := b.validate(); err != nil {
		hx.ready = false
		return err
	}
	hx.inputs = b.copy()
	hx.mode = ResolveMode(b)
	hx.ready = true
	hx.log.Debugw("hx_mode_resolved", "mode", hx.mode.String(), "known", b.Known())
	return nil
}

// Calc solves the current boundary set. Results of the previous call are
// discarded first, also when this call fails.
func (hx *HeatExchanger) Calc() (Outcome, error) {
	hx.massRatio = math.NaN()
	hx.minDeltaT = math.NaN()
	hx.profile = nil
	hx.stats = Stats{Mode: hx.mode}

	if !hx.ready {
		return Outcome{}, fail(hx.mode, "dispatch", ErrInsufficientBoundaryConditions)
	}
	solve, ok := strategies[hx.mode]
	if !ok {
		return Outcome{}, fail(hx.mode, "dispatch", ErrUnsupportedCalculationMode)
	}

	r := newRun(hx)
	if err := r.precheck(); err != nil {
		return Outcome{}, fail(hx.mode, "precheck", err)
	}
	e, err := solve(r)
	if err != nil {
		return Outcome{}, fail(hx.mode, "solve", err)
	}
	if err := r.materialise(e); err != nil {
		return Outcome{}, fail(hx.mode, "materialise", err)
	}
	prof, err := r.extract(e)
	if err != nil {
		return Outcome{}, fail(hx.mode, "extract", err)
	}
	if err := r.postcheck(prof); err != nil {
		return Outcome{}, fail(hx.mode, "validate", err)
	}

	hx.massRatio = r.mr
	hx.minDeltaT = prof.MinDeltaT
	hx.profile = prof
	hx.log.Debugw("hx_solved",
		"mode", hx.mode.String(),
		"mass_ratio", r.mr,
		"min_delta_t", prof.MinDeltaT,
		"duty_w", prof.Duty,
		"engine_calls", hx.stats.EngineCalls,
	)
	return r.outcome(), nil
}

// MassRatio is the cold/hot mass-rate ratio of the last successful Calc, or
// NaN.
func (hx *HeatExchanger) MassRatio() float64 { return hx.massRatio }

// MinDeltaT is the smallest hot-cold approach of the last successful Calc,
// or NaN.
func (hx *HeatExchanger) MinDeltaT() float64 { return hx.minDeltaT }

// Profile returns the discretised solution of the last successful Calc, or
// nil. The caller owns the returned copy.
func (hx *HeatExchanger) Profile() *SolutionProfile {
	if hx.profile == nil {
		return nil
	}
	return hx.profile.clone()
}

// Mode is the calculation mode of the stored boundary set.
func (hx *HeatExchanger) Mode() Mode { return hx.mode }

// Stats reports the work done by the last Calc.
func (hx *HeatExchanger) Stats() Stats { return hx.stats }
