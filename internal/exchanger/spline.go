package exchanger

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"geothermal_cycles/internal/thermo"
)

// regularisation is the synthetic temperature gradient added to the sampled
// nodes, in K per unit of normalised pressure and enthalpy. It keeps T(h)
// strictly increasing across flat two-phase plateaus so the root-finder
// never sees a zero slope. It is not physics.
const regularisation = 1e-4

// surface is T(P, h) over a closed box, linear in P between one or two
// sampled pressure rows.
type surface struct {
	pMin, pMax float64
	hMin, hMax float64
	rows       []interp.FittablePredictor
	cubic      bool
	nodes      int
}

// buildSurface samples the engine on a rows x n grid and fits one 1-D
// interpolant per pressure row.
func (r *run) buildSurface(fl thermo.Fluid, p1, p2, hMin, hMax float64) (*surface, error) {
	if !(hMax > hMin) {
		return nil, fmt.Errorf("%w: empty enthalpy range [%g, %g]", ErrPinchInfeasible, hMin, hMax)
	}
	s := &surface{
		pMin: math.Min(p1, p2),
		pMax: math.Max(p1, p2),
		hMin: hMin,
		hMax: hMax,
	}
	pressures := []float64{s.pMin}
	if s.pMax-s.pMin > 1e-9*math.Max(1, s.pMax) {
		pressures = append(pressures, s.pMax)
	}

	hs := make([][]float64, len(pressures))
	ts := make([][]float64, len(pressures))
	varies := false
	for k, p := range pressures {
		var q []float64
		var err error
		if r.cfg.TableMode == TablePT {
			hs[k], ts[k], q, err = r.sampleRowPT(fl, p, hMin, hMax)
		} else {
			hs[k], ts[k], q, err = r.sampleRowPH(fl, p, hMin, hMax)
		}
		if err != nil {
			return nil, err
		}
		for _, v := range q {
			if math.Abs(v-q[0]) > 1e-9 {
				varies = true
			}
		}
	}
	s.cubic = varies && r.cfg.N >= 3

	for k, p := range pressures {
		pn := 0.0
		if len(pressures) > 1 {
			pn = (p - s.pMin) / (s.pMax - s.pMin)
		}
		for j, h := range hs[k] {
			ts[k][j] += regularisation * (pn + (h-hMin)/(hMax-hMin))
		}
		var fit interp.FittablePredictor = &interp.PiecewiseLinear{}
		if s.cubic && len(hs[k]) >= 3 {
			fit = &interp.FritschButland{}
		}
		if err := fit.Fit(hs[k], ts[k]); err != nil {
			return nil, fmt.Errorf("fit %s row at %g Pa: %w", fl.Name(), p, err)
		}
		s.rows = append(s.rows, fit)
		s.nodes += len(hs[k])
	}
	return s, nil
}

func (r *run) sampleRowPH(fl thermo.Fluid, p, hMin, hMax float64) (hs, ts, qs []float64, err error) {
	n := r.cfg.N
	hs = floats.Span(make([]float64, n), hMin, hMax)
	ts = make([]float64, n)
	qs = make([]float64, n)
	for j, h := range hs {
		props, err := r.eval(fl, thermo.PH, p, h)
		if err != nil {
			return nil, nil, nil, err
		}
		ts[j], qs[j] = props.T, props.Q
	}
	return hs, ts, qs, nil
}

// sampleRowPT spaces nodes evenly in temperature. The ends are pinned to the
// box with PH evaluations; nodes that do not advance in enthalpy are dropped.
func (r *run) sampleRowPT(fl thermo.Fluid, p, hMin, hMax float64) (hs, ts, qs []float64, err error) {
	lo, err := r.eval(fl, thermo.PH, p, hMin)
	if err != nil {
		return nil, nil, nil, err
	}
	hi, err := r.eval(fl, thermo.PH, p, hMax)
	if err != nil {
		return nil, nil, nil, err
	}
	if hi.T-lo.T < 1e-6 {
		return r.sampleRowPH(fl, p, hMin, hMax)
	}
	n := r.cfg.N
	grid := floats.Span(make([]float64, n), lo.T, hi.T)
	hs = append(hs, hMin)
	ts = append(ts, lo.T)
	qs = append(qs, lo.Q)
	for _, t := range grid[1 : n-1] {
		props, err := r.eval(fl, thermo.PT, p, t)
		if err != nil {
			return nil, nil, nil, err
		}
		if props.H <= hs[len(hs)-1] || props.H >= hMax {
			continue
		}
		hs = append(hs, props.H)
		ts = append(ts, props.T)
		qs = append(qs, props.Q)
	}
	hs = append(hs, hMax)
	ts = append(ts, hi.T)
	qs = append(qs, hi.Q)
	return hs, ts, qs, nil
}

// At returns the interpolated temperature. Queries outside the fitted box
// are a caller bug and panic.
func (s *surface) At(p, h float64) float64 {
	hs := 1e-9 * math.Max(1, math.Abs(s.hMin)+math.Abs(s.hMax))
	ps := 1e-9 * math.Max(1, s.pMax)
	if h < s.hMin-hs || h > s.hMax+hs || p < s.pMin-ps || p > s.pMax+ps {
		panic(fmt.Sprintf("exchanger: surface query (P=%g, h=%g) outside [%g, %g] x [%g, %g]",
			p, h, s.pMin, s.pMax, s.hMin, s.hMax))
	}
	h = math.Min(math.Max(h, s.hMin), s.hMax)
	if len(s.rows) == 1 {
		return s.rows[0].Predict(h)
	}
	w := math.Min(math.Max((p-s.pMin)/(s.pMax-s.pMin), 0), 1)
	return (1-w)*s.rows[0].Predict(h) + w*s.rows[1].Predict(h)
}
