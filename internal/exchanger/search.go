package exchanger

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"geothermal_cycles/internal/thermo"
)

// tFloor keeps a derived mass ratio finite at the loose end of the ratio
// searches.
const tFloor = 1e-9

// side produces the temperature profile of one stream for trial terminal
// enthalpies. A side with both terminals known has a fixed profile.
type side struct {
	fluid    thermo.Fluid
	pLo, pHi float64 // pressure at index 0 and N-1
	fixed    []float64
	surf     *surface
}

func (s *side) approx(dst []float64, hLo, hHi float64) {
	if s.fixed != nil {
		copy(dst, s.fixed)
		return
	}
	n := len(dst)
	for i := range dst {
		f := float64(i) / float64(n-1)
		dst[i] = s.surf.At(s.pLo+f*(s.pHi-s.pLo), hLo+f*(hHi-hLo))
	}
}

// pinchProblem maps the normalised search variable t in [0, 1] to trial
// terminals. t = 0 is the loose end, t = 1 the tight end.
type pinchProblem struct {
	r         *run
	hot, cold *side
	trial     func(t float64) ends
	th, tc    []float64
}

func (r *run) fixedSide(fl thermo.Fluid, pLo, pHi, hLo, hHi float64) (*side, error) {
	states, err := r.sideStates(fl, pLo, pHi, hLo, hHi)
	if err != nil {
		return nil, err
	}
	t := make([]float64, len(states))
	for i, st := range states {
		t[i] = st.T
	}
	return &side{fluid: fl, pLo: pLo, pHi: pHi, fixed: t}, nil
}

func (r *run) varyingSide(fl thermo.Fluid, pLo, pHi, hMin, hMax float64) (*side, error) {
	s, err := r.buildSurface(fl, pLo, pHi, hMin, hMax)
	if err != nil {
		return nil, err
	}
	r.hx.stats.SurfaceNodes += s.nodes
	return &side{fluid: fl, pLo: pLo, pHi: pHi, surf: s}, nil
}

func (r *run) newProblem(hot, cold *side, trial func(float64) ends) *pinchProblem {
	return &pinchProblem{
		r:     r,
		hot:   hot,
		cold:  cold,
		trial: trial,
		th:    make([]float64, r.cfg.N),
		tc:    make([]float64, r.cfg.N),
	}
}

// approxError is min approach minus pinch on the interpolated profiles.
func (p *pinchProblem) approxError(t float64) float64 {
	p.r.hx.stats.Evaluations++
	e := p.trial(t)
	p.hot.approx(p.th, e.hotOut, e.hotIn)
	p.cold.approx(p.tc, e.coldIn, e.coldOut)
	return minApproach(p.th, p.tc) - p.r.cfg.DeltaTPinch
}

// exactError is the same quantity on engine profiles.
func (p *pinchProblem) exactError(t float64) (float64, error) {
	p.r.hx.stats.ExactEvaluations++
	e := p.trial(t)
	hs, err := p.r.sideStates(p.hot.fluid, p.hot.pLo, p.hot.pHi, e.hotOut, e.hotIn)
	if err != nil {
		return 0, err
	}
	cs, err := p.r.sideStates(p.cold.fluid, p.cold.pLo, p.cold.pHi, e.coldIn, e.coldOut)
	if err != nil {
		return 0, err
	}
	for i := range hs {
		p.th[i], p.tc[i] = hs[i].T, cs[i].T
	}
	return minApproach(p.th, p.tc) - p.r.cfg.DeltaTPinch, nil
}

func minApproach(th, tc []float64) float64 {
	m := math.Inf(1)
	for i := range th {
		m = math.Min(m, th[i]-tc[i])
	}
	return m
}

// scanForRoot samples f on an even grid over [0, 1] and returns the first
// bracket [lo, hi] with f(lo) >= 0 > f(hi) counted from t = 0, together with
// the number of sign changes seen on the whole grid.
func scanForRoot(f func(float64) float64, points int) (lo, hi float64, changes int, err error) {
	ts := floats.Span(make([]float64, points), 0, 1)
	errs := make([]float64, len(ts))
	for i, t := range ts {
		errs[i] = f(t)
	}
	if errs[0] < 0 {
		return 0, 0, 0, fmt.Errorf("%w: loose end misses the pinch by %.4g K", ErrPinchInfeasible, -errs[0])
	}
	first := -1
	for i := 1; i < len(errs); i++ {
		if (errs[i-1] >= 0) != (errs[i] >= 0) {
			changes++
			if first < 0 {
				first = i
			}
		}
	}
	if first < 0 {
		return 0, 0, 0, fmt.Errorf("%w: no sign change over %d scan points (tight end %.4g K above the pinch)",
			ErrPinchInfeasible, len(ts), errs[len(errs)-1])
	}
	return ts[first-1], ts[first], changes, nil
}

func (p *pinchProblem) scan() (lo, hi float64, err error) {
	var changes int
	lo, hi, changes, err = scanForRoot(p.approxError, p.r.cfg.ScanPoints)
	p.r.hx.stats.SignChanges = changes
	if err != nil {
		return 0, 0, err
	}
	if changes > 1 {
		p.r.hx.log.Warnw("hx_scan_non_monotone",
			"mode", p.r.hx.mode.String(),
			"sign_changes", changes,
			"bracket_lo", lo,
			"bracket_hi", hi,
		)
	}
	return lo, hi, nil
}

// bisect narrows [lo, hi], f(lo) >= 0 > f(hi), until hi-lo <= tol and
// returns the feasible end with the number of iterations used.
func bisect(f func(float64) float64, lo, hi, tol float64, maxIter int) (float64, int, error) {
	for i := 0; i < maxIter; i++ {
		if hi-lo <= tol {
			return lo, i, nil
		}
		mid := lo + (hi-lo)/2
		if f(mid) >= 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	if hi-lo <= tol {
		return lo, maxIter, nil
	}
	return lo, maxIter, fmt.Errorf("%w: bracket [%g, %g] after %d iterations", ErrNoConvergence, lo, hi, maxIter)
}

// solve runs scan, interpolated bisection and the exact polish, and returns
// the terminals at the root.
func (p *pinchProblem) solve() (ends, error) {
	cfg := p.r.cfg
	lo, hi, err := p.scan()
	if err != nil {
		return ends{}, err
	}
	t, iters, err := bisect(p.approxError, lo, hi, cfg.Tolerance, cfg.MaxIterations)
	p.r.hx.stats.Iterations = iters
	if err != nil {
		return ends{}, err
	}
	t, err = p.polish(t)
	if err != nil {
		return ends{}, err
	}
	p.r.hx.stats.ConvergedFraction = t
	return p.trial(t), nil
}

// polish re-checks the interpolated root on engine profiles. When the exact
// error is outside [0, PolishTolerance] the root is re-bracketed by stepping
// out from t and bisected with exact evaluations.
//
// Each exact evaluation costs 2N engine calls, so on an uncached engine the
// single acceptance check usually outweighs the whole surface build. That
// check is what bounds the minimum approach to [pinch, pinch+PolishTolerance]
// on real properties, so it is never skipped.
func (p *pinchProblem) polish(t float64) (float64, error) {
	cfg := p.r.cfg
	stats := &p.r.hx.stats
	e, err := p.exactError(t)
	if err != nil {
		return 0, err
	}
	if e >= 0 && e <= cfg.PolishTolerance {
		return t, nil
	}

	lo, hi := t, t
	step := 4 * cfg.Tolerance
	for i := 0; ; i++ {
		if i >= cfg.MaxIterations {
			return 0, fmt.Errorf("%w: exact re-bracket from t=%g", ErrNoConvergence, t)
		}
		stats.PolishIterations++
		if e < 0 {
			lo = math.Max(lo-step, 0)
			el, err := p.exactError(lo)
			if err != nil {
				return 0, err
			}
			if el >= 0 {
				if el <= cfg.PolishTolerance {
					return lo, nil
				}
				break
			}
			if lo == 0 {
				return 0, fmt.Errorf("%w: loose end fails the pinch on exact profiles", ErrPinchInfeasible)
			}
			hi = lo
		} else {
			hi = math.Min(hi+step, 1)
			eh, err := p.exactError(hi)
			if err != nil {
				return 0, err
			}
			if eh < 0 {
				break
			}
			if eh <= cfg.PolishTolerance || hi == 1 {
				return hi, nil
			}
			lo = hi
		}
		step *= 2
	}

	for i := 0; i < cfg.MaxIterations; i++ {
		stats.PolishIterations++
		if hi-lo <= 1e-12 {
			return lo, nil
		}
		mid := lo + (hi-lo)/2
		em, err := p.exactError(mid)
		if err != nil {
			return 0, err
		}
		if em >= 0 {
			if em <= cfg.PolishTolerance {
				return mid, nil
			}
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0, fmt.Errorf("%w: exact bisection in [%g, %g]", ErrNoConvergence, lo, hi)
}

func searchOutletHotOutletCold(r *run) (ends, error) {
	k := r.known()
	hotFloor, err := r.enthalpyAt(r.hotFluid, r.pOH, math.Max(r.ic.Props.T, r.cfg.TAmbient))
	if err != nil {
		return ends{}, err
	}
	coldCeil, err := r.enthalpyAt(r.coldFluid, r.pOC, math.Min(r.ih.Props.T, r.cfg.TMaximum))
	if err != nil {
		return ends{}, err
	}
	qMax := math.Min(k.hotIn-hotFloor, r.mr*(coldCeil-k.coldIn))
	if !(qMax > 0) {
		return ends{}, fmt.Errorf("%w: no duty available between the streams", ErrPinchInfeasible)
	}
	hot, err := r.varyingSide(r.hotFluid, r.pOH, r.pIH, k.hotIn-qMax, k.hotIn)
	if err != nil {
		return ends{}, err
	}
	cold, err := r.varyingSide(r.coldFluid, r.pIC, r.pOC, k.coldIn, k.coldIn+qMax/r.mr)
	if err != nil {
		return ends{}, err
	}
	return r.newProblem(hot, cold, func(t float64) ends {
		q := t * qMax
		return ends{hotOut: k.hotIn - q, hotIn: k.hotIn, coldIn: k.coldIn, coldOut: k.coldIn + q/r.mr}
	}).solve()
}

func searchOutletHotInletCold(r *run) (ends, error) {
	k := r.known()
	hotFloor, err := r.enthalpyAt(r.hotFluid, r.pOH, r.cfg.TAmbient)
	if err != nil {
		return ends{}, err
	}
	coldFloor, err := r.enthalpyAt(r.coldFluid, r.pIC, r.cfg.TAmbient)
	if err != nil {
		return ends{}, err
	}
	qMax := math.Min(k.hotIn-hotFloor, r.mr*(k.coldOut-coldFloor))
	if !(qMax > 0) {
		return ends{}, fmt.Errorf("%w: no duty available above ambient", ErrPinchInfeasible)
	}
	hot, err := r.varyingSide(r.hotFluid, r.pOH, r.pIH, k.hotIn-qMax, k.hotIn)
	if err != nil {
		return ends{}, err
	}
	cold, err := r.varyingSide(r.coldFluid, r.pIC, r.pOC, k.coldOut-qMax/r.mr, k.coldOut)
	if err != nil {
		return ends{}, err
	}
	return r.newProblem(hot, cold, func(t float64) ends {
		q := t * qMax
		return ends{hotOut: k.hotIn - q, hotIn: k.hotIn, coldIn: k.coldOut - q/r.mr, coldOut: k.coldOut}
	}).solve()
}

func searchRatioOutletCold(r *run) (ends, error) {
	k := r.known()
	coldCeil, err := r.enthalpyAt(r.coldFluid, r.pOC, math.Min(r.ih.Props.T, r.cfg.TMaximum))
	if err != nil {
		return ends{}, err
	}
	span := coldCeil - k.coldIn
	if !(span > 0) || !(k.hotIn > k.hotOut) {
		return ends{}, fmt.Errorf("%w: cold stream cannot be heated", ErrPinchInfeasible)
	}
	hot, err := r.fixedSide(r.hotFluid, r.pOH, r.pIH, k.hotOut, k.hotIn)
	if err != nil {
		return ends{}, err
	}
	cold, err := r.varyingSide(r.coldFluid, r.pIC, r.pOC, k.coldIn, coldCeil)
	if err != nil {
		return ends{}, err
	}
	return r.newProblem(hot, cold, func(t float64) ends {
		e := k
		e.coldOut = k.coldIn + math.Max(t, tFloor)*span
		return e
	}).solve()
}

func searchRatioInletCold(r *run) (ends, error) {
	k := r.known()
	coldFloor, err := r.enthalpyAt(r.coldFluid, r.pIC, r.cfg.TAmbient)
	if err != nil {
		return ends{}, err
	}
	span := k.coldOut - coldFloor
	if !(span > 0) || !(k.hotIn > k.hotOut) {
		return ends{}, fmt.Errorf("%w: cold outlet is at or below ambient", ErrPinchInfeasible)
	}
	hot, err := r.fixedSide(r.hotFluid, r.pOH, r.pIH, k.hotOut, k.hotIn)
	if err != nil {
		return ends{}, err
	}
	cold, err := r.varyingSide(r.coldFluid, r.pIC, r.pOC, coldFloor, k.coldOut)
	if err != nil {
		return ends{}, err
	}
	return r.newProblem(hot, cold, func(t float64) ends {
		e := k
		e.coldIn = coldFloor + math.Min(t, 1-tFloor)*span
		return e
	}).solve()
}

func searchRatioOutletHot(r *run) (ends, error) {
	k := r.known()
	hotFloor, err := r.enthalpyAt(r.hotFluid, r.pOH, math.Max(r.ic.Props.T, r.cfg.TAmbient))
	if err != nil {
		return ends{}, err
	}
	span := k.hotIn - hotFloor
	if !(span > 0) || !(k.coldOut > k.coldIn) {
		return ends{}, fmt.Errorf("%w: hot stream cannot be cooled", ErrPinchInfeasible)
	}
	hot, err := r.varyingSide(r.hotFluid, r.pOH, r.pIH, hotFloor, k.hotIn)
	if err != nil {
		return ends{}, err
	}
	cold, err := r.fixedSide(r.coldFluid, r.pIC, r.pOC, k.coldIn, k.coldOut)
	if err != nil {
		return ends{}, err
	}
	return r.newProblem(hot, cold, func(t float64) ends {
		e := k
		e.hotOut = k.hotIn - math.Max(t, tFloor)*span
		return e
	}).solve()
}

func searchRatioInletHot(r *run) (ends, error) {
	k := r.known()
	hotCeil, err := r.enthalpyAt(r.hotFluid, r.pIH, r.cfg.TMaximum)
	if err != nil {
		return ends{}, err
	}
	span := hotCeil - k.hotOut
	if !(span > 0) || !(k.coldOut > k.coldIn) {
		return ends{}, fmt.Errorf("%w: hot outlet is at or above the maximum temperature", ErrPinchInfeasible)
	}
	hot, err := r.varyingSide(r.hotFluid, r.pOH, r.pIH, k.hotOut, hotCeil)
	if err != nil {
		return ends{}, err
	}
	cold, err := r.fixedSide(r.coldFluid, r.pIC, r.pOC, k.coldIn, k.coldOut)
	if err != nil {
		return ends{}, err
	}
	return r.newProblem(hot, cold, func(t float64) ends {
		e := k
		e.hotIn = hotCeil - math.Min(t, 1-tFloor)*span
		return e
	}).solve()
}
