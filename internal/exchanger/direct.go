package exchanger

import (
	"errors"
	"fmt"

	"geothermal_cycles/internal/thermo"
)

// ends are the specific enthalpies at the four terminals.
type ends struct {
	hotOut, hotIn, coldIn, coldOut float64
}

type strategy func(r *run) (ends, error)

var strategies = map[Mode]strategy{
	ModeR:      solveRatio,
	ModeTih:    solveInletHot,
	ModeToh:    solveOutletHot,
	ModeTic:    solveInletCold,
	ModeToc:    solveOutletCold,
	ModeTohToc: searchOutletHotOutletCold,
	ModeTohTic: searchOutletHotInletCold,
	ModeRToc:   searchRatioOutletCold,
	ModeRTic:   searchRatioInletCold,
	ModeRToh:   searchRatioOutletHot,
	ModeRTih:   searchRatioInletHot,
}

// run is the working state of one Calc. Known streams are private copies;
// unknown ones are nil until materialise.
type run struct {
	hx  *HeatExchanger
	cfg Config

	ih, oh, ic, oc *thermo.Stream
	hotFluid       thermo.Fluid
	coldFluid      thermo.Fluid
	mHot           float64
	mr             float64
	hasRatio       bool

	// terminal pressures, known or derived through the pressure drops
	pIH, pOH, pIC, pOC float64
}

func newRun(hx *HeatExchanger) *run {
	b := hx.inputs.copy()
	r := &run{
		hx:   hx,
		cfg:  hx.cfg,
		ih:   b.InletHot,
		oh:   b.OutletHot,
		ic:   b.InletCold,
		oc:   b.OutletCold,
		mHot: hotMassRate(b),
	}
	if b.MassRatio != nil {
		r.mr, r.hasRatio = *b.MassRatio, true
	}
	if r.ih != nil {
		r.hotFluid = r.ih.Fluid
		r.pIH = r.ih.Props.P
	}
	if r.oh != nil {
		r.hotFluid = r.oh.Fluid
		r.pOH = r.oh.Props.P
	}
	if r.ic != nil {
		r.coldFluid = r.ic.Fluid
		r.pIC = r.ic.Props.P
	}
	if r.oc != nil {
		r.coldFluid = r.oc.Fluid
		r.pOC = r.oc.Props.P
	}
	if r.ih == nil {
		r.pIH = r.pOH + r.cfg.DeltaPHot
	}
	if r.oh == nil {
		r.pOH = r.pIH - r.cfg.DeltaPHot
	}
	if r.ic == nil {
		r.pIC = r.pOC + r.cfg.DeltaPCold
	}
	if r.oc == nil {
		r.pOC = r.pIC - r.cfg.DeltaPCold
	}
	return r
}

func (r *run) eval(fl thermo.Fluid, spec thermo.Spec, v1, v2 float64) (thermo.Properties, error) {
	r.hx.stats.EngineCalls++
	return fl.Evaluate(spec, v1, v2)
}

func (r *run) enthalpyAt(fl thermo.Fluid, p, t float64) (float64, error) {
	props, err := r.eval(fl, thermo.PT, p, t)
	if err != nil {
		return 0, err
	}
	return props.H, nil
}

// known returns the enthalpies of the supplied terminals; unknown ones are 0.
func (r *run) known() ends {
	var e ends
	if r.oh != nil {
		e.hotOut = r.oh.Props.H
	}
	if r.ih != nil {
		e.hotIn = r.ih.Props.H
	}
	if r.ic != nil {
		e.coldIn = r.ic.Props.H
	}
	if r.oc != nil {
		e.coldOut = r.oc.Props.H
	}
	return e
}

func solveRatio(r *run) (ends, error) {
	return r.known(), nil
}

func solveInletHot(r *run) (ends, error) {
	e := r.known()
	if e.coldOut <= e.coldIn {
		return e, fmt.Errorf("%w: cold side is not heated", ErrInvalidBoundary)
	}
	e.hotIn = e.hotOut + r.mr*(e.coldOut-e.coldIn)
	return e, nil
}

func solveOutletHot(r *run) (ends, error) {
	e := r.known()
	if e.coldOut <= e.coldIn {
		return e, fmt.Errorf("%w: cold side is not heated", ErrInvalidBoundary)
	}
	e.hotOut = e.hotIn - r.mr*(e.coldOut-e.coldIn)
	return e, nil
}

func solveInletCold(r *run) (ends, error) {
	e := r.known()
	if e.hotIn <= e.hotOut {
		return e, fmt.Errorf("%w: hot side is not cooled", ErrInvalidBoundary)
	}
	e.coldIn = e.coldOut - (e.hotIn-e.hotOut)/r.mr
	return e, nil
}

func solveOutletCold(r *run) (ends, error) {
	e := r.known()
	if e.hotIn <= e.hotOut {
		return e, fmt.Errorf("%w: hot side is not cooled", ErrInvalidBoundary)
	}
	e.coldOut = e.coldIn + (e.hotIn-e.hotOut)/r.mr
	return e, nil
}

// materialise evaluates the unknown terminals and, when it was not
// supplied, the mass ratio.
func (r *run) materialise(e ends) error {
	if !r.hasRatio {
		dh, dc := e.hotIn-e.hotOut, e.coldOut-e.coldIn
		if dh <= 0 || dc <= 0 {
			return fmt.Errorf("%w: no heat exchanged (hot %g J/kg, cold %g J/kg)", ErrInvalidBoundary, dh, dc)
		}
		r.mr = dh / dc
	}
	var err error
	set := func(dst **thermo.Stream, fl thermo.Fluid, m, p, h float64) {
		if err != nil || *dst != nil {
			return
		}
		var s *thermo.Stream
		r.hx.stats.EngineCalls++
		s, err = thermo.NewStream(fl, m, thermo.PH, p, h)
		*dst = s
	}
	set(&r.ih, r.hotFluid, r.mHot, r.pIH, e.hotIn)
	set(&r.oh, r.hotFluid, r.mHot, r.pOH, e.hotOut)
	set(&r.ic, r.coldFluid, r.mHot*r.mr, r.pIC, e.coldIn)
	set(&r.oc, r.coldFluid, r.mHot*r.mr, r.pOC, e.coldOut)
	if err != nil {
		return err
	}
	r.ih.MassRate, r.oh.MassRate = r.mHot, r.mHot
	r.ic.MassRate, r.oc.MassRate = r.mHot*r.mr, r.mHot*r.mr
	return nil
}

func (r *run) outcome() Outcome {
	return Outcome{
		InletHot:   r.ih.Copy(),
		OutletHot:  r.oh.Copy(),
		InletCold:  r.ic.Copy(),
		OutletCold: r.oc.Copy(),
	}
}

func isInfeasibleState(err error) bool {
	return errors.Is(err, thermo.ErrInfeasibleState)
}
