package exchanger

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"geothermal_cycles/internal/thermo"
)

// SideProfile holds one stream along the exchanger. Duty is cumulative from
// index 0, in W.
type SideProfile struct {
	Fluid string    `json:"fluid"`
	P     []float64 `json:"p"`
	H     []float64 `json:"h"`
	T     []float64 `json:"t"`
	S     []float64 `json:"s"`
	Q     []float64 `json:"q"`
	Duty  []float64 `json:"duty"`
}

// SolutionProfile is the discretised solution.
type SolutionProfile struct {
	Hot        SideProfile `json:"hot"`
	Cold       SideProfile `json:"cold"`
	DeltaT     []float64   `json:"delta_t"`
	MassRatio  float64     `json:"mass_ratio"`
	MinDeltaT  float64     `json:"min_delta_t"`
	PinchIndex int         `json:"pinch_index"`
	Duty       float64     `json:"duty"` // W
	UA         float64     `json:"ua"`   // W/K
	Area       float64     `json:"area"` // m², 0 without a U-value table
}

func (s SideProfile) clone() SideProfile {
	c := func(v []float64) []float64 { return append([]float64(nil), v...) }
	return SideProfile{Fluid: s.Fluid, P: c(s.P), H: c(s.H), T: c(s.T), S: c(s.S), Q: c(s.Q), Duty: c(s.Duty)}
}

func (p *SolutionProfile) clone() *SolutionProfile {
	c := *p
	c.Hot = p.Hot.clone()
	c.Cold = p.Cold.clone()
	c.DeltaT = append([]float64(nil), p.DeltaT...)
	return &c
}

// sideStates evaluates N engine states with enthalpy and pressure linear
// between the two ends.
func (r *run) sideStates(fl thermo.Fluid, pLo, pHi, hLo, hHi float64) ([]thermo.Properties, error) {
	n := r.cfg.N
	out := make([]thermo.Properties, n)
	for i := range out {
		f := float64(i) / float64(n-1)
		props, err := r.eval(fl, thermo.PH, pLo+f*(pHi-pLo), hLo+f*(hHi-hLo))
		if err != nil {
			return nil, err
		}
		out[i] = props
	}
	return out, nil
}

// extract builds the final profile from the solved terminal enthalpies.
func (r *run) extract(e ends) (*SolutionProfile, error) {
	hs, err := r.sideStates(r.hotFluid, r.pOH, r.pIH, e.hotOut, e.hotIn)
	if err != nil {
		return nil, err
	}
	cs, err := r.sideStates(r.coldFluid, r.pIC, r.pOC, e.coldIn, e.coldOut)
	if err != nil {
		return nil, err
	}
	prof := &SolutionProfile{
		Hot:       sideProfile(r.hotFluid.Name(), hs, r.mHot),
		Cold:      sideProfile(r.coldFluid.Name(), cs, r.mHot*r.mr),
		DeltaT:    make([]float64, r.cfg.N),
		MassRatio: r.mr,
		Duty:      r.mHot * (e.hotIn - e.hotOut),
	}
	floats.SubTo(prof.DeltaT, prof.Hot.T, prof.Cold.T)
	prof.PinchIndex = floats.MinIdx(prof.DeltaT)
	prof.MinDeltaT = prof.DeltaT[prof.PinchIndex]

	if err := r.sizing(prof, hs, cs); err != nil {
		return nil, err
	}
	return prof, nil
}

func sideProfile(name string, states []thermo.Properties, massRate float64) SideProfile {
	n := len(states)
	sp := SideProfile{
		Fluid: name,
		P:     make([]float64, n),
		H:     make([]float64, n),
		T:     make([]float64, n),
		S:     make([]float64, n),
		Q:     make([]float64, n),
		Duty:  make([]float64, n),
	}
	for i, st := range states {
		sp.P[i], sp.H[i], sp.T[i], sp.S[i], sp.Q[i] = st.P, st.H, st.T, st.S, st.Q
		sp.Duty[i] = massRate * (st.H - states[0].H)
	}
	return sp
}

// sizing integrates UA over the segments with a log-mean temperature
// difference and converts it to area with the U-value table.
func (r *run) sizing(prof *SolutionProfile, hs, cs []thermo.Properties) error {
	var hotPh, coldPh []PhaseKind
	if r.hx.utable != nil {
		var err error
		if hotPh, err = r.phases(r.hotFluid, hs); err != nil {
			return err
		}
		if coldPh, err = r.phases(r.coldFluid, cs); err != nil {
			return err
		}
	}
	for i := 0; i+1 < len(prof.DeltaT); i++ {
		dq := prof.Hot.Duty[i+1] - prof.Hot.Duty[i]
		if dq == 0 {
			continue
		}
		lm := lmtd(prof.DeltaT[i], prof.DeltaT[i+1])
		if !(lm > 0) {
			prof.UA, prof.Area = math.Inf(1), math.Inf(1)
			return nil
		}
		ua := dq / lm
		prof.UA += ua
		if hotPh != nil {
			u := r.hx.utable.Lookup(segmentPhase(hotPh[i], hotPh[i+1]), segmentPhase(coldPh[i], coldPh[i+1]))
			prof.Area += ua / u
		}
	}
	return nil
}

func lmtd(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	if math.Abs(a-b) < 1e-9*math.Max(a, b) {
		return (a + b) / 2
	}
	return (a - b) / math.Log(a/b)
}

func (r *run) phases(fl thermo.Fluid, states []thermo.Properties) ([]PhaseKind, error) {
	out := make([]PhaseKind, len(states))
	for i, st := range states {
		if st.TwoPhase() {
			out[i] = PhaseTwoPhase
			continue
		}
		bubble, err := r.eval(fl, thermo.PQ, st.P, 0)
		switch {
		case errors.Is(err, thermo.ErrInfeasibleState):
			out[i] = PhaseSupercritical
		case err != nil:
			return nil, err
		case st.H <= bubble.H:
			out[i] = PhaseLiquid
		default:
			out[i] = PhaseVapour
		}
	}
	return out, nil
}

func segmentPhase(a, b PhaseKind) PhaseKind {
	if a == b {
		return a
	}
	if a == PhaseTwoPhase || b == PhaseTwoPhase {
		return PhaseTwoPhase
	}
	return b
}
