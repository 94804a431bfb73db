// Package fluid provides reference Property Engines for pure components.
//
// The model is deliberately simple but keeps the features the heat-exchanger
// solver has to cope with: a two-phase dome with a flat temperature plateau,
// a pressure-dependent saturation temperature and a critical limit.
//
//	Psat(T) = Pref·exp(hfg/Rs·(1/Tref − 1/T))      (Clausius–Clapeyron)
//	liquid  h = cpL·(T − T0),  s = cpL·ln(T/T0)
//	vapour  h = hL(P) + hfg + cpV·(T − Tsat),  s = sV(P) + cpV·ln(T/Tsat)
//
// Enthalpy and entropy are zero for liquid at T0 = 273.15 K. Above the
// critical pressure the fluid is single phase with a liquid-like branch up to
// Tcrit and a gas-like branch above it.
package fluid

import (
	"fmt"
	"math"

	"geothermal_cycles/internal/thermo"
)

const (
	// T0 is the enthalpy/entropy datum (K).
	T0 = 273.15
	// Ru is the universal gas constant (J/(mol·K)).
	Ru = 8.314462618
)

// Model is a pure-component saturation model. It implements thermo.Fluid.
type Model struct {
	Label     string
	MolarMass float64 // kg/mol
	Tref      float64 // saturation temperature at Pref, K
	Pref      float64 // Pa
	Hfg       float64 // latent heat, J/kg
	CpL       float64 // J/(kg·K)
	CpV       float64 // J/(kg·K)
	RhoL      float64 // kg/m³
	Tcrit     float64 // K
}

var _ thermo.Fluid = Model{}

func (m Model) Name() string { return m.Label }

func (m Model) rs() float64 { return Ru / m.MolarMass }

// Psat returns the saturation pressure at T.
func (m Model) Psat(t float64) float64 {
	return m.Pref * math.Exp(m.Hfg/m.rs()*(1/m.Tref-1/t))
}

// Tsat returns the saturation temperature at p. Only meaningful below Pcrit.
func (m Model) Tsat(p float64) float64 {
	return 1 / (1/m.Tref - m.rs()/m.Hfg*math.Log(p/m.Pref))
}

// Pcrit is the pressure at which the dome closes.
func (m Model) Pcrit() float64 { return m.Psat(m.Tcrit) }

func (m Model) subcritical(p float64) bool { return p < m.Pcrit() }

// Evaluate implements thermo.Fluid.
func (m Model) Evaluate(spec thermo.Spec, v1, v2 float64) (thermo.Properties, error) {
	switch spec {
	case thermo.PT:
		return m.fromPT(v1, v2)
	case thermo.PH:
		return m.fromPH(v1, v2)
	case thermo.PS:
		return m.fromPS(v1, v2)
	case thermo.PQ:
		return m.fromPQ(v1, v2)
	case thermo.TQ:
		if v1 <= 0 {
			return thermo.Properties{}, m.infeasible(spec, v1, v2, "non-positive temperature")
		}
		if v1 >= m.Tcrit {
			return thermo.Properties{}, m.infeasible(spec, v1, v2, "temperature above critical")
		}
		return m.fromPQ(m.Psat(v1), v2)
	default:
		return thermo.Properties{}, fmt.Errorf("fluid %s: unsupported input pair %q", m.Label, spec)
	}
}

func (m Model) infeasible(spec thermo.Spec, v1, v2 float64, reason string) error {
	return thermo.InfeasibleError(m.Label, spec, v1, v2, reason)
}

func (m Model) fromPT(p, t float64) (thermo.Properties, error) {
	if p <= 0 || t <= 0 {
		return thermo.Properties{}, m.infeasible(thermo.PT, p, t, "non-positive input")
	}
	if !m.subcritical(p) {
		return m.supercritical(p, t), nil
	}
	ts := m.Tsat(p)
	switch {
	case t < ts:
		return m.liquid(p, t), nil
	case t > ts:
		return m.vapour(p, t, ts), nil
	default:
		return m.saturated(p, ts, 0), nil
	}
}

func (m Model) fromPH(p, h float64) (thermo.Properties, error) {
	if p <= 0 {
		return thermo.Properties{}, m.infeasible(thermo.PH, p, h, "non-positive pressure")
	}
	if !m.subcritical(p) {
		hc := m.CpL * (m.Tcrit - T0)
		t := T0 + h/m.CpL
		if h > hc {
			t = m.Tcrit + (h-hc)/m.CpV
		}
		if t <= 0 {
			return thermo.Properties{}, m.infeasible(thermo.PH, p, h, "enthalpy below absolute zero")
		}
		return m.supercritical(p, t), nil
	}
	ts := m.Tsat(p)
	hl := m.CpL * (ts - T0)
	hv := hl + m.Hfg
	switch {
	case h < hl:
		t := T0 + h/m.CpL
		if t <= 0 {
			return thermo.Properties{}, m.infeasible(thermo.PH, p, h, "enthalpy below absolute zero")
		}
		return m.liquid(p, t), nil
	case h > hv:
		return m.vapour(p, ts+(h-hv)/m.CpV, ts), nil
	default:
		return m.saturated(p, ts, (h-hl)/m.Hfg), nil
	}
}

func (m Model) fromPS(p, s float64) (thermo.Properties, error) {
	if p <= 0 {
		return thermo.Properties{}, m.infeasible(thermo.PS, p, s, "non-positive pressure")
	}
	if !m.subcritical(p) {
		sc := m.CpL * math.Log(m.Tcrit/T0)
		if s <= sc {
			return m.supercritical(p, T0*math.Exp(s/m.CpL)), nil
		}
		return m.supercritical(p, m.Tcrit*math.Exp((s-sc)/m.CpV)), nil
	}
	ts := m.Tsat(p)
	sl := m.CpL * math.Log(ts/T0)
	sv := sl + m.Hfg/ts
	switch {
	case s < sl:
		return m.liquid(p, T0*math.Exp(s/m.CpL)), nil
	case s > sv:
		return m.vapour(p, ts*math.Exp((s-sv)/m.CpV), ts), nil
	default:
		return m.saturated(p, ts, (s-sl)/(sv-sl)), nil
	}
}

func (m Model) fromPQ(p, q float64) (thermo.Properties, error) {
	if p <= 0 {
		return thermo.Properties{}, m.infeasible(thermo.PQ, p, q, "non-positive pressure")
	}
	if q < 0 || q > 1 {
		return thermo.Properties{}, m.infeasible(thermo.PQ, p, q, "quality outside [0, 1]")
	}
	if !m.subcritical(p) {
		return thermo.Properties{}, m.infeasible(thermo.PQ, p, q, "pressure above critical")
	}
	return m.saturated(p, m.Tsat(p), q), nil
}

func (m Model) liquid(p, t float64) thermo.Properties {
	return thermo.Properties{
		P:  p,
		T:  t,
		H:  m.CpL * (t - T0),
		S:  m.CpL * math.Log(t/T0),
		D:  m.RhoL,
		Q:  thermo.SinglePhase,
		Mr: m.MolarMass,
	}
}

func (m Model) vapour(p, t, ts float64) thermo.Properties {
	hl := m.CpL * (ts - T0)
	sv := m.CpL*math.Log(ts/T0) + m.Hfg/ts
	return thermo.Properties{
		P:  p,
		T:  t,
		H:  hl + m.Hfg + m.CpV*(t-ts),
		S:  sv + m.CpV*math.Log(t/ts),
		D:  p / (m.rs() * t),
		Q:  thermo.SinglePhase,
		Mr: m.MolarMass,
	}
}

func (m Model) saturated(p, ts, q float64) thermo.Properties {
	liq := thermo.Phase{
		T: ts,
		H: m.CpL * (ts - T0),
		S: m.CpL * math.Log(ts/T0),
		D: m.RhoL,
	}
	vap := thermo.Phase{
		T: ts,
		H: liq.H + m.Hfg,
		S: liq.S + m.Hfg/ts,
		D: p / (m.rs() * ts),
	}
	return thermo.Properties{
		P:      p,
		T:      ts,
		H:      liq.H + q*m.Hfg,
		S:      liq.S + q*(vap.S-liq.S),
		D:      1 / (q/vap.D + (1-q)/liq.D),
		Q:      q,
		Mr:     m.MolarMass,
		Liquid: &liq,
		Vapour: &vap,
	}
}

func (m Model) supercritical(p, t float64) thermo.Properties {
	if t <= m.Tcrit {
		return m.liquid(p, t)
	}
	hc := m.CpL * (m.Tcrit - T0)
	sc := m.CpL * math.Log(m.Tcrit/T0)
	return thermo.Properties{
		P:  p,
		T:  t,
		H:  hc + m.CpV*(t-m.Tcrit),
		S:  sc + m.CpV*math.Log(t/m.Tcrit),
		D:  p / (m.rs() * t),
		Q:  thermo.SinglePhase,
		Mr: m.MolarMass,
	}
}
