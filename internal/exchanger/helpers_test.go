package exchanger

import (
	"math"
	"testing"

	"geothermal_cycles/internal/fluid"
	"geothermal_cycles/internal/thermo"
)

const t0 = 273.15

// linearFluid has T linear in h and no phase change.
type linearFluid struct {
	name string
	cp   float64
}

func (f linearFluid) Name() string { return f.name }

func (f linearFluid) Evaluate(spec thermo.Spec, v1, v2 float64) (thermo.Properties, error) {
	var t float64
	switch spec {
	case thermo.PT:
		t = v2
	case thermo.PH:
		t = t0 + v2/f.cp
	default:
		return thermo.Properties{}, thermo.InfeasibleError(f.name, spec, v1, v2, "no saturation")
	}
	if t <= 0 {
		return thermo.Properties{}, thermo.InfeasibleError(f.name, spec, v1, v2, "below absolute zero")
	}
	return thermo.Properties{
		P:  v1,
		T:  t,
		H:  f.cp * (t - t0),
		S:  f.cp * math.Log(t/t0),
		D:  1000,
		Q:  thermo.SinglePhase,
		Mr: 0.018,
	}, nil
}

func mustStream(t *testing.T, fl thermo.Fluid, m float64, spec thermo.Spec, v1, v2 float64) *thermo.Stream {
	t.Helper()
	s, err := thermo.NewStream(fl, m, spec, v1, v2)
	if err != nil {
		t.Fatalf("stream %s %s(%g, %g): %v", fl.Name(), spec, v1, v2, err)
	}
	return s
}

func mustNew(t *testing.T, cfg Config, opts ...Option) *HeatExchanger {
	t.Helper()
	hx, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return hx
}

// reference is a consistent, pinch-satisfying solution of one exchanger.
type reference struct {
	ratio                 float64
	inletHot, outletHot   *thermo.Stream
	inletCold, outletCold *thermo.Stream
}

const linearP = 5e5

// coldEndPinch: hot capacity rate is the smaller one, so the approach
// closes at the hot-out/cold-in end (400->305 against 300->347.5).
func coldEndPinch(t *testing.T) reference {
	hot := linearFluid{name: "hot", cp: 2000}
	cold := linearFluid{name: "cold", cp: 4000}
	return reference{
		ratio:      1,
		inletHot:   mustStream(t, hot, 10, thermo.PT, linearP, 400),
		outletHot:  mustStream(t, hot, 10, thermo.PT, linearP, 305),
		inletCold:  mustStream(t, cold, 10, thermo.PT, linearP, 300),
		outletCold: mustStream(t, cold, 10, thermo.PT, linearP, 347.5),
	}
}

// hotEndPinch: cold capacity rate is the smaller one, so the approach
// closes at the hot-in/cold-out end (400->352.5 against 300->395).
func hotEndPinch(t *testing.T) reference {
	hot := linearFluid{name: "hot", cp: 4000}
	cold := linearFluid{name: "cold", cp: 2000}
	return reference{
		ratio:      1,
		inletHot:   mustStream(t, hot, 10, thermo.PT, linearP, 400),
		outletHot:  mustStream(t, hot, 10, thermo.PT, linearP, 352.5),
		inletCold:  mustStream(t, cold, 10, thermo.PT, linearP, 300),
		outletCold: mustStream(t, cold, 10, thermo.PT, linearP, 395),
	}
}

// boundaryFor drops the entries that are unknown in mode m.
func (ref reference) boundaryFor(m Mode) Boundary {
	b := Boundary{
		MassRatio:  Ratio(ref.ratio),
		InletHot:   ref.inletHot,
		OutletHot:  ref.outletHot,
		InletCold:  ref.inletCold,
		OutletCold: ref.outletCold,
	}
	for u, mode := range modeByUnknowns {
		if mode != m {
			continue
		}
		if u&unknownRatio != 0 {
			b.MassRatio = nil
		}
		if u&unknownInletHot != 0 {
			b.InletHot = nil
		}
		if u&unknownOutletHot != 0 {
			b.OutletHot = nil
		}
		if u&unknownInletCold != 0 {
			b.InletCold = nil
		}
		if u&unknownOutletCold != 0 {
			b.OutletCold = nil
		}
	}
	return b
}

// geothermalBrine is the two-phase scenario: water at 473.15 K and quality
// 0.2 heating n-butane from 300 K liquid to 460 K vapour at the pressure
// where it boils at 340 K.
func geothermalBrine(t *testing.T) (ih, ic, oc *thermo.Stream) {
	t.Helper()
	ih = mustStream(t, fluid.Water, 50, thermo.TQ, 473.15, 0.2)
	bubble, err := fluid.NButane.Evaluate(thermo.TQ, 340, 0)
	if err != nil {
		t.Fatalf("butane bubble point: %v", err)
	}
	ic = mustStream(t, fluid.NButane, 0, thermo.PT, bubble.P, 300)
	oc = mustStream(t, fluid.NButane, 0, thermo.PT, bubble.P, 460)
	return ih, ic, oc
}

func brineConfig() Config {
	cfg := DefaultConfig()
	cfg.TMaximum = 500
	return cfg
}

func assertEnergyBalance(t *testing.T, out Outcome, ratio float64) {
	t.Helper()
	hot := out.InletHot.Props.H - out.OutletHot.Props.H
	cold := ratio * (out.OutletCold.Props.H - out.InletCold.Props.H)
	if rel := math.Abs(hot-cold) / math.Max(math.Abs(hot), 1); rel > 1e-4 {
		t.Fatalf("energy balance: hot %.6g J/kg, ratio*cold %.6g J/kg (rel %.2g)", hot, cold, rel)
	}
}

func assertNear(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %.6g, want %.6g +/- %g", name, got, want, tol)
	}
}
