package casefile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"geothermal_cycles/internal/exchanger"
	"geothermal_cycles/internal/service"
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
	return thermo.Properties{P: v1, T: t, H: f.cp * (t - t0), S: f.cp * math.Log(t/t0), D: 1000, Q: thermo.SinglePhase}, nil
}

type fakeFluids map[string]thermo.Fluid

func (f fakeFluids) LookupFluid(name string) (thermo.Fluid, error) {
	fl, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", service.ErrUnknownFluid, name)
	}
	return fl, nil
}

var linearFluids = fakeFluids{
	"hot":  linearFluid{name: "hot", cp: 2000},
	"cold": linearFluid{name: "cold", cp: 4000},
}

const outletsCase = `
name: outlets
mass_ratio: 1
inlet_hot:  {fluid: hot, spec: PT, v1: 5.0e5, v2: 400, mass_rate: 10}
inlet_cold: {fluid: cold, spec: pt, v1: 5.0e5, v2: 300}
exchanger:
  n: 21
`

func TestParse_DefaultsAndOverrides(t *testing.T) {
	c, err := Parse(strings.NewReader(outletsCase))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d := exchanger.DefaultConfig()
	if c.Exchanger.N != 21 || c.Exchanger.DeltaTPinch != d.DeltaTPinch || c.Exchanger.TableMode != d.TableMode {
		t.Fatalf("exchanger config: %+v", c.Exchanger)
	}
	if c.Request.MassRatio == nil || *c.Request.MassRatio != 1 {
		t.Fatalf("mass ratio: %v", c.Request.MassRatio)
	}
	if c.Request.InletHot == nil || c.Request.InletHot.MassRate != 10 || c.Request.OutletHot != nil {
		t.Fatalf("terminals: %+v", c.Request)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"unknown key":    "name: x\ninlet_hott: {}\n",
		"bad type":       "mass_ratio: [1]\n",
		"invalid config": "exchanger: {n: 1}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
	if _, err := Parse(strings.NewReader("")); !errors.Is(err, errEmptyCase) {
		t.Fatalf("empty: %v", err)
	}
}

func TestLoad_ShippedCases(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "cases", "*.yml"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no case files found")
	}
	fluids, err := service.NewFluidService(0)
	if err != nil {
		t.Fatalf("fluids: %v", err)
	}
	for _, p := range paths {
		c, err := Load(p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		b, err := c.Request.Boundary(fluids)
		if err != nil {
			t.Fatalf("%s: boundary: %v", p, err)
		}
		if n := b.Known(); n < 2 || n > 4 {
			t.Fatalf("%s: %d known entries", p, n)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSolve_AndReport(t *testing.T) {
	c, err := Parse(strings.NewReader(outletsCase))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := Solve(context.Background(), c, linearFluids, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if got := res.Outcome.OutletHot.Props.T; math.Abs(got-305) > 0.02 {
		t.Fatalf("outlet hot %.4f", got)
	}
	if got := res.Outcome.OutletCold.Props.T; math.Abs(got-347.5) > 0.02 {
		t.Fatalf("outlet cold %.4f", got)
	}
	if res.Profile == nil || len(res.Profile.DeltaT) != 21 || res.Name != "outlets" {
		t.Fatalf("result: %+v", res)
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, res, 5); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"case outlets", "MW", "outlet cold", " *"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	// header, 5 thinned rows (0,5,10,15,20) plus the pinch row if it is off-grid
	rows := strings.Count(out[strings.Index(out, "T hot"):], "\n")
	if rows < 6 || rows > 7 {
		t.Fatalf("profile rows %d:\n%s", rows, out)
	}
}

func TestSolve_Failures(t *testing.T) {
	c, err := Parse(strings.NewReader(`
inlet_hot:  {fluid: hot, spec: PT, v1: 5.0e5, v2: 300, mass_rate: 10}
inlet_cold: {fluid: cold, spec: PT, v1: 5.0e5, v2: 320}
mass_ratio: 1
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Solve(context.Background(), c, linearFluids, nil); exchanger.Kind(err) != "temperature_crossing" {
		t.Fatalf("crossing: kind %q err %v", exchanger.Kind(err), err)
	}

	c.Request.InletHot.Fluid = "steam"
	if _, err := Solve(context.Background(), c, linearFluids, nil); !errors.Is(err, service.ErrInvalidRequest) {
		t.Fatalf("unknown fluid: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Solve(ctx, c, linearFluids, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled: %v", err)
	}
}

func TestWriteReport_NoProfile(t *testing.T) {
	if err := WriteReport(&bytes.Buffer{}, Result{Name: "x"}, 1); err == nil {
		t.Fatalf("expected error")
	}
}
