package exchanger

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"geothermal_cycles/internal/thermo"
)

func TestBisect_LinearFunctionsConvergeToRoot(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		root := rng.Float64()
		slope := 0.1 + 100*rng.Float64()
		f := func(x float64) float64 { return slope * (root - x) }

		lo, hi, changes, err := scanForRoot(f, 10)
		if err != nil {
			t.Fatalf("case %d (root %g): scan: %v", i, root, err)
		}
		if changes != 1 || lo > root || hi < root {
			t.Fatalf("case %d: bracket [%g, %g] changes %d for root %g", i, lo, hi, changes, root)
		}
		got, _, err := bisect(f, lo, hi, 1e-6, 100)
		if err != nil {
			t.Fatalf("case %d: bisect: %v", i, err)
		}
		if got > root || root-got > 1e-6 {
			t.Fatalf("case %d: got %.9f, root %.9f", i, got, root)
		}
		if f(got) < 0 {
			t.Fatalf("case %d: returned the infeasible side", i)
		}
	}
}

func TestBisect_IterationCap(t *testing.T) {
	f := func(x float64) float64 { return 0.5 - x }
	_, iters, err := bisect(f, 0, 1, 1e-12, 5)
	if !errors.Is(err, ErrNoConvergence) || iters != 5 {
		t.Fatalf("got iters=%d err=%v", iters, err)
	}
}

func TestScanForRoot_Failures(t *testing.T) {
	if _, _, _, err := scanForRoot(func(x float64) float64 { return -1 }, 10); !errors.Is(err, ErrPinchInfeasible) {
		t.Fatalf("loose end negative: %v", err)
	}
	if _, _, _, err := scanForRoot(func(x float64) float64 { return 1 - x/2 }, 10); !errors.Is(err, ErrPinchInfeasible) {
		t.Fatalf("no sign change: %v", err)
	}
}

func TestScanForRoot_TakesFirstOfSeveralRoots(t *testing.T) {
	f := func(x float64) float64 { return math.Cos(3 * math.Pi * x) }
	lo, hi, changes, err := scanForRoot(f, 20)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if changes != 3 {
		t.Fatalf("changes %d, want 3", changes)
	}
	if lo > 1.0/6 || hi < 1.0/6 {
		t.Fatalf("bracket [%g, %g] does not hold the first root", lo, hi)
	}
}

// Synthetic linear streams have an analytic pinch: the approach closes at the
// end where the smaller capacity rate sits.
func TestCalc_LinearStreamsMatchAnalyticRoot(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 40; i++ {
		cpH := 1000 + 4000*rng.Float64()
		cpC := 1000 + 4000*rng.Float64()
		tih := 380 + 70*rng.Float64()
		tic := 290 + 40*rng.Float64()
		mr := 0.5 + 1.5*rng.Float64()

		hot := linearFluid{name: "hot", cp: cpH}
		cold := linearFluid{name: "cold", cp: cpC}
		hx := mustNew(t, DefaultConfig())
		err := hx.SetInputs(Boundary{
			MassRatio: Ratio(mr),
			InletHot:  mustStream(t, hot, 10, thermo.PT, linearP, tih),
			InletCold: mustStream(t, cold, 0, thermo.PT, linearP, tic),
		})
		if err != nil {
			t.Fatalf("case %d: SetInputs: %v", i, err)
		}
		out, err := hx.Calc()
		if err != nil {
			t.Fatalf("case %d: Calc: %v", i, err)
		}

		q := (tih - tic - 5) * math.Min(cpH, mr*cpC)
		wantOH := tih - q/cpH
		wantOC := tic + q/(mr*cpC)
		assertNear(t, "outlet hot", out.OutletHot.Props.T, wantOH, 0.02)
		assertNear(t, "outlet cold", out.OutletCold.Props.T, wantOC, 0.02)
		if dt := hx.MinDeltaT(); dt < 5-1e-9 || dt > 5+hx.Config().PolishTolerance+1e-9 {
			t.Fatalf("case %d: min approach %.6f", i, dt)
		}
	}
}

func TestScan_LogsNonMonotoneError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	hx := mustNew(t, DefaultConfig(), WithLogger(zap.New(core).Sugar()))
	hx.mode = ModeRToh
	r := &run{hx: hx, cfg: hx.cfg}

	hot := linearFluid{name: "hot", cp: 4000}
	cold := linearFluid{name: "cold", cp: 4000}
	hIn := hot.cp * (400 - t0)
	hFloor := hot.cp * (300 - t0)
	hs, err := r.varyingSide(hot, linearP, linearP, hFloor, hIn)
	if err != nil {
		t.Fatalf("surface: %v", err)
	}
	cs, err := r.fixedSide(cold, linearP, linearP, cold.cp*(300-t0), cold.cp*(301-t0))
	if err != nil {
		t.Fatalf("fixed side: %v", err)
	}
	// The hot outlet swings down, back up and down again as t grows.
	p := r.newProblem(hs, cs, func(t float64) ends {
		swing := math.Abs(math.Sin(1.5 * math.Pi * t))
		return ends{hotOut: hIn - swing*(hIn-hFloor), hotIn: hIn}
	})
	lo, hi, err := p.scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if lo >= hi || hi > 0.5 {
		t.Fatalf("bracket [%g, %g] is not the first root", lo, hi)
	}
	if hx.stats.SignChanges < 2 {
		t.Fatalf("sign changes %d", hx.stats.SignChanges)
	}
	if logs.FilterMessage("hx_scan_non_monotone").Len() != 1 {
		t.Fatalf("expected one non-monotone warning, got %v", logs.All())
	}
}
