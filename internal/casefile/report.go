package casefile

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"geothermal_cycles/internal/thermo"

	"github.com/dustin/go-humanize"
)

// WriteReport prints the terminal states, the sizing and the profile table.
// every thins the table to each n-th element; the pinch row is always kept.
func WriteReport(w io.Writer, r Result, every int) error {
	if every < 1 {
		every = 1
	}
	p := r.Profile
	if p == nil {
		return fmt.Errorf("case %s has no profile", r.Name)
	}

	fmt.Fprintf(w, "case %s  mode %s\n", r.Name, r.Mode)
	fmt.Fprintf(w, "  mass ratio   %.6g\n", r.MassRatio)
	fmt.Fprintf(w, "  min dT       %.4f K at element %d\n", r.MinDeltaT, p.PinchIndex)
	fmt.Fprintf(w, "  duty         %s\n", humanize.SIWithDigits(p.Duty, 4, "W"))
	fmt.Fprintf(w, "  UA           %s\n", siOrInf(p.UA, "W/K"))
	fmt.Fprintf(w, "  area         %s\n", areaString(p.Area))
	fmt.Fprintf(w, "  engine calls %s, iterations %d, %s\n\n",
		humanize.Comma(int64(r.Stats.EngineCalls)), r.Stats.Iterations+r.Stats.PolishIterations, r.Elapsed)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "terminal\tfluid\tP [bar]\tT [K]\th [kJ/kg]\tq\tm [kg/s]\t")
	for _, t := range []struct {
		name string
		s    *thermo.Stream
	}{
		{"inlet hot", r.Outcome.InletHot},
		{"outlet hot", r.Outcome.OutletHot},
		{"inlet cold", r.Outcome.InletCold},
		{"outlet cold", r.Outcome.OutletCold},
	} {
		if t.s == nil {
			continue
		}
		pr := t.s.Props
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.3f\t%.3f\t%s\t%.4g\t\n",
			t.name, t.s.FluidName(), pr.P/1e5, pr.T, pr.H/1e3, quality(pr.Q), t.s.MassRate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "i\tT hot [K]\tT cold [K]\tdT [K]\tq hot\tq cold\tduty\t")
	n := len(p.DeltaT)
	for i := 0; i < n; i++ {
		if i%every != 0 && i != n-1 && i != p.PinchIndex {
			continue
		}
		mark := ""
		if i == p.PinchIndex {
			mark = " *"
		}
		fmt.Fprintf(tw, "%d%s\t%.3f\t%.3f\t%.3f\t%s\t%s\t%s\t\n",
			i, mark, p.Hot.T[i], p.Cold.T[i], p.DeltaT[i],
			quality(p.Hot.Q[i]), quality(p.Cold.Q[i]),
			humanize.SIWithDigits(p.Hot.Duty[i], 3, "W"))
	}
	return tw.Flush()
}

func quality(q float64) string {
	if q < 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", q)
}

func siOrInf(v float64, unit string) string {
	if math.IsInf(v, 0) {
		return "inf"
	}
	return humanize.SIWithDigits(v, 4, unit)
}

func areaString(a float64) string {
	if math.IsInf(a, 0) {
		return "inf"
	}
	return humanize.FormatFloat("#,###.##", a) + " m²"
}
