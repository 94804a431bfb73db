package exchanger

import (
	"fmt"

	"geothermal_cycles/internal/thermo"
)

// precheck rejects known terminal pairs that already approach closer than
// the accepted pinch. It runs on the supplied snapshots only, before any
// engine call.
func (r *run) precheck() error {
	floor := r.cfg.pinchFloor()
	pairs := []struct {
		name      string
		hot, cold *thermo.Stream
	}{
		{"inlet hot/inlet cold", r.ih, r.ic},
		{"outlet hot/inlet cold", r.oh, r.ic},
		{"inlet hot/outlet cold", r.ih, r.oc},
	}
	for _, p := range pairs {
		if p.hot == nil || p.cold == nil {
			continue
		}
		if dt := p.hot.Props.T - p.cold.Props.T; dt < floor {
			return fmt.Errorf("%w: %s approach %.4g K below %.4g K", ErrTemperatureCrossing, p.name, dt, floor)
		}
	}
	return nil
}

// postcheck re-validates the extracted profile.
func (r *run) postcheck(prof *SolutionProfile) error {
	n := len(prof.DeltaT)
	if prof.DeltaT[0] <= 0 || prof.DeltaT[n-1] <= 0 {
		return fmt.Errorf("%w: terminal approaches %.4g K and %.4g K",
			ErrTemperatureCrossing, prof.DeltaT[0], prof.DeltaT[n-1])
	}
	if floor := r.cfg.pinchFloor(); prof.MinDeltaT < floor {
		return fmt.Errorf("%w: minimum approach %.4g K at point %d below %.4g K",
			ErrPinchViolation, prof.MinDeltaT, prof.PinchIndex, floor)
	}
	return nil
}
