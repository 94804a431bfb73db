package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"geothermal_cycles/internal/exchanger"
	"geothermal_cycles/internal/thermo"
)

// ErrInvalidRequest marks a request that could not be turned into a
// boundary set or config. The solve never started.
var ErrInvalidRequest = errors.New("invalid solve request")

// StatePoint fixes one terminal stream. V1 and V2 follow Spec, e.g. PT is
// pressure (Pa) then temperature (K).
type StatePoint struct {
	Fluid    string  `json:"fluid" yaml:"fluid" example:"water"`
	Spec     string  `json:"spec" yaml:"spec" example:"PT"`
	V1       float64 `json:"v1" yaml:"v1" example:"1500000"`
	V2       float64 `json:"v2" yaml:"v2" example:"453.15"`
	MassRate float64 `json:"mass_rate,omitempty" yaml:"mass_rate,omitempty" example:"50"` // kg/s, hot side only
}

// Tuning overrides exchanger parameters for one request.
type Tuning struct {
	DeltaTPinch *float64 `json:"delta_t_pinch,omitempty" yaml:"delta_t_pinch,omitempty"`
	DeltaPHot   *float64 `json:"delta_p_hot,omitempty" yaml:"delta_p_hot,omitempty"`
	DeltaPCold  *float64 `json:"delta_p_cold,omitempty" yaml:"delta_p_cold,omitempty"`
	N           *int     `json:"n,omitempty" yaml:"n,omitempty"`
	TAmbient    *float64 `json:"t_ambient,omitempty" yaml:"t_ambient,omitempty"`
	TMaximum    *float64 `json:"t_maximum,omitempty" yaml:"t_maximum,omitempty"`
	TableMode   string   `json:"table_mode,omitempty" yaml:"table_mode,omitempty"`
}

// SolveRequest is one exchanger problem. Omitted terminals and an omitted
// mass ratio are the unknowns.
type SolveRequest struct {
	MassRatio  *float64    `json:"mass_ratio,omitempty" yaml:"mass_ratio,omitempty"`
	InletHot   *StatePoint `json:"inlet_hot,omitempty" yaml:"inlet_hot,omitempty"`
	OutletHot  *StatePoint `json:"outlet_hot,omitempty" yaml:"outlet_hot,omitempty"`
	InletCold  *StatePoint `json:"inlet_cold,omitempty" yaml:"inlet_cold,omitempty"`
	OutletCold *StatePoint `json:"outlet_cold,omitempty" yaml:"outlet_cold,omitempty"`
	Tuning     *Tuning     `json:"tuning,omitempty" yaml:"tuning,omitempty"`
}

// FluidLookup resolves fluid names to Property Engines.
type FluidLookup interface {
	LookupFluid(name string) (thermo.Fluid, error)
}

// Boundary evaluates the given state points into streams.
func (r SolveRequest) Boundary(fluids FluidLookup) (exchanger.Boundary, error) {
	var (
		b   exchanger.Boundary
		err error
	)
	b.MassRatio = r.MassRatio
	if b.InletHot, err = r.InletHot.stream(fluids, "inlet_hot"); err != nil {
		return exchanger.Boundary{}, err
	}
	if b.OutletHot, err = r.OutletHot.stream(fluids, "outlet_hot"); err != nil {
		return exchanger.Boundary{}, err
	}
	if b.InletCold, err = r.InletCold.stream(fluids, "inlet_cold"); err != nil {
		return exchanger.Boundary{}, err
	}
	if b.OutletCold, err = r.OutletCold.stream(fluids, "outlet_cold"); err != nil {
		return exchanger.Boundary{}, err
	}
	return b, nil
}

func (p *StatePoint) stream(fluids FluidLookup, name string) (*thermo.Stream, error) {
	if p == nil {
		return nil, nil
	}
	fl, err := fluids.LookupFluid(p.Fluid)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, name, err)
	}
	spec, err := thermo.ParseSpec(p.Spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, name, err)
	}
	s, err := thermo.NewStream(fl, p.MassRate, spec, p.V1, p.V2)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, name, err)
	}
	return s, nil
}

// Config applies the request tuning on top of base.
func (r SolveRequest) Config(base exchanger.Config) (exchanger.Config, error) {
	cfg := base
	t := r.Tuning
	if t == nil {
		return cfg, nil
	}
	if t.DeltaTPinch != nil {
		cfg.DeltaTPinch = *t.DeltaTPinch
	}
	if t.DeltaPHot != nil {
		cfg.DeltaPHot = *t.DeltaPHot
	}
	if t.DeltaPCold != nil {
		cfg.DeltaPCold = *t.DeltaPCold
	}
	if t.N != nil {
		cfg.N = *t.N
	}
	if t.TAmbient != nil {
		cfg.TAmbient = *t.TAmbient
	}
	if t.TMaximum != nil {
		cfg.TMaximum = *t.TMaximum
	}
	if t.TableMode != "" {
		cfg.TableMode = exchanger.TableMode(strings.ToUpper(strings.TrimSpace(t.TableMode)))
	}
	if err := cfg.WithDefaults().Validate(); err != nil {
		return exchanger.Config{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return cfg, nil
}

// RunFilter supports history filtering by time range and status.
type RunFilter struct {
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Status string    // "", "ok", "failed"
}
