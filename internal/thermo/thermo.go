// Package thermo defines the boundary to the fluid Property Engine and the
// Stream value passed between plant components.
//
// Units are SI throughout: P in Pa, T in K, H in J/kg, S in J/(kg·K),
// D in kg/m³, Mr in kg/mol. Q is the vapour mass fraction; -1 marks a
// single-phase state.
package thermo

import (
	"errors"
	"fmt"
	"strings"
)

// Spec names the two independent variables of an Evaluate call.
type Spec string

const (
	PT Spec = "PT"
	PH Spec = "PH"
	PS Spec = "PS"
	PQ Spec = "PQ"
	TQ Spec = "TQ"
)

// SinglePhase is the quality reported outside the two-phase dome.
const SinglePhase = -1.0

// ErrInfeasibleState is returned (wrapped) by engines when the requested
// state does not exist, e.g. a PQ spec above the critical temperature.
var ErrInfeasibleState = errors.New("thermo: infeasible state")

// Phase is a saturated sub-phase snapshot of a two-phase state.
type Phase struct {
	T float64
	H float64
	S float64
	D float64
}

// Properties is a full state snapshot.
type Properties struct {
	P  float64
	T  float64
	H  float64
	S  float64
	D  float64
	Q  float64
	Mr float64

	Liquid *Phase // set only for two-phase states
	Vapour *Phase
}

// TwoPhase reports whether the state lies strictly inside the dome.
func (p Properties) TwoPhase() bool {
	return p.Q > 0 && p.Q < 1
}

// clone returns p with its own copies of the sub-phase states.
func (p Properties) clone() Properties {
	if p.Liquid != nil {
		l := *p.Liquid
		p.Liquid = &l
	}
	if p.Vapour != nil {
		v := *p.Vapour
		p.Vapour = &v
	}
	return p
}

// Fluid is the Property Engine for one composition.
type Fluid interface {
	Name() string
	Evaluate(spec Spec, v1, v2 float64) (Properties, error)
}

// InfeasibleError builds an error wrapping ErrInfeasibleState.
func InfeasibleError(fluid string, spec Spec, v1, v2 float64, reason string) error {
	return fmt.Errorf("%w: %s %s(%g, %g): %s", ErrInfeasibleState, fluid, spec, v1, v2, reason)
}

// ParseSpec accepts a spec name in any case.
func ParseSpec(s string) (Spec, error) {
	switch sp := Spec(strings.ToUpper(strings.TrimSpace(s))); sp {
	case PT, PH, PS, PQ, TQ:
		return sp, nil
	default:
		return "", fmt.Errorf("thermo: unknown spec %q", s)
	}
}
