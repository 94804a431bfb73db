package exchanger

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by SetInputs or Calc matches exactly one
// of these through errors.Is, or wraps an engine error (thermo.ErrInfeasibleState).
var (
	ErrInsufficientBoundaryConditions  = errors.New("exchanger: insufficient boundary conditions")
	ErrOverspecifiedBoundaryConditions = errors.New("exchanger: overspecified boundary conditions")
	ErrInvalidBoundary                 = errors.New("exchanger: invalid boundary condition")
	ErrUnsupportedCalculationMode      = errors.New("exchanger: unsupported calculation mode")
	ErrTemperatureCrossing             = errors.New("exchanger: temperature crossing")
	ErrPinchInfeasible                 = errors.New("exchanger: pinch infeasible")
	ErrPinchViolation                  = errors.New("exchanger: pinch violation")
	ErrNoConvergence                   = errors.New("exchanger: search did not converge")
)

// SolveError records where in the solve a failure happened.
type SolveError struct {
	Mode  Mode
	Stage string
	Err   error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("exchanger %s: %s: %v", e.Mode, e.Stage, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }

func fail(mode Mode, stage string, err error) error {
	var se *SolveError
	if errors.As(err, &se) {
		return err
	}
	return &SolveError{Mode: mode, Stage: stage, Err: err}
}

// Kind returns the short name of the failure kind wrapped by err, or
// "internal" when none matches.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientBoundaryConditions):
		return "insufficient_boundary_conditions"
	case errors.Is(err, ErrOverspecifiedBoundaryConditions):
		return "overspecified_boundary_conditions"
	case errors.Is(err, ErrInvalidBoundary):
		return "invalid_boundary"
	case errors.Is(err, ErrUnsupportedCalculationMode):
		return "unsupported_calculation_mode"
	case errors.Is(err, ErrTemperatureCrossing):
		return "temperature_crossing"
	case errors.Is(err, ErrPinchInfeasible):
		return "pinch_infeasible"
	case errors.Is(err, ErrPinchViolation):
		return "pinch_violation"
	case errors.Is(err, ErrNoConvergence):
		return "no_convergence"
	case isInfeasibleState(err):
		return "infeasible_state"
	default:
		return "internal"
	}
}
