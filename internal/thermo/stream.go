package thermo

import (
	"errors"
	"fmt"
)

var errNoFluid = errors.New("thermo: stream has no fluid")

// Stream is a fluid, its mass rate (kg/s) and a cached property snapshot.
// Treat it as a value: hand out Copy() rather than sharing pointers.
type Stream struct {
	Fluid    Fluid
	MassRate float64
	Props    Properties
}

// NewStream evaluates the initial state of a stream.
func NewStream(fluid Fluid, massRate float64, spec Spec, v1, v2 float64) (*Stream, error) {
	s := &Stream{Fluid: fluid, MassRate: massRate}
	if err := s.Update(spec, v1, v2); err != nil {
		return nil, err
	}
	return s, nil
}

// Update re-evaluates the snapshot through the Property Engine. On error the
// previous snapshot is left untouched.
func (s *Stream) Update(spec Spec, v1, v2 float64) error {
	if s.Fluid == nil {
		return errNoFluid
	}
	p, err := s.Fluid.Evaluate(spec, v1, v2)
	if err != nil {
		return fmt.Errorf("update %s stream: %w", s.Fluid.Name(), err)
	}
	s.Props = p
	return nil
}

// Copy returns an independent stream. The fluid is shared; engines are
// side-effect free.
func (s *Stream) Copy() *Stream {
	if s == nil {
		return nil
	}
	c := *s
	c.Props = s.Props.clone()
	return &c
}

// FluidName returns the fluid name or "" for a nil stream.
func (s *Stream) FluidName() string {
	if s == nil || s.Fluid == nil {
		return ""
	}
	return s.Fluid.Name()
}
