package exchanger

import (
	"fmt"
	"math/bits"

	"geothermal_cycles/internal/thermo"
)

// Boundary is the set of supplied boundary conditions. A nil field is unknown.
type Boundary struct {
	MassRatio  *float64
	InletHot   *thermo.Stream
	OutletHot  *thermo.Stream
	InletCold  *thermo.Stream
	OutletCold *thermo.Stream
}

// Ratio is a helper for filling Boundary.MassRatio.
func Ratio(v float64) *float64 { return &v }

// Known returns the number of supplied entries.
func (b Boundary) Known() int {
	return 5 - bits.OnesCount8(uint8(b.unknowns()))
}

func (b Boundary) unknowns() unknownSet {
	var u unknownSet
	if b.MassRatio == nil {
		u |= unknownRatio
	}
	if b.InletHot == nil {
		u |= unknownInletHot
	}
	if b.OutletHot == nil {
		u |= unknownOutletHot
	}
	if b.InletCold == nil {
		u |= unknownInletCold
	}
	if b.OutletCold == nil {
		u |= unknownOutletCold
	}
	return u
}

func (b Boundary) copy() Boundary {
	c := Boundary{
		InletHot:   b.InletHot.Copy(),
		OutletHot:  b.OutletHot.Copy(),
		InletCold:  b.InletCold.Copy(),
		OutletCold: b.OutletCold.Copy(),
	}
	if b.MassRatio != nil {
		c.MassRatio = Ratio(*b.MassRatio)
	}
	return c
}

func (b Boundary) validate() error {
	switch n := b.Known(); {
	case n < 2:
		return fmt.Errorf("%w: %d of 5 known, need at least 2", ErrInsufficientBoundaryConditions, n)
	case n > 4:
		return fmt.Errorf("%w: all 5 known, at most 4 allowed", ErrOverspecifiedBoundaryConditions)
	}
	if b.MassRatio != nil && !(*b.MassRatio > 0) {
		return fmt.Errorf("%w: mass ratio must be positive, got %g", ErrInvalidBoundary, *b.MassRatio)
	}
	for name, s := range map[string]*thermo.Stream{
		"inlet hot":   b.InletHot,
		"outlet hot":  b.OutletHot,
		"inlet cold":  b.InletCold,
		"outlet cold": b.OutletCold,
	} {
		if s != nil && s.Fluid == nil {
			return fmt.Errorf("%w: %s stream has no fluid", ErrInvalidBoundary, name)
		}
	}
	if b.InletHot != nil || b.OutletHot != nil {
		if hotMassRate(b) <= 0 {
			return fmt.Errorf("%w: hot mass rate must be positive", ErrInvalidBoundary)
		}
	}
	return nil
}

func hotMassRate(b Boundary) float64 {
	if b.InletHot != nil && b.InletHot.MassRate > 0 {
		return b.InletHot.MassRate
	}
	if b.OutletHot != nil {
		return b.OutletHot.MassRate
	}
	return 0
}

type unknownSet uint8

const (
	unknownRatio unknownSet = 1 << iota
	unknownInletHot
	unknownOutletHot
	unknownInletCold
	unknownOutletCold
)

// Mode is the calculation mode selected from the pattern of unknowns.
type Mode int

const (
	ModeUndetermined Mode = iota
	ModeR
	ModeTih
	ModeToh
	ModeTic
	ModeToc
	ModeTohToc
	ModeTohTic
	ModeRToc
	ModeRTic
	ModeRToh
	ModeRTih
	ModeTihTic
	ModeTihToc
)

var modeNames = map[Mode]string{
	ModeUndetermined: "Undetermined",
	ModeR:            "R",
	ModeTih:          "Tih",
	ModeToh:          "Toh",
	ModeTic:          "Tic",
	ModeToc:          "Toc",
	ModeTohToc:       "Toh_Toc",
	ModeTohTic:       "Toh_Tic",
	ModeRToc:         "R_Toc",
	ModeRTic:         "R_Tic",
	ModeRToh:         "R_Toh",
	ModeRTih:         "R_Tih",
	ModeTihTic:       "Tih_Tic",
	ModeTihToc:       "Tih_Toc",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Supported reports whether Calc has a strategy for the mode.
func (m Mode) Supported() bool {
	_, ok := strategies[m]
	return ok
}

// Search reports whether the mode needs the pinch search.
func (m Mode) Search() bool {
	switch m {
	case ModeTohToc, ModeTohTic, ModeRToc, ModeRTic, ModeRToh, ModeRTih:
		return true
	}
	return false
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeUndetermined, fmt.Errorf("unknown calculation mode %q", s)
}

var modeByUnknowns = map[unknownSet]Mode{
	unknownRatio:                         ModeR,
	unknownInletHot:                      ModeTih,
	unknownOutletHot:                     ModeToh,
	unknownInletCold:                     ModeTic,
	unknownOutletCold:                    ModeToc,
	unknownOutletHot | unknownOutletCold: ModeTohToc,
	unknownOutletHot | unknownInletCold:  ModeTohTic,
	unknownRatio | unknownOutletCold:     ModeRToc,
	unknownRatio | unknownInletCold:      ModeRTic,
	unknownRatio | unknownOutletHot:      ModeRToh,
	unknownRatio | unknownInletHot:       ModeRTih,
	unknownInletHot | unknownInletCold:   ModeTihTic,
	unknownInletHot | unknownOutletCold:  ModeTihToc,
}

// ResolveMode maps a boundary set to its calculation mode. Patterns with no
// named strategy, such as a whole side unknown, resolve to ModeUndetermined.
func ResolveMode(b Boundary) Mode {
	if m, ok := modeByUnknowns[b.unknowns()]; ok {
		return m
	}
	return ModeUndetermined
}
