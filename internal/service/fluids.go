package service

import (
	"errors"
	"fmt"
	"strings"

	"geothermal_cycles/internal/fluid"
	"geothermal_cycles/internal/thermo"
)

// ErrUnknownFluid is returned for names that are not registered.
var ErrUnknownFluid = errors.New("unknown fluid")

const defaultFluidCacheSize = 4096

// FluidInfo describes one registered reference fluid.
type FluidInfo struct {
	Name      string  `json:"name" example:"water"`
	MolarMass float64 `json:"molar_mass"` // kg/mol
	TBoil     float64 `json:"t_boil"`     // K at Pref
	PRef      float64 `json:"p_ref"`      // Pa
	TCrit     float64 `json:"t_crit"`     // K
	PCrit     float64 `json:"p_crit"`     // Pa
}

// FluidService serves the registered engines, each behind a shared LRU.
type FluidService struct {
	engines map[string]thermo.Fluid
	infos   []FluidInfo
}

// NewFluidService wraps every registered fluid in a property cache of
// cacheSize entries. A non-positive size means the default.
func NewFluidService(cacheSize int) (*FluidService, error) {
	if cacheSize <= 0 {
		cacheSize = defaultFluidCacheSize
	}
	s := &FluidService{engines: make(map[string]thermo.Fluid)}
	for _, name := range fluid.Names() {
		m, err := fluid.Lookup(name)
		if err != nil {
			return nil, err
		}
		cached, err := thermo.NewCachedFluid(m, cacheSize)
		if err != nil {
			return nil, err
		}
		s.engines[name] = cached
		s.infos = append(s.infos, FluidInfo{
			Name:      m.Label,
			MolarMass: m.MolarMass,
			TBoil:     m.Tref,
			PRef:      m.Pref,
			TCrit:     m.Tcrit,
			PCrit:     m.Pcrit(),
		})
	}
	return s, nil
}

// ListFluids returns the registered fluids in name order.
func (s *FluidService) ListFluids() []FluidInfo {
	return append([]FluidInfo(nil), s.infos...)
}

// LookupFluid returns the cached engine for name (case-insensitive).
func (s *FluidService) LookupFluid(name string) (thermo.Fluid, error) {
	fl, ok := s.engines[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFluid, name)
	}
	return fl, nil
}
