package fluid

import (
	"fmt"
	"sort"
	"strings"
)

const atm = 101325.0

// Reference parameter sets. Latent heats and heat capacities are constant
// averages over the usual geothermal range, not critical-region fits.
var (
	Water = Model{
		Label:     "water",
		MolarMass: 0.018015,
		Tref:      373.124,
		Pref:      atm,
		Hfg:       2.257e6,
		CpL:       4186,
		CpV:       2010,
		RhoL:      958,
		Tcrit:     647.096,
	}
	NButane = Model{
		Label:     "n-butane",
		MolarMass: 0.05812,
		Tref:      272.66,
		Pref:      atm,
		Hfg:       3.85e5,
		CpL:       2400,
		CpV:       1700,
		RhoL:      601,
		Tcrit:     425.125,
	}
	Isopentane = Model{
		Label:     "isopentane",
		MolarMass: 0.07215,
		Tref:      300.98,
		Pref:      atm,
		Hfg:       3.43e5,
		CpL:       2280,
		CpV:       1660,
		RhoL:      616,
		Tcrit:     460.35,
	}
	Ammonia = Model{
		Label:     "ammonia",
		MolarMass: 0.017031,
		Tref:      239.82,
		Pref:      atm,
		Hfg:       1.37e6,
		CpL:       4700,
		CpV:       2200,
		RhoL:      682,
		Tcrit:     405.4,
	}
)

var registry = map[string]Model{
	Water.Label:      Water,
	NButane.Label:    NButane,
	Isopentane.Label: Isopentane,
	Ammonia.Label:    Ammonia,
}

// Lookup returns the reference model registered under name (case-insensitive).
func Lookup(name string) (Model, error) {
	m, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Model{}, fmt.Errorf("unknown fluid %q", name)
	}
	return m, nil
}

// Names lists registered fluids in alphabetical order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
