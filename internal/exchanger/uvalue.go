package exchanger

// PhaseKind classifies one side of an exchanger segment for U-value lookup.
type PhaseKind string

const (
	PhaseLiquid        PhaseKind = "liquid"
	PhaseTwoPhase      PhaseKind = "twophase"
	PhaseVapour        PhaseKind = "vapour"
	PhaseSupercritical PhaseKind = "supercritical"
)

// UTable maps (hot phase, cold phase) to an overall heat-transfer
// coefficient in W/(m²·K). It is immutable after construction and safe to
// share between exchangers.
type UTable struct {
	values   map[string]float64
	fallback float64
}

// NewUTable copies entries keyed "hot/cold", e.g. "twophase/liquid".
func NewUTable(entries map[string]float64, fallback float64) *UTable {
	values := make(map[string]float64, len(entries))
	for k, v := range entries {
		values[k] = v
	}
	return &UTable{values: values, fallback: fallback}
}

// DefaultUTable holds typical shell-and-tube values for geothermal service.
func DefaultUTable() *UTable {
	return NewUTable(map[string]float64{
		"liquid/liquid":     900,
		"liquid/twophase":   1100,
		"liquid/vapour":     300,
		"twophase/liquid":   1200,
		"twophase/twophase": 1600,
		"twophase/vapour":   350,
		"vapour/liquid":     250,
		"vapour/twophase":   300,
		"vapour/vapour":     150,
	}, 500)
}

// Lookup returns U for the pair, or the fallback when the pair is unknown.
func (u *UTable) Lookup(hot, cold PhaseKind) float64 {
	if u == nil {
		return 0
	}
	if v, ok := u.values[string(hot)+"/"+string(cold)]; ok {
		return v
	}
	return u.fallback
}

// Entries returns a copy of the table.
func (u *UTable) Entries() map[string]float64 {
	out := make(map[string]float64, len(u.values))
	for k, v := range u.values {
		out[k] = v
	}
	return out
}
