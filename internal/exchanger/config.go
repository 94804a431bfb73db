package exchanger

import (
	"errors"
	"fmt"
)

// TableMode selects how the interpolation surface is sampled.
type TableMode string

const (
	// TablePH samples enthalpy and evaluates temperature with a PH call.
	TablePH TableMode = "PH"
	// TablePT samples temperature and evaluates enthalpy with a PT call.
	TablePT TableMode = "PT"
)

// Upper bounds on the tuning fields. A solve costs O(N) engine calls per
// evaluation and up to ScanPoints+MaxIterations evaluations per search, and
// the tuning block is reachable from untrusted requests.
const (
	MaxElements      = 2000
	MaxScanPoints    = 1000
	MaxIterationsCap = 10000
)

// Config holds the design parameters of one exchanger.
type Config struct {
	DeltaTPinch float64   `mapstructure:"delta_t_pinch" yaml:"delta_t_pinch" json:"delta_t_pinch"` // K
	DeltaPHot   float64   `mapstructure:"delta_p_hot" yaml:"delta_p_hot" json:"delta_p_hot"`       // Pa
	DeltaPCold  float64   `mapstructure:"delta_p_cold" yaml:"delta_p_cold" json:"delta_p_cold"`    // Pa
	N           int       `mapstructure:"n" yaml:"n" json:"n"`
	TAmbient    float64   `mapstructure:"t_ambient" yaml:"t_ambient" json:"t_ambient"` // K
	TMaximum    float64   `mapstructure:"t_maximum" yaml:"t_maximum" json:"t_maximum"` // K
	TableMode   TableMode `mapstructure:"table_mode" yaml:"table_mode" json:"table_mode"`

	// Epsilon is the relative slack on the pinch accepted by validation.
	Epsilon float64 `mapstructure:"epsilon" yaml:"epsilon" json:"epsilon"`
	// ScanPoints is the coarse bracketing resolution.
	ScanPoints int `mapstructure:"scan_points" yaml:"scan_points" json:"scan_points"`
	// Tolerance is the bisection width on the normalised driving variable.
	Tolerance float64 `mapstructure:"tolerance" yaml:"tolerance" json:"tolerance"`
	// MaxIterations caps every bisection loop.
	MaxIterations int `mapstructure:"max_iterations" yaml:"max_iterations" json:"max_iterations"`
	// PolishTolerance is the accepted overshoot of the exact minimum approach
	// above the pinch, K.
	PolishTolerance float64 `mapstructure:"polish_tolerance" yaml:"polish_tolerance" json:"polish_tolerance"`
}

// DefaultConfig returns the defaults used across the cycle models.
func DefaultConfig() Config {
	return Config{
		DeltaTPinch:     5,
		N:               50,
		TAmbient:        288.15,
		TMaximum:        600,
		TableMode:       TablePH,
		Epsilon:         0.01,
		ScanPoints:      10,
		Tolerance:       1e-4,
		MaxIterations:   100,
		PolishTolerance: 5e-3,
	}
}

// WithDefaults fills zero-valued tuning fields from DefaultConfig. Physical
// fields that may legitimately be zero (pinch, pressure drops) are kept.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.N == 0 {
		c.N = d.N
	}
	if c.TAmbient == 0 {
		c.TAmbient = d.TAmbient
	}
	if c.TMaximum == 0 {
		c.TMaximum = d.TMaximum
	}
	if c.TableMode == "" {
		c.TableMode = d.TableMode
	}
	if c.Epsilon == 0 {
		c.Epsilon = d.Epsilon
	}
	if c.ScanPoints == 0 {
		c.ScanPoints = d.ScanPoints
	}
	if c.Tolerance == 0 {
		c.Tolerance = d.Tolerance
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.PolishTolerance == 0 {
		c.PolishTolerance = d.PolishTolerance
	}
	return c
}

// Validate reports every inconsistent parameter.
func (c Config) Validate() error {
	var errs []error
	if c.DeltaTPinch < 0 {
		errs = append(errs, fmt.Errorf("delta_t_pinch must be >= 0, got %g", c.DeltaTPinch))
	}
	if c.DeltaPHot < 0 || c.DeltaPCold < 0 {
		errs = append(errs, fmt.Errorf("pressure drops must be >= 0, got hot=%g cold=%g", c.DeltaPHot, c.DeltaPCold))
	}
	if c.N < 2 || c.N > MaxElements {
		errs = append(errs, fmt.Errorf("n must be in [2, %d], got %d", MaxElements, c.N))
	}
	if c.TAmbient <= 0 || c.TMaximum <= c.TAmbient {
		errs = append(errs, fmt.Errorf("need 0 < t_ambient < t_maximum, got %g and %g", c.TAmbient, c.TMaximum))
	}
	if c.TableMode != TablePH && c.TableMode != TablePT {
		errs = append(errs, fmt.Errorf("table_mode must be PH or PT, got %q", c.TableMode))
	}
	if c.Epsilon < 0 || c.Epsilon >= 1 {
		errs = append(errs, fmt.Errorf("epsilon must be in [0, 1), got %g", c.Epsilon))
	}
	if c.ScanPoints < 2 || c.ScanPoints > MaxScanPoints {
		errs = append(errs, fmt.Errorf("scan_points must be in [2, %d], got %d", MaxScanPoints, c.ScanPoints))
	}
	if c.Tolerance <= 0 || c.PolishTolerance <= 0 {
		errs = append(errs, errors.New("tolerances must be > 0"))
	}
	if c.MaxIterations < 1 || c.MaxIterations > MaxIterationsCap {
		errs = append(errs, fmt.Errorf("max_iterations must be in [1, %d], got %d", MaxIterationsCap, c.MaxIterations))
	}
	return errors.Join(errs...)
}

// pinchFloor is the smallest approach validation accepts.
func (c Config) pinchFloor() float64 {
	return (1 - c.Epsilon) * c.DeltaTPinch
}
