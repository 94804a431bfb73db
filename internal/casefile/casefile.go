// Package casefile reads exchanger problems from YAML files and prints their
// solutions for the command line.
package casefile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"geothermal_cycles/internal/exchanger"
	"geothermal_cycles/internal/logger"
	"geothermal_cycles/internal/service"

	"gopkg.in/yaml.v3"
)

var errEmptyCase = errors.New("case file is empty")

// Case is one exchanger problem. The terminal and mass_ratio keys sit at the
// top level next to the optional exchanger and u_values sections.
type Case struct {
	Name      string             `yaml:"name"`
	Exchanger exchanger.Config   `yaml:"exchanger"`
	UValues   map[string]float64 `yaml:"u_values,omitempty"`
	UFallback float64            `yaml:"u_fallback,omitempty"`

	Request service.SolveRequest `yaml:",inline"`
}

// Load reads and parses the case file at path.
func Load(path string) (Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Case{}, fmt.Errorf("read case: %w", err)
	}
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Case{}, fmt.Errorf("parse case %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a case. Unknown keys are rejected and omitted exchanger
// parameters keep their defaults.
func Parse(r io.Reader) (Case, error) {
	c := Case{Exchanger: exchanger.DefaultConfig()}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return Case{}, errEmptyCase
		}
		return Case{}, err
	}
	c.applyDefaults()
	if err := c.Exchanger.Validate(); err != nil {
		return Case{}, fmt.Errorf("exchanger: %w", err)
	}
	return c, nil
}

func (c *Case) applyDefaults() {
	c.Exchanger = c.Exchanger.WithDefaults()
	c.Exchanger.TableMode = exchanger.TableMode(strings.ToUpper(string(c.Exchanger.TableMode)))
	if c.Name == "" {
		c.Name = "case"
	}
	if len(c.UValues) > 0 && c.UFallback == 0 {
		c.UFallback = 500
	}
}

func (c Case) utable() *exchanger.UTable {
	if len(c.UValues) == 0 {
		return exchanger.DefaultUTable()
	}
	return exchanger.NewUTable(c.UValues, c.UFallback)
}

// Result is a solved case.
type Result struct {
	Name      string
	Mode      exchanger.Mode
	Outcome   exchanger.Outcome
	Profile   *exchanger.SolutionProfile
	MassRatio float64
	MinDeltaT float64
	Stats     exchanger.Stats
	Elapsed   time.Duration
}

// Solve runs the case on a fresh exchanger.
func Solve(ctx context.Context, c Case, fluids service.FluidLookup, log *logger.Logger) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	log = logger.OrNop(log)

	cfg, err := c.Request.Config(c.Exchanger)
	if err != nil {
		return Result{}, err
	}
	b, err := c.Request.Boundary(fluids)
	if err != nil {
		return Result{}, err
	}
	hx, err := exchanger.New(cfg, exchanger.WithLogger(log.SugaredLogger), exchanger.WithUTable(c.utable()))
	if err != nil {
		return Result{}, err
	}

	started := time.Now()
	if err := hx.SetInputs(b); err != nil {
		return Result{}, err
	}
	out, err := hx.Calc()
	if err != nil {
		return Result{}, err
	}
	return Result{
		Name:      c.Name,
		Mode:      hx.Mode(),
		Outcome:   out,
		Profile:   hx.Profile(),
		MassRatio: hx.MassRatio(),
		MinDeltaT: hx.MinDeltaT(),
		Stats:     hx.Stats(),
		Elapsed:   time.Since(started),
	}, nil
}
