package thermo

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

type evalKey struct {
	spec   Spec
	v1, v2 float64
}

// CachedFluid memoises successful evaluations of an expensive engine.
// Failed evaluations are not cached. Callers get their own copy of the
// sub-phase states, so mutating a result never reaches the cache.
type CachedFluid struct {
	inner Fluid
	cache *lru.Cache[evalKey, Properties]
}

// NewCachedFluid wraps inner with an LRU of the given size.
func NewCachedFluid(inner Fluid, size int) (*CachedFluid, error) {
	c, err := lru.New[evalKey, Properties](size)
	if err != nil {
		return nil, fmt.Errorf("property cache for %s: %w", inner.Name(), err)
	}
	return &CachedFluid{inner: inner, cache: c}, nil
}

func (c *CachedFluid) Name() string { return c.inner.Name() }

func (c *CachedFluid) Evaluate(spec Spec, v1, v2 float64) (Properties, error) {
	k := evalKey{spec: spec, v1: v1, v2: v2}
	if p, ok := c.cache.Get(k); ok {
		return p.clone(), nil
	}
	p, err := c.inner.Evaluate(spec, v1, v2)
	if err != nil {
		return Properties{}, err
	}
	c.cache.Add(k, p.clone())
	return p, nil
}

// Len reports the number of cached states.
func (c *CachedFluid) Len() int { return c.cache.Len() }

// CountingFluid counts calls reaching the wrapped engine.
type CountingFluid struct {
	inner Fluid
	calls atomic.Int64
}

func NewCountingFluid(inner Fluid) *CountingFluid {
	return &CountingFluid{inner: inner}
}

func (c *CountingFluid) Name() string { return c.inner.Name() }

func (c *CountingFluid) Evaluate(spec Spec, v1, v2 float64) (Properties, error) {
	c.calls.Add(1)
	return c.inner.Evaluate(spec, v1, v2)
}

// Calls returns the number of Evaluate calls so far.
func (c *CountingFluid) Calls() int64 { return c.calls.Load() }

// Reset zeroes the counter.
func (c *CountingFluid) Reset() { c.calls.Store(0) }
