package thermo

import (
	"errors"
	"testing"
)

// stubFluid has T = h/1000 and fails every spec except PH.
type stubFluid struct{ calls int }

func (s *stubFluid) Name() string { return "stub" }

func (s *stubFluid) Evaluate(spec Spec, v1, v2 float64) (Properties, error) {
	s.calls++
	if spec != PH {
		return Properties{}, InfeasibleError("stub", spec, v1, v2, "PH only")
	}
	p := Properties{P: v1, H: v2, T: v2 / 1000, Q: 0.5}
	p.Liquid = &Phase{T: p.T, H: v2 - 1}
	p.Vapour = &Phase{T: p.T, H: v2 + 1}
	return p, nil
}

func TestStream_UpdateKeepsSnapshotOnError(t *testing.T) {
	s, err := NewStream(&stubFluid{}, 2, PH, 1e5, 300e3)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	if err := s.Update(PT, 1e5, 400); !errors.Is(err, ErrInfeasibleState) {
		t.Fatalf("got %v", err)
	}
	if s.Props.T != 300 {
		t.Fatalf("snapshot changed on failed update: %g", s.Props.T)
	}
	if !s.Props.TwoPhase() {
		t.Fatalf("quality 0.5 should be two-phase")
	}
}

func TestStream_CopyIsIndependent(t *testing.T) {
	s, err := NewStream(&stubFluid{}, 2, PH, 1e5, 300e3)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	c := s.Copy()
	c.MassRate = 7
	c.Props.Liquid.H = -1
	c.Props.T = 1
	if s.MassRate != 2 || s.Props.Liquid.H == -1 || s.Props.T != 300 {
		t.Fatalf("copy aliases the original: %+v", s)
	}
	var nilStream *Stream
	if nilStream.Copy() != nil || nilStream.FluidName() != "" {
		t.Fatalf("nil stream helpers")
	}
}

func TestStream_NoFluid(t *testing.T) {
	s := &Stream{}
	if err := s.Update(PH, 1, 1); err == nil {
		t.Fatalf("expected error without a fluid")
	}
}

func TestCachedFluid_MemoisesSuccessOnly(t *testing.T) {
	inner := &stubFluid{}
	c, err := NewCachedFluid(inner, 8)
	if err != nil {
		t.Fatalf("NewCachedFluid: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := c.Evaluate(PH, 1e5, 1e3); err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
	}
	if inner.calls != 1 || c.Len() != 1 {
		t.Fatalf("inner calls %d, cached %d", inner.calls, c.Len())
	}
	for i := 0; i < 2; i++ {
		if _, err := c.Evaluate(PQ, 1e5, 0); err == nil {
			t.Fatalf("expected error")
		}
	}
	if inner.calls != 3 || c.Len() != 1 {
		t.Fatalf("errors were cached: calls %d, len %d", inner.calls, c.Len())
	}
	if c.Name() != "stub" {
		t.Fatalf("name %q", c.Name())
	}
}

func TestCachedFluid_ResultsDoNotAliasCache(t *testing.T) {
	c, err := NewCachedFluid(&stubFluid{}, 8)
	if err != nil {
		t.Fatalf("NewCachedFluid: %v", err)
	}
	first, err := c.Evaluate(PH, 1e5, 300e3)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	first.Liquid.H = -1
	first.Vapour.T = -1

	hit, err := c.Evaluate(PH, 1e5, 300e3)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if hit.Liquid.H != 300e3-1 || hit.Vapour.T != 300 {
		t.Fatalf("cached phases mutated through a miss result: %+v %+v", *hit.Liquid, *hit.Vapour)
	}
	hit.Liquid.H = -2

	again, _ := c.Evaluate(PH, 1e5, 300e3)
	if again.Liquid.H != 300e3-1 || again.Liquid == hit.Liquid {
		t.Fatalf("cached phases shared with a hit result")
	}
}

func TestCachedFluid_RejectsBadSize(t *testing.T) {
	if _, err := NewCachedFluid(&stubFluid{}, 0); err == nil {
		t.Fatalf("expected error for size 0")
	}
}

func TestCountingFluid(t *testing.T) {
	c := NewCountingFluid(&stubFluid{})
	_, _ = c.Evaluate(PH, 1, 1)
	_, _ = c.Evaluate(PT, 1, 1)
	if c.Calls() != 2 {
		t.Fatalf("calls %d", c.Calls())
	}
	c.Reset()
	if c.Calls() != 0 {
		t.Fatalf("reset")
	}
}

func TestParseSpec(t *testing.T) {
	for in, want := range map[string]Spec{"pt": PT, " PH ": PH, "tq": TQ} {
		got, err := ParseSpec(in)
		if err != nil || got != want {
			t.Fatalf("ParseSpec(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseSpec("HS"); err == nil {
		t.Fatalf("expected error for HS")
	}
}
