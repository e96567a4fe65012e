package resolution

import "testing"

func TestTierSwitchScenario(t *testing.T) {
	c := NewDefault()

	if changed := c.Evaluate(20); changed {
		t.Fatalf("first Evaluate should never itself report a change")
	}
	if c.Tier().Name != "Raw" {
		t.Fatalf("tier at ppdu=20 = %s, want Raw", c.Tier().Name)
	}

	changed := c.Evaluate(4)
	if !changed {
		t.Fatalf("expected tier change at ppdu=4")
	}
	if c.Tier().Name != "Agg2x" {
		t.Fatalf("tier at ppdu=4 = %s, want Agg2x", c.Tier().Name)
	}
	if c.Factor() != 2 {
		t.Fatalf("factor = %d, want 2", c.Factor())
	}
}

func TestHysteresisPreventsFlutter(t *testing.T) {
	c := NewDefault()
	c.Evaluate(8.5) // settle on Raw (threshold 8)

	// ppdu dips just under 8 but within the hysteresis margin of the current
	// tier's threshold -- should NOT flip yet.
	if changed := c.Evaluate(7.8); changed {
		t.Fatalf("tier flipped within hysteresis margin")
	}
	if c.Tier().Name != "Raw" {
		t.Fatalf("tier after small dip = %s, want Raw (hysteresis should hold)", c.Tier().Name)
	}

	// A larger dip crosses the margin and should flip.
	if changed := c.Evaluate(5); !changed {
		t.Fatalf("expected tier flip on larger dip")
	}
}

func TestEvaluateStableReturnsFalse(t *testing.T) {
	c := NewDefault()
	c.Evaluate(20)
	if changed := c.Evaluate(19); changed {
		t.Fatalf("Evaluate on a stable ppdu reported a change")
	}
}
