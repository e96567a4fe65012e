package layout

import (
	"testing"

	"github.com/dynacharting/core/command"
	"github.com/dynacharting/core/ids"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/pipeline"
	"github.com/dynacharting/core/scene"
)

func TestSetPanesEqualFractionsSplitEvenly(t *testing.T) {
	m := New(DefaultConfig())
	m.SetPanes([]PaneEntry{{PaneId: 1, Fraction: 1}, {PaneId: 2, Fraction: 1}})

	regions := m.Regions()
	if len(regions) != 2 {
		t.Fatalf("regions = %d, want 2", len(regions))
	}
	h0 := regions[0].ClipYMax - regions[0].ClipYMin
	h1 := regions[1].ClipYMax - regions[1].ClipYMin
	if diff := h0 - h1; diff > 1e-5 || diff < -1e-5 {
		t.Fatalf("pane heights unequal: %v vs %v", h0, h1)
	}
	if regions[0].ClipYMax >= 1 || regions[1].ClipYMin <= -1 {
		t.Fatalf("regions exceed margin bounds: %+v", regions)
	}
}

func TestResizeDividerClampsAtMinFraction(t *testing.T) {
	m := New(DefaultConfig())
	m.SetPanes([]PaneEntry{{PaneId: 1, Fraction: 1}, {PaneId: 2, Fraction: 1}})

	m.ResizeDivider(0, 100) // wildly oversized delta, must clamp
	totalFrac := m.GetFraction(1) + m.GetFraction(2)
	minAllowed := m.config.MinFraction * totalFrac
	if m.GetFraction(2) < minAllowed-1e-5 {
		t.Fatalf("below pane fraction = %v, want >= %v", m.GetFraction(2), minAllowed)
	}
}

func TestDividerCountAndClipY(t *testing.T) {
	m := New(DefaultConfig())
	if m.DividerCount() != 0 {
		t.Fatalf("divider count with no panes = %d, want 0", m.DividerCount())
	}
	m.SetPanes([]PaneEntry{{PaneId: 1, Fraction: 1}, {PaneId: 2, Fraction: 1}, {PaneId: 3, Fraction: 1}})
	if m.DividerCount() != 2 {
		t.Fatalf("divider count = %d, want 2", m.DividerCount())
	}
	y := m.DividerClipY(0)
	regions := m.Regions()
	if y <= regions[1].ClipYMax || y >= regions[0].ClipYMin {
		t.Fatalf("divider 0 clipY = %v, want between pane0.min(%v) and pane1.max(%v)", y, regions[0].ClipYMin, regions[1].ClipYMax)
	}
}

func TestApplyLayoutIssuesSetPaneRegionPerPane(t *testing.T) {
	sc := scene.New()
	cp := command.New(ids.New(), sc, pipeline.NewDefaultCatalog())
	r := cp.Process([]byte(`{"cmd":"createPane","id":1}`))
	if !r.Ok {
		t.Fatalf("createPane: %v", r.Err)
	}

	m := New(DefaultConfig())
	m.SetPanes([]PaneEntry{{PaneId: dcerr.Id(1), Fraction: 1}})
	m.ApplyLayout(cp)

	p, ok := sc.GetPane(dcerr.Id(1))
	if !ok {
		t.Fatalf("pane 1 missing")
	}
	want := m.Regions()[0]
	if p.Region != want {
		t.Fatalf("pane region = %+v, want %+v", p.Region, want)
	}
}
