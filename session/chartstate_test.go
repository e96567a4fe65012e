package session

import (
	"math"
	"testing"

	"github.com/dynacharting/core/command"
	"github.com/dynacharting/core/drawing"
	"github.com/dynacharting/core/ids"
	"github.com/dynacharting/core/ingest"
	"github.com/dynacharting/core/ingestloop"
	"github.com/dynacharting/core/interaction"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/pipeline"
	"github.com/dynacharting/core/recipe"
	"github.com/dynacharting/core/scene"
	"github.com/dynacharting/core/viewport"
)

func newTestSessionWithViewport(t *testing.T) (*Session, dcerr.Id) {
	t.Helper()
	sc := scene.New()
	cp := command.New(ids.New(), sc, pipeline.NewDefaultCatalog())
	ing := ingest.New()
	loop := ingestloop.New()

	if r := cp.Process([]byte(`{"cmd":"createPane","id":1,"name":"main"}`)); !r.Ok {
		t.Fatalf("createPane: %v", r.Err)
	}
	if r := cp.Process([]byte(`{"cmd":"createLayer","id":2,"paneId":1,"name":"price"}`)); !r.Ok {
		t.Fatalf("createLayer: %v", r.Err)
	}

	s := New(cp, ing, loop, nil, DefaultChartSessionConfig())
	r := recipe.NewCandleSeriesRecipe(100, recipe.DefaultCandleSeriesConfig(2, "BTC-USD"))
	handle, err := s.Mount(r, dcerr.InvalidId)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	_ = handle

	vp := viewport.New(
		viewport.PixelSize{W: 800, H: 600},
		scene.Region{ClipXMin: -1, ClipXMax: 1, ClipYMin: -1, ClipYMax: 1},
		viewport.DataRange{XMin: 10, XMax: 210.00001, YMin: 90, YMax: 110},
	)
	s.AttachViewport(1, vp, r.TransformId(), true)

	return s, r.BufferId()
}

func floatsClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-5
}

func TestChartStateRoundTripsThroughJSON(t *testing.T) {
	s, _ := newTestSessionWithViewport(t)

	store := drawing.New()
	store.AddTrendline(0, 100, 50, 105)
	store.AddHorizontalLevel(102.5)

	sel := interaction.NewSelectionState()
	sel.SetRecordCount(2, 5)
	sel.Select(interaction.SelectionKey{DrawItemId: 2, RecordIndex: 3})

	before, err := s.Snapshot(store, sel, "BTC-USD", "1H")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	encoded, err := SerializeChartState(before)
	if err != nil {
		t.Fatalf("SerializeChartState: %v", err)
	}

	after, err := DeserializeChartState(encoded)
	if err != nil {
		t.Fatalf("DeserializeChartState: %v", err)
	}

	if after.Version != before.Version {
		t.Fatalf("version = %q, want %q", after.Version, before.Version)
	}
	if after.Symbol != before.Symbol || after.Timeframe != before.Timeframe {
		t.Fatalf("symbol/timeframe = %q/%q, want %q/%q", after.Symbol, after.Timeframe, before.Symbol, before.Timeframe)
	}
	if len(after.Viewports) != len(before.Viewports) {
		t.Fatalf("viewports = %d, want %d", len(after.Viewports), len(before.Viewports))
	}
	for i := range before.Viewports {
		bv, av := before.Viewports[i], after.Viewports[i]
		if bv.PaneId != av.PaneId ||
			!floatsClose(bv.XMin, av.XMin) || !floatsClose(bv.XMax, av.XMax) ||
			!floatsClose(bv.YMin, av.YMin) || !floatsClose(bv.YMax, av.YMax) {
			t.Fatalf("viewport[%d] = %+v, want %+v", i, av, bv)
		}
	}
	if len(after.Selection) != len(before.Selection) || after.Selection[0] != before.Selection[0] {
		t.Fatalf("selection = %+v, want %+v", after.Selection, before.Selection)
	}
	if string(after.DrawingsJSON) == "" {
		t.Fatalf("drawings JSON lost across round-trip")
	}

	restoredStore := drawing.New()
	restoredSel := interaction.NewSelectionState()
	if err := s.Restore(after, restoredStore, restoredSel); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if restoredStore.Count() != store.Count() {
		t.Fatalf("restored drawing count = %d, want %d", restoredStore.Count(), store.Count())
	}
	for _, want := range store.Drawings() {
		got, ok := restoredStore.Get(want.Id)
		if !ok {
			t.Fatalf("drawing %d missing after restore", want.Id)
		}
		if got.Type != want.Type ||
			!floatsClose(got.X0, want.X0) || !floatsClose(got.Y0, want.Y0) ||
			!floatsClose(got.X1, want.X1) || !floatsClose(got.Y1, want.Y1) {
			t.Fatalf("drawing %d = %+v, want %+v", want.Id, got, want)
		}
	}

	if !restoredSel.IsSelected(interaction.SelectionKey{DrawItemId: 2, RecordIndex: 3}) {
		t.Fatalf("expected selection restored")
	}

	restoredVp := s.Viewports()[0].Viewport.DataRange()
	wantVp := before.Viewports[0]
	if !floatsClose(restoredVp.XMin, wantVp.XMin) || !floatsClose(restoredVp.XMax, wantVp.XMax) {
		t.Fatalf("viewport not restored: %+v, want x=[%v,%v]", restoredVp, wantVp.XMin, wantVp.XMax)
	}
}

func TestDeserializeChartStateRejectsMalformedJSON(t *testing.T) {
	if _, err := DeserializeChartState("{not json"); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestSnapshotOmitsDrawingsAndSelectionWhenNil(t *testing.T) {
	s, _ := newTestSessionWithViewport(t)

	state, err := s.Snapshot(nil, nil, "", "")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if state.DrawingsJSON != nil {
		t.Fatalf("expected nil DrawingsJSON, got %s", state.DrawingsJSON)
	}
	if len(state.Selection) != 0 {
		t.Fatalf("expected empty selection, got %+v", state.Selection)
	}

	if err := s.Restore(state, nil, nil); err != nil {
		t.Fatalf("Restore with nil stores: %v", err)
	}
}
