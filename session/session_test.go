package session

import (
	"testing"

	"github.com/dynacharting/core/aggregation"
	"github.com/dynacharting/core/command"
	"github.com/dynacharting/core/ids"
	"github.com/dynacharting/core/ingest"
	"github.com/dynacharting/core/ingestloop"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/pipeline"
	"github.com/dynacharting/core/recipe"
	"github.com/dynacharting/core/resolution"
	"github.com/dynacharting/core/scene"
	"github.com/dynacharting/core/viewport"
)

func newTestSession(t *testing.T, cfg ChartSessionConfig) (*Session, command.Processor, dcerr.Id) {
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

	s := New(cp, ing, loop, nil, cfg)
	return s, cp, 2
}

func TestMountAppliesCommandsAndSubscribesBuffer(t *testing.T) {
	s, _, layerId := newTestSession(t, DefaultChartSessionConfig())
	r := recipe.NewCandleSeriesRecipe(100, recipe.DefaultCandleSeriesConfig(layerId, "BTC-USD"))

	handle, err := s.Mount(r, dcerr.InvalidId)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if !s.IsMounted(handle) {
		t.Fatalf("expected handle to be mounted")
	}
	if len(s.loop.Bindings) != 1 || s.loop.Bindings[0].BufferId != r.BufferId() {
		t.Fatalf("bindings = %+v, want one binding to buffer %d", s.loop.Bindings, r.BufferId())
	}
}

func TestMountWithAggregationEnabledRegistersBinding(t *testing.T) {
	sc := scene.New()
	cp := command.New(ids.New(), sc, pipeline.NewDefaultCatalog())
	ing := ingest.New()
	loop := ingestloop.New()
	agg := aggregation.New(resolution.NewDefault())

	if r := cp.Process([]byte(`{"cmd":"createPane","id":1,"name":"main"}`)); !r.Ok {
		t.Fatalf("createPane: %v", r.Err)
	}
	if r := cp.Process([]byte(`{"cmd":"createLayer","id":2,"paneId":1,"name":"price"}`)); !r.Ok {
		t.Fatalf("createLayer: %v", r.Err)
	}

	cfg := DefaultChartSessionConfig()
	cfg.EnableAggregation = true
	s := New(cp, ing, loop, agg, cfg)

	r := recipe.NewCandleSeriesRecipe(100, recipe.DefaultCandleSeriesConfig(2, "BTC-USD"))
	if _, err := s.Mount(r, dcerr.InvalidId); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	// Force the controller to a coarser tier so OnViewportChanged has a real
	// binding to rebind, proving the binding was actually registered: the
	// original ChartSession::update() never calls aggManager_ at all, so this
	// exercises the spec-mandated wiring this Session adds.
	vp := viewport.New(
		viewport.PixelSize{W: 100, H: 100},
		scene.Region{ClipXMin: -1, ClipXMax: 1, ClipYMin: -1, ClipYMax: 1},
		viewport.DataRange{XMin: 0, XMax: 10, YMin: 0, YMax: 50}, // ppdu=10, initializes to the Raw tier
	)
	s.AttachViewport(1, vp, dcerr.InvalidId, true)

	s.Update(newFakeSource(nil))
	changed := agg.OnViewportChanged(0.1, ing, cp) // well below every tier threshold -> coarsest
	if len(changed) == 0 {
		t.Fatalf("expected aggregation to rebind the registered binding on a tier change")
	}
}

func TestMountFailureRollsBackCreatedResources(t *testing.T) {
	s, _, _ := newTestSession(t, DefaultChartSessionConfig())
	// layerId 999 does not exist, so createDrawItem inside Build() will fail.
	r := recipe.NewCandleSeriesRecipe(100, recipe.DefaultCandleSeriesConfig(999, "BTC-USD"))

	_, err := s.Mount(r, dcerr.InvalidId)
	if err == nil {
		t.Fatalf("expected Mount to fail for an invalid layerId")
	}
	if len(s.slots) != 0 {
		t.Fatalf("expected no slot retained after failed mount")
	}
}

func TestUnmountRemovesBindingsAndDependencies(t *testing.T) {
	s, _, layerId := newTestSession(t, DefaultChartSessionConfig())
	r := recipe.NewCandleSeriesRecipe(100, recipe.DefaultCandleSeriesConfig(layerId, "BTC-USD"))
	handle, err := s.Mount(r, dcerr.InvalidId)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	s.AddComputeDependency(handle, r.BufferId())

	if !s.Unmount(handle) {
		t.Fatalf("Unmount should succeed for a mounted handle")
	}
	if s.IsMounted(handle) {
		t.Fatalf("expected handle to be unmounted")
	}
	if len(s.loop.Bindings) != 0 {
		t.Fatalf("expected bindings cleared after unmount, got %+v", s.loop.Bindings)
	}
	if len(s.dependents[r.BufferId()]) != 0 {
		t.Fatalf("expected dependents cleared after unmount")
	}
}

func TestComputeCallbackRunsOncePerFrameAndFeedsBackTouchedIds(t *testing.T) {
	s, _, layerId := newTestSession(t, DefaultChartSessionConfig())
	r := recipe.NewVolumeRecipe(200, recipe.DefaultVolumeConfig(layerId))
	handle, err := s.Mount(r, dcerr.InvalidId)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	rawBufId := dcerr.Id(500)
	derivedBufId := dcerr.Id(501)
	calls := 0
	s.AddComputeDependency(handle, rawBufId)
	s.SetComputeCallback(handle, func(touched []dcerr.Id) []dcerr.Id {
		calls++
		return []dcerr.Id{derivedBufId}
	})

	source := newFakeSource([][]byte{appendRecord(rawBufId, []byte{1, 2, 3, 4})})
	result := s.Update(source)

	if calls != 1 {
		t.Fatalf("compute callback calls = %d, want 1", calls)
	}
	if !containsId(result.TouchedBufferIds, derivedBufId) {
		t.Fatalf("touched = %v, want to contain derived buffer %d", result.TouchedBufferIds, derivedBufId)
	}
}

func TestUpdateLinksSecondaryViewportXRangeToPrimary(t *testing.T) {
	cfg := DefaultChartSessionConfig()
	cfg.LinkXAxis = true
	s, _, _ := newTestSession(t, cfg)

	primary := viewport.New(
		viewport.PixelSize{W: 800, H: 600},
		scene.Region{ClipXMin: -1, ClipXMax: 1, ClipYMin: -1, ClipYMax: 1},
		viewport.DataRange{XMin: 0, XMax: 100, YMin: 0, YMax: 50},
	)
	secondary := viewport.New(
		viewport.PixelSize{W: 800, H: 200},
		scene.Region{ClipXMin: -1, ClipXMax: 1, ClipYMin: -1, ClipYMax: -0.5},
		viewport.DataRange{XMin: 10, XMax: 20, YMin: 0, YMax: 1000},
	)
	s.AttachViewport(1, primary, dcerr.InvalidId, true)
	s.AttachViewport(1, secondary, dcerr.InvalidId, false)

	primary.SetDataRange(viewport.DataRange{XMin: 5, XMax: 105, YMin: 0, YMax: 50})

	s.Update(newFakeSource(nil))

	dr := secondary.DataRange()
	if dr.XMin != 5 || dr.XMax != 105 {
		t.Fatalf("secondary xrange = [%v,%v], want [5,105]", dr.XMin, dr.XMax)
	}
	if dr.YMin != 0 || dr.YMax != 1000 {
		t.Fatalf("secondary yrange should be preserved, got [%v,%v]", dr.YMin, dr.YMax)
	}
}

func TestSmartRetentionClampsWithinBounds(t *testing.T) {
	cfg := DefaultChartSessionConfig()
	cfg.EnableSmartRetention = true
	cfg.SmartRetention = SmartRetentionConfig{RetentionMultiplier: 3.0, MinRetention: 1000, MaxRetention: 2000}
	s, _, layerId := newTestSession(t, cfg)

	r := recipe.NewCandleSeriesRecipe(100, recipe.DefaultCandleSeriesConfig(layerId, "BTC-USD"))
	if _, err := s.Mount(r, dcerr.InvalidId); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	vp := viewport.New(
		viewport.PixelSize{W: 800, H: 600},
		scene.Region{ClipXMin: -1, ClipXMax: 1, ClipYMin: -1, ClipYMax: 1},
		viewport.DataRange{XMin: 0, XMax: 1_000_000, YMin: 0, YMax: 50},
	)
	s.AttachViewport(1, vp, dcerr.InvalidId, true)

	payload := make([]byte, 4000)
	source := newFakeSource([][]byte{appendRecord(r.BufferId(), payload)})
	s.Update(source)

	if got := s.ing.Size(r.BufferId()); got > cfg.SmartRetention.MaxRetention {
		t.Fatalf("buffer size = %d, want clamped to at most %d", got, cfg.SmartRetention.MaxRetention)
	}
}

// --- test helpers ---

type fakeSource struct {
	batches [][]byte
	idx     int
}

func newFakeSource(batches [][]byte) *fakeSource { return &fakeSource{batches: batches} }

func (f *fakeSource) Start()       {}
func (f *fakeSource) Stop()        {}
func (f *fakeSource) IsRunning() bool { return false }
func (f *fakeSource) Poll() ([]byte, bool) {
	if f.idx >= len(f.batches) {
		return nil, false
	}
	b := f.batches[f.idx]
	f.idx++
	return b, true
}

// appendRecord builds a minimal OpAppend ingest record: op(1) + bufferId(4) +
// offset(4, unused for append) + payloadLen(4) + payload.
func appendRecord(bufferId dcerr.Id, payload []byte) []byte {
	buf := make([]byte, 0, 13+len(payload))
	buf = append(buf, byte(ingest.OpAppend))
	buf = appendUint32(buf, uint32(bufferId))
	buf = appendUint32(buf, 0)
	buf = appendUint32(buf, uint32(len(payload)))
	buf = append(buf, payload...)
	return buf
}

func appendUint32(buf []byte, v uint32) []byte {
	for i := 0; i < 4; i++ {
		buf = append(buf, byte(v>>(8*i)))
	}
	return buf
}

func containsId(haystack []dcerr.Id, target dcerr.Id) bool {
	for _, id := range haystack {
		if id == target {
			return true
		}
	}
	return false
}
